package common

import (
	"fbs/src/db"
	"fbs/src/lib"
	"fbs/src/lib/mailer"
	"fbs/src/models"
	"fbs/src/types"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DispatchCampaign resolves the campaign audience and enqueues one email
// per recipient. Status moves from draft or scheduled to sending to sent; a
// campaign already past sending is left alone so replayed queue messages
// do not double-send.
func DispatchCampaign(campaignID uint) error {
	database := db.GetDb()
	var campaign models.Campaign
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(&models.Campaign{ID: campaignID}).
			First(&campaign).
			Error; err != nil {
			return err
		}
		if campaign.Status != types.CAMPAIGN_DRAFT && campaign.Status != types.CAMPAIGN_SCHEDULED {
			return fmt.Errorf("campaign [%d] is not dispatchable in status %s", campaignID, campaign.Status)
		}
		return tx.
			Model(&models.Campaign{}).
			Where(&models.Campaign{ID: campaignID}).
			Update("status", types.CAMPAIGN_SENDING).
			Error
	})
	if err != nil {
		return err
	}

	recipients, err := campaignRecipients(&campaign)
	if err != nil {
		return err
	}
	from := os.Getenv("MAIL_FROM")
	fromName := os.Getenv("MAIL_FROM_NAME")
	sent := uint(0)
	for _, to := range recipients {
		err := mailer.NewMailerMessage(&lib.SendMailInput{
			From:     from,
			FromName: fromName,
			To:       []string{to},
			Subject:  campaign.Subject,
			Body:     campaign.Body,
			Html:     campaign.Html,
		})
		if err != nil {
			log.Printf("Error enqueueing campaign email to %s: %s\n", to, err.Error())
			continue
		}
		sent++
	}

	now := time.Now()
	err = database.
		Model(&models.Campaign{}).
		Where(&models.Campaign{ID: campaignID}).
		Updates(map[string]any{
			"status":  types.CAMPAIGN_SENT,
			"sent_at": &now,
			"sent_to": sent,
		}).
		Error
	if err != nil {
		log.Printf("Error finalizing campaign %d: %s\n", campaignID, err.Error())
		return err
	}
	log.Printf("Campaign %d dispatched to %d recipients\n", campaignID, sent)
	return nil
}

// ScheduleCampaign registers the durable job that fires the dispatch at
// SendAt.
func ScheduleCampaign(campaign *models.Campaign) error {
	if campaign.SendAt == nil {
		return fmt.Errorf("campaign [%d] has no send_at", campaign.ID)
	}
	payloadId := uuid.New().String()
	jobTask := models.JobTask{
		Name:    fmt.Sprintf("Campaign_%d_Dispatch", campaign.ID),
		JobType: "OneTimeJobStartDateTime",
		RunsAt:  *campaign.SendAt,
		HandlerParams: []any{
			campaign.ID,
		},
		PayloadID: payloadId,
		Payload: types.JSONB{
			"payloadId": payloadId,
			"id":        campaign.ID,
			"topic":     "CampaignDispatch",
			"table":     "campaigns",
		},
		Source:     "Campaign",
		SourceType: "table",
		Topic:      "CampaignDispatch",
	}
	_, err := jobTask.CreateAndEnqueueJobTask(jobTask)
	return err
}

func campaignRecipients(campaign *models.Campaign) ([]string, error) {
	database := db.GetDb()
	var users []models.User
	q := database.Model(&models.User{}).Select("users.email")
	switch campaign.Audience {
	case "customers":
		q = q.Where(&models.User{Role: "customer"})
	case "agents":
		q = q.Where(&models.User{Role: "agent"})
	case "route_subscribers":
		if campaign.RouteID == nil {
			return nil, fmt.Errorf("campaign [%d] targets route subscribers but has no route", campaign.ID)
		}
		q = q.
			Joins("JOIN bookings ON bookings.user_id = users.id").
			Joins("JOIN booking_legs ON booking_legs.booking_id = bookings.id").
			Joins("JOIN trips ON trips.id = booking_legs.trip_id").
			Where("trips.route_id = ?", *campaign.RouteID).
			Distinct("users.email")
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(users))
	for _, u := range users {
		if u.Email != "" {
			emails = append(emails, u.Email)
		}
	}
	return emails, nil
}
