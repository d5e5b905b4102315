package common

import (
	"context"
	"errors"
	"fbs/src/config"
	"fbs/src/db"
	"fbs/src/lib"
	"fbs/src/models"
	"fbs/src/types"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSeatConflict = errors.New("seat is held or occupied by another user")

func holdKey(tripID uint, seatCode string) string {
	return fmt.Sprintf("hold:%d:%s", tripID, seatCode)
}

// AcquireSeatHold places a temporary reservation on one seat. The redis
// key is the fast-path conflict check; the SeatHold row is the durable
// record behind expiry and availability queries. Every successful acquire
// is broadcast on the trip's realtime channel.
func AcquireSeatHold(tripID uint, seatCode string, userID uint) (*models.SeatHold, error) {
	rdb := lib.GetRedisClient()
	ttl := config.GetSeatHoldTTL()
	ok, err := rdb.SetNX(context.Background(), holdKey(tripID, seatCode), userID, ttl).Result()
	if err != nil {
		log.Printf("[holds] redis error acquiring %s on trip %d: %s\n", seatCode, tripID, err.Error())
		return nil, err
	}
	if !ok {
		return nil, ErrSeatConflict
	}

	database := db.GetDb()
	now := time.Now()
	validUntil := now.Add(ttl)
	requestId := uuid.New()
	hold := models.SeatHold{
		TripID:     tripID,
		SeatCode:   seatCode,
		UserID:     userID,
		ValidUntil: &validUntil,
		Status:     types.HOLD_PENDING,
		RequestID:  &requestId,
	}
	err = database.Transaction(func(tx *gorm.DB) error {
		occupied, err := OccupiedSeats(tx, tripID, 0)
		if err != nil {
			return err
		}
		if occupied[seatCode] {
			return ErrSeatConflict
		}
		var stale models.SeatHold
		err = tx.
			Where(&models.SeatHold{TripID: tripID, SeatCode: seatCode}).
			First(&stale).
			Error
		if err == nil {
			if stale.Status == types.HOLD_PENDING && stale.ValidUntil != nil && stale.ValidUntil.After(now) && stale.UserID != userID {
				return ErrSeatConflict
			}
			if err := tx.Delete(&stale).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&hold).Error
	})
	if err != nil {
		rdb.Del(context.Background(), holdKey(tripID, seatCode))
		if !errors.Is(err, ErrSeatConflict) {
			log.Printf("[holds] error creating hold for %s on trip %d: %s\n", seatCode, tripID, err.Error())
		}
		return nil, err
	}

	scheduleHoldExpiry(&hold)
	go lib.BroadcastSeatUpdate(tripID, seatCode, false, userID)
	return &hold, nil
}

// ReleaseSeatHold drops a pending hold and tells subscribers the seat is
// free again. Releasing a hold that is already gone is not an error.
func ReleaseSeatHold(tripID uint, seatCode string, userID uint) error {
	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.SeatHold{}).
			Where(&models.SeatHold{TripID: tripID, SeatCode: seatCode, UserID: userID, Status: types.HOLD_PENDING}).
			Update("status", types.HOLD_RELEASED).
			Error
	})
	if err != nil {
		return err
	}
	rdb := lib.GetRedisClient()
	rdb.Del(context.Background(), holdKey(tripID, seatCode))
	go lib.BroadcastSeatUpdate(tripID, seatCode, true, 0)
	return nil
}

// ConfirmHoldsForBooking upgrades a user's pending holds on a trip's seats
// to confirmed and pins them to the booking. Called inside the submission
// transaction.
func ConfirmHoldsForBooking(tx *gorm.DB, bookingID uint, tripID uint, seatCodes []string, userID uint) error {
	return tx.
		Model(&models.SeatHold{}).
		Where("trip_id = ? AND user_id = ? AND seat_code IN ? AND status = ?", tripID, userID, seatCodes, types.HOLD_PENDING).
		Updates(map[string]any{
			"status":     types.HOLD_CONFIRMED,
			"booking_id": bookingID,
		}).
		Error
}

func scheduleHoldExpiry(hold *models.SeatHold) {
	go func() {
		payloadId := uuid.New().String()
		jobTask := models.JobTask{
			Name:    fmt.Sprintf("SeatHold_%d_Expiry", hold.ID),
			JobType: "OneTimeJobStartDateTime",
			RunsAt:  *hold.ValidUntil,
			HandlerParams: []any{
				hold.ID,
			},
			PayloadID: payloadId,
			Payload: types.JSONB{
				"payloadId": payloadId,
				"id":        hold.ID,
				"trip_id":   hold.TripID,
				"seat_code": hold.SeatCode,
				"topic":     "ExpiredHolds",
				"table":     "seat_holds",
			},
			Source:     "SeatHold",
			SourceType: "table",
			Topic:      "ExpiredHolds",
		}
		id, err := jobTask.CreateAndEnqueueJobTask(jobTask)
		if err != nil {
			log.Printf("Error creating expiry job for SeatHold: id=%d error=%s\n", hold.ID, err.Error())
			return
		}
		log.Printf("Created expiry job for SeatHold[%d] with ID %s\n", hold.ID, id)
	}()
}

// ExpireHold finalizes one hold past its ValidUntil: mark expired, drop
// the redis mirror, broadcast the freed seat. Idempotent; the sweeper and
// the queue consumer may both get here.
func ExpireHold(holdID uint) {
	database := db.GetDb()
	var hold models.SeatHold
	expired := false
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(&models.SeatHold{ID: holdID}).
			First(&hold).
			Error; err != nil {
			return err
		}
		if hold.Status != types.HOLD_PENDING {
			return nil
		}
		if hold.ValidUntil != nil && hold.ValidUntil.After(time.Now()) {
			return nil
		}
		expired = true
		return tx.
			Model(&models.SeatHold{}).
			Where(&models.SeatHold{ID: holdID}).
			Update("status", types.HOLD_EXPIRED).
			Error
	})
	if err != nil {
		log.Printf("Error expiring hold %d: %s\n", holdID, err.Error())
		return
	}
	if expired {
		rdb := lib.GetRedisClient()
		rdb.Del(context.Background(), holdKey(hold.TripID, hold.SeatCode))
		go lib.BroadcastSeatUpdate(hold.TripID, hold.SeatCode, true, 0)
	}
}
