package common

import (
	"context"
	"errors"
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

// SchedulePendingBookingExpiry queues the job that voids a gateway booking
// whose checkout was never completed by the deadline.
func SchedulePendingBookingExpiry(booking *models.Booking, deadline time.Time) {
	go func() {
		payloadId := uuid.New().String()
		jobTask := models.JobTask{
			Name:    fmt.Sprintf("Booking_%d_Expiry", booking.ID),
			JobType: "OneTimeJobStartDateTime",
			RunsAt:  deadline,
			HandlerParams: []any{
				booking.ID,
			},
			PayloadID: payloadId,
			Payload: types.JSONB{
				"payloadId": payloadId,
				"id":        booking.ID,
				"number":    booking.BookingNumber,
				"topic":     "PendingBookings",
				"table":     "bookings",
			},
			Source:     "Booking",
			SourceType: "table",
			Topic:      "PendingBookings",
		}
		id, err := jobTask.CreateAndEnqueueJobTask(jobTask)
		if err != nil {
			log.Printf("Error creating expiry job for Booking: id=%d error=%s\n", booking.ID, err.Error())
			return
		}
		log.Printf("Created expiry job for Booking[%d] with ID %s\n", booking.ID, id)
	}()
}

// ExpirePendingBooking voids a booking still awaiting gateway payment and
// frees its seats. Confirmed or already-expired bookings are left alone.
func ExpirePendingBooking(bookingID uint) {
	database := db.GetDb()
	var booking models.Booking
	expired := false
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(&models.Booking{ID: bookingID}).
			Preload("Legs.Passengers").
			First(&booking).
			Error; err != nil {
			return err
		}
		if booking.Status != types.BOOKING_PENDING {
			return nil
		}
		expired = true
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingID}).
			Update("status", types.BOOKING_EXPIRED).
			Error; err != nil {
			return err
		}
		return tx.
			Model(&models.SeatHold{}).
			Where(&models.SeatHold{BookingID: &bookingID, Status: types.HOLD_CONFIRMED}).
			Update("status", types.HOLD_RELEASED).
			Error
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error expiring booking %d: %s\n", bookingID, err.Error())
		}
		return
	}
	if !expired {
		return
	}
	rdb := lib.GetRedisClient()
	for _, leg := range booking.Legs {
		for _, p := range leg.Passengers {
			rdb.Del(context.Background(), holdKey(leg.TripID, p.SeatCode))
			go lib.BroadcastSeatUpdate(leg.TripID, p.SeatCode, true, 0)
		}
	}
	log.Printf("Booking %s expired without payment\n", booking.BookingNumber)
}
