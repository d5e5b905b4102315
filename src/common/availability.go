package common

import (
	"fbs/src/db"
	"fbs/src/models"
	"fbs/src/types"
	"time"

	"gorm.io/gorm"
)

// GetTripSeatStatus builds the seat map for a trip: the vessel layout with
// availability derived from confirmed passengers plus unexpired holds.
func GetTripSeatStatus(tripID uint) ([]models.SeatStatus, error) {
	db := db.GetDb()
	var trip models.Trip
	if err := db.
		Model(&models.Trip{}).
		Where(&models.Trip{ID: tripID}).
		Preload("Vessel.Seats").
		First(&trip).
		Error; err != nil {
		return nil, err
	}

	occupied, err := OccupiedSeats(db, tripID, 0)
	if err != nil {
		return nil, err
	}
	held, err := HeldSeats(db, tripID)
	if err != nil {
		return nil, err
	}

	statuses := make([]models.SeatStatus, 0, len(trip.Vessel.Seats))
	for _, seat := range trip.Vessel.Seats {
		s := models.SeatStatus{
			TripID:     tripID,
			SeatCode:   seat.Number,
			Row:        seat.Row,
			Window:     seat.Window,
			Aisle:      seat.Aisle,
			Accessible: seat.Accessible,
			Available:  true,
		}
		if occupied[seat.Number] {
			s.Available = false
		}
		if by, ok := held[seat.Number]; ok {
			s.Available = false
			s.HeldByUser = by
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

// GetTripStats counts free, held and occupied seats for trip listings.
func GetTripStats(tripID uint, capacity uint) (*models.TripSeatStats, error) {
	db := db.GetDb()
	occupied, err := OccupiedSeats(db, tripID, 0)
	if err != nil {
		return nil, err
	}
	held, err := HeldSeats(db, tripID)
	if err != nil {
		return nil, err
	}
	stats := models.TripSeatStats{
		TripID:   tripID,
		Occupied: uint(len(occupied)),
		Held:     uint(len(held)),
	}
	taken := stats.Occupied + stats.Held
	if capacity > taken {
		stats.Free = capacity - taken
	}
	return &stats, nil
}

// OccupiedSeats maps seat codes to passengers on live bookings for a trip.
// A non-zero excludeBookingID leaves that booking's own passengers out, so
// a modification can keep any of its current seats.
func OccupiedSeats(tx *gorm.DB, tripID uint, excludeBookingID uint) (map[string]bool, error) {
	var passengers []models.Passenger
	q := tx.
		Model(&models.Passenger{}).
		Joins("JOIN booking_legs ON booking_legs.id = passengers.booking_leg_id").
		Joins("JOIN bookings ON bookings.id = booking_legs.booking_id").
		Where("booking_legs.trip_id = ?", tripID).
		Where("bookings.status IN ?", []types.BookingStatus{types.BOOKING_PENDING, types.BOOKING_CONFIRMED, types.BOOKING_MODIFIED})
	if excludeBookingID > 0 {
		q = q.Where("bookings.id <> ?", excludeBookingID)
	}
	err := q.
		Find(&passengers).
		Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(passengers))
	for _, p := range passengers {
		out[p.SeatCode] = true
	}
	return out, nil
}

func HeldSeats(tx *gorm.DB, tripID uint) (map[string]uint, error) {
	var holds []models.SeatHold
	err := tx.
		Model(&models.SeatHold{}).
		Where(&models.SeatHold{TripID: tripID, Status: types.HOLD_PENDING}).
		Where("valid_until > ?", time.Now()).
		Find(&holds).
		Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]uint, len(holds))
	for _, h := range holds {
		out[h.SeatCode] = h.UserID
	}
	return out, nil
}
