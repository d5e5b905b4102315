package models

import (
	"fbs/src/types"
	"time"

	"github.com/google/uuid"
)

// SeatHold is a temporary reservation of one seat on one trip. The hold is
// mirrored in redis with a TTL; this row is the durable record the expiry
// sweeper and availability queries work from. A hold past ValidUntil no
// longer blocks the seat.
type SeatHold struct {
	ID         uint                 `gorm:"primarykey" json:"id"`
	TripID     uint                 `gorm:"uniqueIndex:trip_seat_hold" json:"trip_id,omitempty"`
	SeatCode   string               `gorm:"uniqueIndex:trip_seat_hold" json:"seat_code,omitempty"`
	UserID     uint                 `json:"user_id,omitempty"`
	BookingID  *uint                `json:"booking_id,omitempty"`
	ValidUntil *time.Time           `json:"valid_until,omitempty"`
	Status     types.SeatHoldStatus `gorm:"default:'pending'" json:"status,omitempty"`
	RequestID  *uuid.UUID           `gorm:"type:uuid" json:"-"`

	Trip    Trip     `gorm:"foreignKey:trip_id" json:"-"`
	Booking *Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}

// SeatStatus is the wire shape broadcast on a trip's realtime channel and
// returned by availability queries.
type SeatStatus struct {
	TripID     uint   `json:"trip_id"`
	SeatCode   string `json:"seat_code"`
	Row        uint   `json:"row,omitempty"`
	Window     bool   `json:"window,omitempty"`
	Aisle      bool   `json:"aisle,omitempty"`
	Accessible bool   `json:"accessible,omitempty"`
	Available  bool   `json:"available"`
	HeldByUser uint   `json:"held_by,omitempty"`
}
