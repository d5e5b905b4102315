package models

import (
	"fbs/src/types"

	"github.com/google/uuid"
)

type Booking struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	BookingNumber string              `gorm:"uniqueIndex" json:"booking_number,omitempty"`
	TripType      types.TripType      `json:"trip_type,omitempty"`
	Status        types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`
	UserID        uint                `json:"user_id,omitempty"`
	AgentID       *uint               `json:"agent_id,omitempty"`
	DiscountRate  float32             `gorm:"default:0" json:"discount_rate"`
	Subtotal      float32             `json:"subtotal,omitempty"`
	Total         float32             `json:"total,omitempty"`
	AmountPaid    float32             `json:"amount_paid,omitempty"`
	Currency      string              `gorm:"default:'usd'" json:"currency,omitempty"`
	PaymentMethod types.PaymentMethod `json:"payment_method,omitempty"`
	ContactEmail  string              `json:"contact_email,omitempty"`
	ContactPhone  string              `json:"contact_phone,omitempty"`
	TransactionID *uuid.UUID          `gorm:"type:uuid" json:"transaction_id,omitempty"`
	Metadata      *types.Metadata     `gorm:"type:jsonb" json:"metadata,omitempty"`

	User          User           `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Agent         *Agent         `gorm:"foreignKey:agent_id" json:"agent,omitempty"`
	Legs          []BookingLeg   `gorm:"foreignKey:booking_id" json:"legs,omitempty"`
	Transaction   *Transaction   `gorm:"foreignKey:transaction_id" json:"transaction,omitempty"`
	Modifications []Modification `gorm:"foreignKey:booking_id" json:"modifications,omitempty"`

	types.Timestamps
}

// BookingLeg binds one direction of travel to a trip with its passengers.
type BookingLeg struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	BookingID uint      `json:"booking_id,omitempty"`
	TripID    uint      `json:"trip_id,omitempty"`
	Leg       types.Leg `json:"leg,omitempty"`
	LegFare   float32   `json:"leg_fare,omitempty"`

	Booking    Booking     `gorm:"foreignKey:booking_id" json:"-"`
	Trip       Trip        `gorm:"foreignKey:trip_id" json:"trip,omitempty"`
	Passengers []Passenger `gorm:"foreignKey:booking_leg_id" json:"passengers,omitempty"`

	types.Timestamps
}

// Modification records a date/trip change against a confirmed booking and
// the fare difference it produced. Positive difference means the client
// owed an additional payment, negative a refund.
type Modification struct {
	ID             uint    `gorm:"primarykey" json:"id"`
	BookingID      uint    `json:"booking_id,omitempty"`
	Reason         string  `json:"reason,omitempty"`
	FareDifference float32 `json:"fare_difference"`
	SettledVia     string  `json:"settled_via,omitempty"`

	Booking Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}
