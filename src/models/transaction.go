package models

import (
	"fbs/src/types"

	"github.com/google/uuid"
)

// Transaction records every money movement against a booking: the initial
// charge, additional payments on modification, and refunds. Refund rows
// carry a negative Amount and never reference the payment gateway.
type Transaction struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	BookingID   uint
	Currency    string
	Amount      float64
	Method      types.PaymentMethod
	SourceName  string
	SourceValue string
	ReferenceID string
	Status      types.TransactionStatus `gorm:"default:'pending'"`
	Metadata    types.JSONB

	types.Timestamps

	Booking Booking `gorm:"foreignKey:booking_id" json:"-"`
}
