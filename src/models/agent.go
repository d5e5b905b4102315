package models

import "fbs/src/types"

// Agent extends a user with a booking-office profile. DiscountRate is the
// percentage taken off computed fares for bookings made by this agent.
type Agent struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	UserID       uint    `json:"user_id,omitempty"`
	OfficeName   string  `json:"office_name,omitempty"`
	Island       string  `json:"island,omitempty"`
	DiscountRate float32 `gorm:"default:0" json:"discount_rate"`
	CreditLimit  float32 `json:"credit_limit,omitempty"`
	CreditUsed   float32 `json:"credit_used,omitempty"`
	Active       bool    `gorm:"default:true" json:"active"`

	User User `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}
