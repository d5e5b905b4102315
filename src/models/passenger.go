package models

import (
	"fbs/src/types"
	"time"
)

type Passenger struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	BookingLegID uint       `gorm:"uniqueIndex:leg_seat" json:"booking_leg_id,omitempty"`
	SeatCode     string     `gorm:"uniqueIndex:leg_seat" json:"seat_code,omitempty"`
	FullName     string     `json:"full_name,omitempty"`
	IDNumber     string     `json:"id_number,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Accessible   bool       `json:"accessible"`
	BoardingCode string     `gorm:"uniqueIndex" json:"boarding_code,omitempty"`
	BoardedAt    *time.Time `json:"boarded_at,omitempty"`

	BookingLeg BookingLeg `gorm:"foreignKey:booking_leg_id" json:"-"`

	types.Timestamps
}
