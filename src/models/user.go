package models

import (
	"fbs/src/types"
	"time"
)

type User struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `json:"name,omitempty"`
	Email         string          `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash  string          `json:"-"`
	Role          string          `gorm:"default:'customer'" json:"role,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	EmailVerified bool            `json:"email_verified,omitempty"`
	VerifiedAt    *time.Time      `json:"verified_at,omitempty"`
	Metadata      *types.Metadata `gorm:"type:jsonb" json:"metadata,omitempty"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"bookings,omitempty"`
	Agent    *Agent    `gorm:"foreignKey:user_id" json:"agent,omitempty"`

	types.Timestamps
}
