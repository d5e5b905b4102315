package models

import (
	"fbs/src/types"
	"time"
)

type Trip struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	RouteID        uint             `json:"route_id,omitempty"`
	VesselID       uint             `json:"vessel_id,omitempty"`
	TravelDate     time.Time        `json:"travel_date,omitempty"`
	DepartureTime  string           `json:"departure_time,omitempty"`
	FareMultiplier float32          `gorm:"default:1" json:"fare_multiplier"`
	Status         types.TripStatus `gorm:"default:'scheduled'" json:"status,omitempty"`

	Route  Route  `gorm:"foreignKey:route_id" json:"route,omitempty"`
	Vessel Vessel `gorm:"foreignKey:vessel_id" json:"vessel,omitempty"`

	Holds    []SeatHold   `gorm:"foreignKey:trip_id" json:"-"`
	Bookings []BookingLeg `gorm:"foreignKey:trip_id" json:"-"`

	Stats *TripSeatStats `gorm:"-" json:"stats,omitempty"`

	types.Timestamps
}

type TripSeatStats struct {
	TripID   uint `json:"trip_id,omitempty"`
	Free     uint `json:"free"`
	Held     uint `json:"held"`
	Occupied uint `json:"occupied"`
}
