package models

import "fbs/src/types"

type Vessel struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `json:"name,omitempty"`
	Capacity uint   `json:"capacity,omitempty"`
	Active   bool   `gorm:"default:true" json:"active"`

	Seats []VesselSeat `gorm:"foreignKey:vessel_id" json:"seats,omitempty"`
	Trips []Trip       `gorm:"foreignKey:vessel_id" json:"trips,omitempty"`

	types.Timestamps
}

// VesselSeat is the static layout entry a trip's seat map is generated from.
type VesselSeat struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	VesselID   uint   `gorm:"uniqueIndex:vessel_seat_number" json:"vessel_id,omitempty"`
	Number     string `gorm:"uniqueIndex:vessel_seat_number" json:"number,omitempty"`
	Row        uint   `json:"row,omitempty"`
	Window     bool   `json:"window"`
	Aisle      bool   `json:"aisle"`
	Accessible bool   `json:"accessible"`

	types.Timestamps
}
