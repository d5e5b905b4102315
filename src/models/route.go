package models

import "fbs/src/types"

type Route struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Name        string  `json:"name,omitempty"`
	Slug        string  `gorm:"uniqueIndex" json:"slug,omitempty"`
	Origin      string  `json:"origin,omitempty"`
	Destination string  `json:"destination,omitempty"`
	BaseFare    float32 `json:"base_fare"`
	Active      bool    `gorm:"default:true" json:"active"`

	Stops    []RouteStop    `gorm:"foreignKey:route_id" json:"stops,omitempty"`
	Segments []RouteSegment `gorm:"foreignKey:route_id" json:"segments,omitempty"`
	Trips    []Trip         `gorm:"foreignKey:route_id" json:"trips,omitempty"`

	types.Timestamps
}

type RouteStop struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	RouteID  uint   `gorm:"uniqueIndex:route_stop_position" json:"route_id,omitempty"`
	Island   string `json:"island,omitempty"`
	Position uint   `gorm:"uniqueIndex:route_stop_position" json:"position"`

	types.Timestamps
}

// RouteSegment carries the precomputed fare for one boarding/destination
// island pair on a multi-stop route.
type RouteSegment struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	RouteID    uint    `gorm:"uniqueIndex:route_segment_pair" json:"route_id,omitempty"`
	FromIsland string  `gorm:"uniqueIndex:route_segment_pair" json:"from_island,omitempty"`
	ToIsland   string  `gorm:"uniqueIndex:route_segment_pair" json:"to_island,omitempty"`
	Fare       float32 `json:"fare"`

	types.Timestamps
}
