package models

import (
	"fbs/src/types"
	"time"
)

type Campaign struct {
	ID        uint                 `gorm:"primarykey" json:"id"`
	Subject   string               `json:"subject,omitempty"`
	Body      string               `json:"body,omitempty"`
	Html      bool                 `json:"html"`
	Audience  string               `json:"audience,omitempty"`
	RouteID   *uint                `json:"route_id,omitempty"`
	SendAt    *time.Time           `json:"send_at,omitempty"`
	SentAt    *time.Time           `json:"sent_at,omitempty"`
	Status    types.CampaignStatus `gorm:"default:'draft'" json:"status,omitempty"`
	SentTo    uint                 `json:"sent_to,omitempty"`
	CreatedBy uint                 `json:"created_by,omitempty"`

	Route   *Route `gorm:"foreignKey:route_id" json:"route,omitempty"`
	Creator User   `gorm:"foreignKey:created_by" json:"-"`

	types.Timestamps
}
