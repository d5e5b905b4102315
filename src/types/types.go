package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Metadata map[string]any

type TripStatus string

const (
	TRIP_SCHEDULED TripStatus = "scheduled"
	TRIP_BOARDING  TripStatus = "boarding"
	TRIP_DEPARTED  TripStatus = "departed"
	TRIP_COMPLETED TripStatus = "completed"
	TRIP_CANCELED  TripStatus = "canceled"
)

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_MODIFIED  BookingStatus = "modified"
	BOOKING_CANCELED  BookingStatus = "canceled"
	BOOKING_EXPIRED   BookingStatus = "expired"
)

type SeatHoldStatus string

const (
	HOLD_PENDING   SeatHoldStatus = "pending"
	HOLD_RELEASED  SeatHoldStatus = "released"
	HOLD_EXPIRED   SeatHoldStatus = "expired"
	HOLD_CONFIRMED SeatHoldStatus = "confirmed"
)

type TransactionStatus string

const (
	TRANSACTION_PENDING    TransactionStatus = "pending"
	TRANSACTION_PROCESSING TransactionStatus = "processing"
	TRANSACTION_COMPLETED  TransactionStatus = "paid"
	TRANSACTION_REFUNDED   TransactionStatus = "refunded"
	TRANSACTION_CANCELED   TransactionStatus = "canceled"
	TRANSACTION_EXPIRED    TransactionStatus = "expired"
)

type PaymentMethod string

const (
	PAYMENT_GATEWAY       PaymentMethod = "gateway"
	PAYMENT_AGENT_CREDIT  PaymentMethod = "agent_credit"
	PAYMENT_BANK_TRANSFER PaymentMethod = "bank_transfer"
)

type CampaignStatus string

const (
	CAMPAIGN_DRAFT     CampaignStatus = "draft"
	CAMPAIGN_SCHEDULED CampaignStatus = "scheduled"
	CAMPAIGN_SENDING   CampaignStatus = "sending"
	CAMPAIGN_SENT      CampaignStatus = "sent"
	CAMPAIGN_CANCELED  CampaignStatus = "canceled"
)

type TripType string

const (
	TRIP_ONE_WAY    TripType = "one_way"
	TRIP_ROUND_TRIP TripType = "round_trip"
)

type Leg string

const (
	LEG_DEPARTURE Leg = "departure"
	LEG_RETURN    Leg = "return"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateRouteRequestBody struct {
	Name        string         `json:"name" binding:"required"`
	Origin      string         `json:"origin" binding:"required"`
	Destination string         `json:"destination" binding:"required"`
	BaseFare    float32        `json:"base_fare" binding:"required,gt=0"`
	Stops       []RouteStop    `json:"stops,omitempty"`
	Segments    []RouteSegment `json:"segments,omitempty"`
}

type RouteStop struct {
	Island   string `json:"island" binding:"required"`
	Position uint   `json:"position"`
}

type RouteSegment struct {
	FromIsland string  `json:"from_island" binding:"required"`
	ToIsland   string  `json:"to_island" binding:"required"`
	Fare       float32 `json:"fare" binding:"required,gt=0"`
}

type CreateVesselRequestBody struct {
	Name     string             `json:"name" binding:"required"`
	Capacity uint               `json:"capacity" binding:"required,gt=0"`
	Seats    []VesselSeatLayout `json:"seats" binding:"required,min=1"`
}

type VesselSeatLayout struct {
	Number     string `json:"number" binding:"required"`
	Row        uint   `json:"row" binding:"required"`
	Window     bool   `json:"window,omitempty"`
	Aisle      bool   `json:"aisle,omitempty"`
	Accessible bool   `json:"accessible,omitempty"`
}

type CreateTripRequestBody struct {
	RouteID        uint    `json:"route" binding:"required"`
	VesselID       uint    `json:"vessel" binding:"required"`
	TravelDate     string  `json:"travel_date" binding:"required,traveldate"`
	DepartureTime  string  `json:"departure_time" binding:"required"`
	FareMultiplier float32 `json:"fare_multiplier,omitempty" binding:"omitempty,gt=0"`
}

type TripQueryFilters struct {
	RouteID uint   `form:"route" binding:"required"`
	Date    string `form:"date" binding:"required"`
	Return  bool   `form:"return,omitempty" binding:"omitempty"`
}

type SeatHoldRequestBody struct {
	TripID   uint   `json:"trip" binding:"required"`
	SeatCode string `json:"seat" binding:"required"`
	Release  bool   `json:"release,omitempty"`
}

type DraftPassenger struct {
	SeatCode   string `json:"seat" binding:"required"`
	FullName   string `json:"full_name" binding:"required"`
	IDNumber   string `json:"id_number,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Accessible bool   `json:"accessible,omitempty"`
}

type BookingLegRequest struct {
	TripID     uint             `json:"trip" binding:"required"`
	Seats      []string         `json:"seats" binding:"required,min=1"`
	Passengers []DraftPassenger `json:"passengers" binding:"required,min=1"`
}

type CreateBookingRequestBody struct {
	TripType      TripType           `json:"trip_type" binding:"required,oneof=one_way round_trip"`
	Departure     BookingLegRequest  `json:"departure" binding:"required"`
	Return        *BookingLegRequest `json:"return,omitempty"`
	PaymentMethod PaymentMethod      `json:"payment_method" binding:"required,oneof=gateway agent_credit bank_transfer"`
	DiscountRate  float32            `json:"discount_rate,omitempty" binding:"omitempty,gte=0,lte=100"`
	ContactEmail  string             `json:"contact_email" binding:"required,email"`
	ContactPhone  string             `json:"contact_phone,omitempty"`
}

type ModifyBookingRequestBody struct {
	NewTripID     uint          `json:"new_trip,omitempty"`
	NewReturnID   uint          `json:"new_return_trip,omitempty"`
	Seats         []string      `json:"seats,omitempty"`
	ReturnSeats   []string      `json:"return_seats,omitempty"`
	Reason        string        `json:"reason" binding:"required"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty" binding:"omitempty,oneof=gateway agent_credit bank_transfer"`
}

type CreateCampaignRequestBody struct {
	Subject  string  `json:"subject" binding:"required"`
	Body     string  `json:"body" binding:"required"`
	Html     bool    `json:"html,omitempty"`
	Audience string  `json:"audience" binding:"required,oneof=all customers agents route_subscribers"`
	RouteID  *uint   `json:"route,omitempty"`
	SendAt   *string `json:"send_at,omitempty" binding:"omitempty,traveldate"`
}

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CheckInRequestBody struct {
	Code string `json:"code" binding:"required"`
}

type BookingQueryFilters struct {
	Status string `form:"status,omitempty" binding:"omitempty"`
	TripID uint   `form:"trip,omitempty" binding:"omitempty"`
}

type Handler func(payload string)
