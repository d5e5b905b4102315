package booking

import "context"

// HoldResult is the outcome of a hold attempt against shared inventory.
// The engine never assumes exclusive ownership of a seat: any toggle can
// come back as a conflict.
type HoldResult string

const (
	HoldSuccess  HoldResult = "success"
	HoldConflict HoldResult = "conflict"
)

// SeatUpdateFunc receives incremental seat-state changes for a subscribed
// trip.
type SeatUpdateFunc func(tripID uint, seatCode string, available bool)

// Submission is what the backend returns for a finalized draft. The caller
// discards the draft on success.
type Submission struct {
	BookingID     uint   `json:"booking_id"`
	BookingNumber string `json:"booking_number"`
	PaymentURL    string `json:"payment_url,omitempty"`
}

// InventorySource is the persistence/notification boundary the engine's
// controller drives effects against. An empty FetchTrips result is a valid
// outcome, not an error.
type InventorySource interface {
	FetchTrips(ctx context.Context, routeID uint, date string, returnLeg bool) ([]Trip, error)
	FetchAvailableSeats(ctx context.Context, tripID uint) ([]Seat, error)
	SubscribeSeatUpdates(ctx context.Context, tripID uint, fn SeatUpdateFunc) error
	UnsubscribeSeatUpdates(ctx context.Context, tripID uint) error
	ToggleSeatHold(ctx context.Context, tripID uint, seatCode string, release bool) (HoldResult, error)
	SubmitBooking(ctx context.Context, draft *Draft, paymentMethod string) (*Submission, error)
}
