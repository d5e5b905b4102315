package booking

import "errors"

var (
	ErrMissingBaseFare = errors.New("base fare is missing or not positive")
	ErrBadMultiplier   = errors.New("fare multiplier must be positive")
	ErrBadDiscount     = errors.New("discount rate must be between 0 and 100")
	ErrBadPassengers   = errors.New("passenger count cannot be negative")
)

// FareInputs are the only things a fare depends on. Multiplier zero means
// the trip carries no surcharge and is treated as 1.0; a missing base fare
// is a hard error rather than a silently-zero total.
type FareInputs struct {
	BaseFare       float64
	Multiplier     float64
	PassengerCount int
	DiscountRate   float64
	PreviouslyPaid *float64
}

type Settlement int

const (
	SettlementNone Settlement = iota
	SettlementAdditionalPayment
	SettlementRefund
)

type Quote struct {
	BaseFare     float64 `json:"base_fare"`
	Multiplier   float64 `json:"multiplier"`
	Passengers   int     `json:"passengers"`
	DiscountRate float64 `json:"discount_rate"`
	Subtotal     float64 `json:"subtotal"`
	Total        float64 `json:"total"`

	// FareDifference is only meaningful when the quote was computed against
	// a previously paid amount (modification flows).
	FareDifference float64    `json:"fare_difference,omitempty"`
	Settlement     Settlement `json:"settlement"`
	Modification   bool       `json:"modification,omitempty"`
}

// ComputeFare derives a quote from its inputs and nothing else. Calling it
// twice with the same inputs yields the same quote regardless of any prior
// state.
func ComputeFare(in FareInputs) (Quote, error) {
	if in.BaseFare <= 0 {
		return Quote{}, ErrMissingBaseFare
	}
	if in.Multiplier < 0 {
		return Quote{}, ErrBadMultiplier
	}
	if in.DiscountRate < 0 || in.DiscountRate > 100 {
		return Quote{}, ErrBadDiscount
	}
	if in.PassengerCount < 0 {
		return Quote{}, ErrBadPassengers
	}
	multiplier := in.Multiplier
	if multiplier == 0 {
		multiplier = 1.0
	}
	subtotal := in.BaseFare * multiplier * float64(in.PassengerCount)
	total := subtotal * (1 - in.DiscountRate/100)
	q := Quote{
		BaseFare:     in.BaseFare,
		Multiplier:   multiplier,
		Passengers:   in.PassengerCount,
		DiscountRate: in.DiscountRate,
		Subtotal:     subtotal,
		Total:        total,
	}
	if in.PreviouslyPaid != nil {
		q.Modification = true
		q.FareDifference = total - *in.PreviouslyPaid
		switch {
		case q.FareDifference > 0:
			q.Settlement = SettlementAdditionalPayment
		case q.FareDifference < 0:
			q.Settlement = SettlementRefund
		default:
			q.Settlement = SettlementNone
		}
	}
	return q, nil
}

// AllowedPaymentMethods returns the payment methods legal for a quote.
// Refunds never go back through the gateway; they settle via agent credit
// or bank transfer only. A zero difference on a modification needs no
// transaction at all.
func (q Quote) AllowedPaymentMethods() []string {
	if q.Modification && q.Settlement == SettlementNone {
		return nil
	}
	if q.Settlement == SettlementRefund {
		return []string{"agent_credit", "bank_transfer"}
	}
	return []string{"gateway", "agent_credit", "bank_transfer"}
}
