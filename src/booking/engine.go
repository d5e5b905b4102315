package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNoTripSelected      = errors.New("no trip selected for this leg")
	ErrFetchInFlight       = errors.New("seat availability fetch in progress")
	ErrUnknownSeat         = errors.New("seat does not belong to the selected trip")
	ErrSeatUnavailable     = errors.New("seat no longer available")
	ErrPassengerCapReached = errors.New("selection would exceed passenger count")
	ErrAccessibleSeat      = errors.New("accessible seat requires an accessible-seat passenger on the original booking")
	ErrDraftIncomplete     = errors.New("draft does not pass wizard validation")
)

// EffectKind enumerates the side effects an operation asks its owning
// controller to run. The engine never talks to the backend itself; it
// returns effects and the controller applies them in order.
type EffectKind string

const (
	EffectClearSelection EffectKind = "clear_selection"
	EffectFetchSeats     EffectKind = "fetch_seats"
	EffectUnsubscribe    EffectKind = "unsubscribe"
	EffectSubscribe      EffectKind = "subscribe"
	EffectAcquireHold    EffectKind = "acquire_hold"
	EffectReleaseHold    EffectKind = "release_hold"
	EffectQuoteUpdated   EffectKind = "quote_updated"
)

type Effect struct {
	Kind     EffectKind
	Leg      Leg
	TripID   uint
	SeatCode string
	Quote    *Quote
}

// ModificationContext carries what the engine needs to know about the
// booking being modified: what was paid, which seats it already holds, and
// whether it contains an accessible-seat passenger.
type ModificationContext struct {
	PreviouslyPaid         float64
	OriginalSeats          map[Leg][]string
	HasAccessiblePassenger bool
}

func (m *ModificationContext) ownsSeat(leg Leg, code string) bool {
	if m == nil {
		return false
	}
	for _, s := range m.OriginalSeats[leg] {
		if s == code {
			return true
		}
	}
	return false
}

// Config parameterizes one engine instance: trip type, per-leg passenger
// cap, agent discount, and the optional modification context. One
// configuration serves the customer wizard and both agent flows instead of
// per-screen variants.
type Config struct {
	TripType     TripType
	PassengerCap int
	DiscountRate float64
	Modification *ModificationContext
}

// Engine keeps one draft's seat selection consistent with passenger count
// and availability, and keeps the fare quote current. All methods are
// called from a single goroutine; ordering between a trip change and
// subsequent toggles is enforced by the fetchPending latch, not a lock.
type Engine struct {
	cfg   Config
	draft *Draft
	quote Quote
}

func NewEngine(cfg Config) *Engine {
	if cfg.PassengerCap <= 0 {
		cfg.PassengerCap = 1
	}
	return &Engine{
		cfg:   cfg,
		draft: NewDraft(cfg.TripType),
	}
}

func (e *Engine) Draft() *Draft { return e.draft }

// Quote returns the last successfully computed quote.
func (e *Engine) Quote() Quote { return e.quote }

// SelectTrip replaces the trip for a leg. Stale seats from the previous
// trip must never survive a trip change, so the leg's selection is cleared
// before anything else. Returned effects re-point the availability fetch
// and the realtime subscription at the new trip.
func (e *Engine) SelectTrip(leg Leg, trip Trip) []Effect {
	l := e.draft.leg(leg)
	effects := make([]Effect, 0, 5)

	for _, code := range append([]string{}, l.selected...) {
		effects = append(effects, Effect{Kind: EffectReleaseHold, Leg: leg, TripID: e.tripID(l), SeatCode: code})
	}
	if l.trip != nil {
		effects = append(effects, Effect{Kind: EffectUnsubscribe, Leg: leg, TripID: l.trip.ID})
	}
	l.selected = nil
	l.passengers = nil
	l.seats = nil
	l.trip = &trip
	l.fetchPending = true
	effects = append(effects,
		Effect{Kind: EffectClearSelection, Leg: leg},
		Effect{Kind: EffectFetchSeats, Leg: leg, TripID: trip.ID},
		Effect{Kind: EffectSubscribe, Leg: leg, TripID: trip.ID},
	)
	e.recompute()
	effects = append(effects, Effect{Kind: EffectQuoteUpdated, Leg: leg, Quote: &e.quote})
	return effects
}

func (e *Engine) tripID(l *legState) uint {
	if l.trip == nil {
		return 0
	}
	return l.trip.ID
}

// SeatsLoaded applies a fresh availability snapshot for the leg's current
// trip and releases the toggle latch. Selected seats that disappeared or
// went unavailable while the fetch was in flight are pruned, except seats
// the booking under modification already owns.
func (e *Engine) SeatsLoaded(leg Leg, seats []Seat) {
	l := e.draft.leg(leg)
	held := make(map[string]bool, len(l.selected))
	for _, s := range l.seats {
		if s.HeldByMe {
			held[s.Code] = true
		}
	}
	l.seats = make([]Seat, len(seats))
	copy(l.seats, seats)
	l.fetchPending = false

	for _, code := range append([]string{}, l.selected...) {
		seat := l.seat(code)
		if seat == nil {
			l.deselect(code)
			continue
		}
		// A snapshot reports our own held seat as unavailable; that must
		// not evict the selection.
		if held[code] {
			seat.HeldByMe = true
			seat.Selected = true
			continue
		}
		if !seat.Available && !e.cfg.Modification.ownsSeat(leg, code) {
			l.deselect(code)
			continue
		}
		seat.Selected = true
	}
	e.recompute()
}

// ToggleSeat selects or deselects one seat on the leg's current trip.
// A successful select emits an AcquireHold effect; the selection stays
// provisional until HoldConfirmed or HoldRejected arrives.
func (e *Engine) ToggleSeat(leg Leg, code string) ([]Effect, error) {
	l := e.draft.leg(leg)
	if l.trip == nil {
		return nil, ErrNoTripSelected
	}
	if l.fetchPending {
		return nil, ErrFetchInFlight
	}
	seat := l.seat(code)
	if seat == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSeat, code)
	}

	if l.isSelected(code) {
		l.deselect(code)
		e.recompute()
		return []Effect{
			{Kind: EffectReleaseHold, Leg: leg, TripID: l.trip.ID, SeatCode: code},
			{Kind: EffectQuoteUpdated, Leg: leg, Quote: &e.quote},
		}, nil
	}

	if len(l.selected) >= e.cfg.PassengerCap {
		return nil, ErrPassengerCapReached
	}
	if !seat.Available && !e.cfg.Modification.ownsSeat(leg, code) {
		return nil, fmt.Errorf("%w: %s", ErrSeatUnavailable, code)
	}
	if seat.Accessible && e.cfg.Modification != nil && !e.cfg.Modification.HasAccessiblePassenger {
		return nil, ErrAccessibleSeat
	}

	l.selected = append(l.selected, code)
	l.passengers = append(l.passengers, PassengerRow{SeatCode: code, Accessible: seat.Accessible})
	seat.Selected = true
	e.recompute()
	return []Effect{
		{Kind: EffectAcquireHold, Leg: leg, TripID: l.trip.ID, SeatCode: code},
		{Kind: EffectQuoteUpdated, Leg: leg, Quote: &e.quote},
	}, nil
}

// HoldConfirmed marks a provisional selection as held by the current user.
func (e *Engine) HoldConfirmed(leg Leg, code string) {
	l := e.draft.leg(leg)
	if seat := l.seat(code); seat != nil && l.isSelected(code) {
		seat.HeldByMe = true
	}
}

// HoldRejected handles a seat taken by another user between fetch and
// toggle: the selection is rolled back and a silent re-fetch is requested.
// The toggle itself is not retried; the user must re-select.
func (e *Engine) HoldRejected(leg Leg, code string) []Effect {
	l := e.draft.leg(leg)
	if seat := l.seat(code); seat != nil {
		seat.Available = false
	}
	l.deselect(code)
	e.recompute()
	l.fetchPending = true
	return []Effect{
		{Kind: EffectFetchSeats, Leg: leg, TripID: e.tripID(l)},
		{Kind: EffectQuoteUpdated, Leg: leg, Quote: &e.quote},
	}
}

// ApplySeatUpdate applies one incremental seat-state change from the
// realtime channel. If the change knocks out a provisional selection the
// seat is deselected and the quote refreshed; the caller learns about it
// from the returned flag.
func (e *Engine) ApplySeatUpdate(leg Leg, code string, available bool) (lostSelection bool) {
	l := e.draft.leg(leg)
	seat := l.seat(code)
	if seat == nil {
		return false
	}
	if available {
		if !l.isSelected(code) {
			seat.Available = true
		}
		return false
	}
	if l.isSelected(code) && !seat.HeldByMe && !e.cfg.Modification.ownsSeat(leg, code) {
		l.deselect(code)
		seat.Available = false
		e.recompute()
		return true
	}
	if !l.isSelected(code) {
		seat.Available = false
	}
	return false
}

// recompute derives the quote fresh from the current trips and selection.
// It never patches the previous quote incrementally. An incomplete draft
// (no trip, no seats yet) keeps the prior quote rather than inventing
// numbers from missing pricing inputs.
func (e *Engine) recompute() {
	dep := e.draft.leg(LegDeparture)
	if dep.trip == nil {
		return
	}
	total := 0.0
	subtotal := 0.0
	passengers := len(dep.selected)

	q, err := ComputeFare(FareInputs{
		BaseFare:       dep.trip.BaseFare,
		Multiplier:     dep.trip.FareMultiplier,
		PassengerCount: passengers,
		DiscountRate:   e.cfg.DiscountRate,
	})
	if err != nil {
		return
	}
	total += q.Total
	subtotal += q.Subtotal

	if e.cfg.TripType == RoundTrip {
		ret := e.draft.leg(LegReturn)
		if ret.trip != nil {
			rq, err := ComputeFare(FareInputs{
				BaseFare:       ret.trip.BaseFare,
				Multiplier:     ret.trip.FareMultiplier,
				PassengerCount: len(ret.selected),
				DiscountRate:   e.cfg.DiscountRate,
			})
			if err != nil {
				return
			}
			total += rq.Total
			subtotal += rq.Subtotal
		}
	}

	e.quote = Quote{
		BaseFare:     dep.trip.BaseFare,
		Multiplier:   q.Multiplier,
		Passengers:   passengers,
		DiscountRate: e.cfg.DiscountRate,
		Subtotal:     subtotal,
		Total:        total,
	}
	if m := e.cfg.Modification; m != nil {
		e.quote.Modification = true
		e.quote.FareDifference = total - m.PreviouslyPaid
		switch {
		case e.quote.FareDifference > 0:
			e.quote.Settlement = SettlementAdditionalPayment
		case e.quote.FareDifference < 0:
			e.quote.Settlement = SettlementRefund
		default:
			e.quote.Settlement = SettlementNone
		}
	}
}
