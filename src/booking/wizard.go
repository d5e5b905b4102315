package booking

import "fmt"

// Step indices for the booking wizard. The flow is linear; the only cycle
// is an explicit Back.
type Step int

const (
	StepTripType Step = iota + 1
	StepTrip
	StepSeats
	StepPassengers
	StepPayment
)

type Flow string

const (
	// FlowCustomer walks all five steps.
	FlowCustomer Flow = "customer"
	// FlowAgentModification collapses to trip (only when a date/trip
	// change is pending), seats, payment.
	FlowAgentModification Flow = "agent_modification"
)

// StepErrors maps field names to human-readable problems. A non-empty map
// blocks advancement past the step.
type StepErrors map[string]string

func (e StepErrors) OK() bool { return len(e) == 0 }

// Wizard guards step advancement for one engine/draft pair.
type Wizard struct {
	engine *Engine
	flow   Flow

	// tripChangePending controls whether the agent-modification flow
	// includes the trip step at all.
	tripChangePending bool
}

func NewWizard(engine *Engine, flow Flow) *Wizard {
	return &Wizard{engine: engine, flow: flow}
}

func (w *Wizard) SetTripChangePending(pending bool) { w.tripChangePending = pending }

// Steps returns the flow's step sequence in order.
func (w *Wizard) Steps() []Step {
	if w.flow == FlowAgentModification {
		if w.tripChangePending {
			return []Step{StepTrip, StepSeats, StepPayment}
		}
		return []Step{StepSeats, StepPayment}
	}
	return []Step{StepTripType, StepTrip, StepSeats, StepPassengers, StepPayment}
}

// ValidateStep evaluates one step's predicate over the draft. Failing
// fields populate the returned map; advancement is legal only when it is
// empty.
func (w *Wizard) ValidateStep(step Step) StepErrors {
	d := w.engine.Draft()
	errs := StepErrors{}
	switch step {
	case StepTripType:
		if d.TripType != OneWay && d.TripType != RoundTrip {
			errs["trip_type"] = "select one-way or round trip"
		}
		if d.TravelDate.IsZero() {
			errs["travel_date"] = "travel date is required"
		}
		if d.TripType == RoundTrip {
			if d.ReturnDate.IsZero() {
				errs["return_date"] = "return date is required"
			} else if !d.TravelDate.IsZero() && d.ReturnDate.Before(d.TravelDate) {
				errs["return_date"] = "return date must not be before the travel date"
			}
		}
	case StepTrip:
		if d.Trip(LegDeparture) == nil {
			errs["departure_trip"] = "select a departure trip"
		}
		if d.TripType == RoundTrip && d.Trip(LegReturn) == nil {
			errs["return_trip"] = "select a return trip"
		}
	case StepSeats:
		dep := len(d.SelectedSeats(LegDeparture))
		if dep == 0 {
			errs["seats"] = "select at least one seat"
		}
		if dep > w.engine.cfg.PassengerCap {
			errs["seats"] = fmt.Sprintf("at most %d seats may be selected", w.engine.cfg.PassengerCap)
		}
		if d.TripType == RoundTrip {
			ret := len(d.SelectedSeats(LegReturn))
			if ret == 0 {
				errs["return_seats"] = "select return seats"
			}
			if dep != 0 && ret != 0 && dep != ret {
				errs["return_seats"] = "departure and return seat counts must match"
			}
		}
	case StepPassengers:
		w.validatePassengers(d, LegDeparture, errs)
		if d.TripType == RoundTrip {
			w.validatePassengers(d, LegReturn, errs)
		}
	case StepPayment:
		quote := w.engine.Quote()
		allowed := quote.AllowedPaymentMethods()
		if len(allowed) == 0 {
			// Zero-difference modification: no transaction required, so
			// no payment method to pick.
			break
		}
		if d.PaymentMethod == "" {
			errs["payment_method"] = "select a payment method"
			break
		}
		legal := false
		for _, m := range allowed {
			if m == d.PaymentMethod {
				legal = true
				break
			}
		}
		if !legal {
			errs["payment_method"] = fmt.Sprintf("payment method %q is not available for this booking", d.PaymentMethod)
		}
	default:
		errs["step"] = fmt.Sprintf("unknown step %d", step)
	}

	if w.flow == FlowAgentModification && step == StepPayment && d.Reason == "" {
		errs["reason"] = "a modification reason is required"
	}
	return errs
}

func (w *Wizard) validatePassengers(d *Draft, leg Leg, errs StepErrors) {
	seats := d.SelectedSeats(leg)
	rows := d.Passengers(leg)
	if len(rows) != len(seats) {
		errs[string(leg)+"_passengers"] = "one passenger is required per selected seat"
		return
	}
	for i, row := range rows {
		if row.FullName == "" {
			errs[fmt.Sprintf("%s_passenger_%d_name", leg, i)] = "passenger name is required"
		}
	}
}

// CanAdvance reports whether every step up to and including the given one
// passes. Submission requires CanAdvance on the final step.
func (w *Wizard) CanAdvance(step Step) bool {
	for _, s := range w.Steps() {
		if !w.ValidateStep(s).OK() {
			return false
		}
		if s == step {
			break
		}
	}
	return true
}
