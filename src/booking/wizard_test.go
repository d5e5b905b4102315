package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func roundTripEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(Config{TripType: RoundTrip, PassengerCap: 2})
	e.SelectTrip(LegDeparture, testTrip(1, 100))
	e.SeatsLoaded(LegDeparture, testSeats("A1", "A2"))
	e.SelectTrip(LegReturn, testTrip(2, 100))
	e.SeatsLoaded(LegReturn, testSeats("B1", "B2"))
	e.Draft().TravelDate = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	e.Draft().ReturnDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	return e
}

func TestValidateTripTypeStep(t *testing.T) {
	e := NewEngine(Config{TripType: RoundTrip, PassengerCap: 1})
	w := NewWizard(e, FlowCustomer)

	errs := w.ValidateStep(StepTripType)
	assert.Contains(t, errs, "travel_date")
	assert.Contains(t, errs, "return_date")

	e.Draft().TravelDate = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	e.Draft().ReturnDate = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	errs = w.ValidateStep(StepTripType)
	assert.Equal(t, "return date must not be before the travel date", errs["return_date"])

	e.Draft().ReturnDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	assert.True(t, w.ValidateStep(StepTripType).OK())
}

func TestValidateSeatCountMismatch(t *testing.T) {
	e := roundTripEngine(t)
	w := NewWizard(e, FlowCustomer)

	e.ToggleSeat(LegDeparture, "A1")
	e.ToggleSeat(LegDeparture, "A2")
	e.ToggleSeat(LegReturn, "B1")

	errs := w.ValidateStep(StepSeats)
	assert.Equal(t, "departure and return seat counts must match", errs["return_seats"])

	e.ToggleSeat(LegReturn, "B2")
	assert.True(t, w.ValidateStep(StepSeats).OK())
}

func TestValidatePassengersRequireNames(t *testing.T) {
	e := NewEngine(Config{TripType: OneWay, PassengerCap: 2})
	e.SelectTrip(LegDeparture, testTrip(1, 100))
	e.SeatsLoaded(LegDeparture, testSeats("A1", "A2"))
	e.ToggleSeat(LegDeparture, "A1")
	w := NewWizard(e, FlowCustomer)

	errs := w.ValidateStep(StepPassengers)
	assert.False(t, errs.OK())

	ok := e.Draft().SetPassenger(LegDeparture, PassengerRow{SeatCode: "A1", FullName: "Aminath Shifa"})
	assert.True(t, ok)
	assert.True(t, w.ValidateStep(StepPassengers).OK())
}

func TestValidatePaymentMethodLegality(t *testing.T) {
	e := NewEngine(Config{
		TripType:     OneWay,
		PassengerCap: 1,
		Modification: &ModificationContext{PreviouslyPaid: 500},
	})
	e.SelectTrip(LegDeparture, testTrip(1, 100))
	e.SeatsLoaded(LegDeparture, testSeats("A1"))
	e.ToggleSeat(LegDeparture, "A1")
	w := NewWizard(e, FlowAgentModification)
	e.Draft().Reason = "passenger requested earlier sailing"

	// Refund owed: the gateway is not a legal settlement path.
	e.Draft().PaymentMethod = "gateway"
	errs := w.ValidateStep(StepPayment)
	assert.Contains(t, errs, "payment_method")

	e.Draft().PaymentMethod = "agent_credit"
	assert.True(t, w.ValidateStep(StepPayment).OK())
}

func TestModificationRequiresReason(t *testing.T) {
	e := NewEngine(Config{
		TripType:     OneWay,
		PassengerCap: 1,
		Modification: &ModificationContext{PreviouslyPaid: 50},
	})
	e.SelectTrip(LegDeparture, testTrip(1, 100))
	e.SeatsLoaded(LegDeparture, testSeats("A1"))
	e.ToggleSeat(LegDeparture, "A1")
	w := NewWizard(e, FlowAgentModification)
	e.Draft().PaymentMethod = "bank_transfer"

	errs := w.ValidateStep(StepPayment)
	assert.Contains(t, errs, "reason")

	e.Draft().Reason = "date change"
	assert.True(t, w.ValidateStep(StepPayment).OK())
}

func TestAgentFlowCollapsesSteps(t *testing.T) {
	e := NewEngine(Config{TripType: OneWay, PassengerCap: 1})
	w := NewWizard(e, FlowAgentModification)

	assert.Equal(t, []Step{StepSeats, StepPayment}, w.Steps())
	w.SetTripChangePending(true)
	assert.Equal(t, []Step{StepTrip, StepSeats, StepPayment}, w.Steps())

	cw := NewWizard(e, FlowCustomer)
	assert.Len(t, cw.Steps(), 5)
}

func TestCanAdvanceWalksPriorSteps(t *testing.T) {
	e := roundTripEngine(t)
	w := NewWizard(e, FlowCustomer)

	// Seats not selected yet: payment cannot be reached.
	assert.False(t, w.CanAdvance(StepPayment))

	e.ToggleSeat(LegDeparture, "A1")
	e.ToggleSeat(LegReturn, "B1")
	e.Draft().SetPassenger(LegDeparture, PassengerRow{SeatCode: "A1", FullName: "Hassan Rasheed"})
	e.Draft().SetPassenger(LegReturn, PassengerRow{SeatCode: "B1", FullName: "Hassan Rasheed"})
	e.Draft().PaymentMethod = "gateway"
	assert.True(t, w.CanAdvance(StepPayment))
}
