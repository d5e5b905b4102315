package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testTrip(id uint, baseFare float64) Trip {
	return Trip{
		ID:         id,
		RouteID:    1,
		TravelDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		BaseFare:   baseFare,
		Capacity:   40,
	}
}

func testSeats(codes ...string) []Seat {
	seats := make([]Seat, 0, len(codes))
	for i, c := range codes {
		seats = append(seats, Seat{Code: c, Row: uint(i/4 + 1), Available: true})
	}
	return seats
}

func newTestEngine(cap int) *Engine {
	e := NewEngine(Config{TripType: OneWay, PassengerCap: cap})
	e.SelectTrip(LegDeparture, testTrip(1, 100))
	e.SeatsLoaded(LegDeparture, testSeats("A1", "A2", "A3", "A4"))
	return e
}

func TestSelectTripClearsSelection(t *testing.T) {
	e := newTestEngine(2)
	_, err := e.ToggleSeat(LegDeparture, "A1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"A1"}, e.Draft().SelectedSeats(LegDeparture))

	effects := e.SelectTrip(LegDeparture, testTrip(2, 120))
	assert.Empty(t, e.Draft().SelectedSeats(LegDeparture))
	assert.Empty(t, e.Draft().Passengers(LegDeparture))

	kinds := map[EffectKind]bool{}
	for _, eff := range effects {
		kinds[eff.Kind] = true
	}
	assert.True(t, kinds[EffectReleaseHold])
	assert.True(t, kinds[EffectUnsubscribe])
	assert.True(t, kinds[EffectSubscribe])
	assert.True(t, kinds[EffectFetchSeats])
}

func TestToggleBlockedWhileFetchInFlight(t *testing.T) {
	e := NewEngine(Config{TripType: OneWay, PassengerCap: 2})
	e.SelectTrip(LegDeparture, testTrip(1, 100))
	// No SeatsLoaded yet: the trip change has not settled.
	_, err := e.ToggleSeat(LegDeparture, "A1")
	assert.ErrorIs(t, err, ErrFetchInFlight)
}

func TestToggleSeatCapIsNeverExceeded(t *testing.T) {
	e := newTestEngine(2)
	_, err := e.ToggleSeat(LegDeparture, "A1")
	assert.NoError(t, err)
	_, err = e.ToggleSeat(LegDeparture, "A2")
	assert.NoError(t, err)
	_, err = e.ToggleSeat(LegDeparture, "A3")
	assert.ErrorIs(t, err, ErrPassengerCapReached)
	assert.Equal(t, []string{"A1", "A2"}, e.Draft().SelectedSeats(LegDeparture))
}

func TestToggleDeselectAppendsOnReselect(t *testing.T) {
	e := newTestEngine(3)
	e.ToggleSeat(LegDeparture, "A1")
	e.ToggleSeat(LegDeparture, "A2")
	e.ToggleSeat(LegDeparture, "A3")

	// Deselect the first seat, passenger rows shrink with it.
	_, err := e.ToggleSeat(LegDeparture, "A1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"A2", "A3"}, e.Draft().SelectedSeats(LegDeparture))
	assert.Len(t, e.Draft().Passengers(LegDeparture), 2)

	// Re-selecting appends at the end rather than restoring its old slot.
	_, err = e.ToggleSeat(LegDeparture, "A1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"A2", "A3", "A1"}, e.Draft().SelectedSeats(LegDeparture))
}

func TestToggleUnavailableSeatRejected(t *testing.T) {
	e := NewEngine(Config{TripType: OneWay, PassengerCap: 2})
	e.SelectTrip(LegDeparture, testTrip(1, 100))
	seats := testSeats("A1", "A2")
	seats[1].Available = false
	e.SeatsLoaded(LegDeparture, seats)

	_, err := e.ToggleSeat(LegDeparture, "A2")
	assert.ErrorIs(t, err, ErrSeatUnavailable)
}

func TestModificationMayReuseOwnSeats(t *testing.T) {
	e := NewEngine(Config{
		TripType:     OneWay,
		PassengerCap: 1,
		Modification: &ModificationContext{
			PreviouslyPaid: 100,
			OriginalSeats:  map[Leg][]string{LegDeparture: {"A2"}},
		},
	})
	e.SelectTrip(LegDeparture, testTrip(1, 100))
	seats := testSeats("A1", "A2")
	seats[1].Available = false // held by this very booking
	e.SeatsLoaded(LegDeparture, seats)

	_, err := e.ToggleSeat(LegDeparture, "A2")
	assert.NoError(t, err)
}

func TestAccessibleSeatGatedOnModification(t *testing.T) {
	mk := func(hasAccessible bool) *Engine {
		e := NewEngine(Config{
			TripType:     OneWay,
			PassengerCap: 2,
			Modification: &ModificationContext{HasAccessiblePassenger: hasAccessible},
		})
		e.SelectTrip(LegDeparture, testTrip(1, 100))
		seats := testSeats("A1", "D1")
		seats[1].Accessible = true
		e.SeatsLoaded(LegDeparture, seats)
		return e
	}

	_, err := mk(false).ToggleSeat(LegDeparture, "D1")
	assert.ErrorIs(t, err, ErrAccessibleSeat)

	_, err = mk(true).ToggleSeat(LegDeparture, "D1")
	assert.NoError(t, err)
}

func TestQuoteRecomputedAfterEveryToggle(t *testing.T) {
	e := NewEngine(Config{TripType: OneWay, PassengerCap: 3, DiscountRate: 10})
	e.SelectTrip(LegDeparture, testTrip(1, 100))
	e.SeatsLoaded(LegDeparture, testSeats("A1", "A2", "A3"))

	e.ToggleSeat(LegDeparture, "A1")
	assert.Equal(t, 90.0, e.Quote().Total)
	e.ToggleSeat(LegDeparture, "A2")
	assert.Equal(t, 180.0, e.Quote().Total)
	e.ToggleSeat(LegDeparture, "A2")
	assert.Equal(t, 90.0, e.Quote().Total)
}

func TestModificationQuoteCarriesDifference(t *testing.T) {
	e := NewEngine(Config{
		TripType:     OneWay,
		PassengerCap: 2,
		DiscountRate: 10,
		Modification: &ModificationContext{PreviouslyPaid: 150},
	})
	e.SelectTrip(LegDeparture, testTrip(1, 100))
	e.SeatsLoaded(LegDeparture, testSeats("A1", "A2"))
	e.ToggleSeat(LegDeparture, "A1")
	e.ToggleSeat(LegDeparture, "A2")

	q := e.Quote()
	assert.Equal(t, 180.0, q.Total)
	assert.InDelta(t, 30.0, q.FareDifference, 1e-9)
	assert.Equal(t, SettlementAdditionalPayment, q.Settlement)
}

func TestHoldRejectedRollsBackAndRequestsRefresh(t *testing.T) {
	e := newTestEngine(2)
	e.ToggleSeat(LegDeparture, "A1")

	effects := e.HoldRejected(LegDeparture, "A1")
	assert.Empty(t, e.Draft().SelectedSeats(LegDeparture))

	var refetch bool
	for _, eff := range effects {
		if eff.Kind == EffectFetchSeats {
			refetch = true
		}
	}
	assert.True(t, refetch)

	// The seat is now locally unavailable until the refresh says otherwise.
	_, err := e.ToggleSeat(LegDeparture, "A1")
	assert.ErrorIs(t, err, ErrFetchInFlight)
}

func TestSeatUpdateEvictsProvisionalSelection(t *testing.T) {
	e := newTestEngine(2)
	e.ToggleSeat(LegDeparture, "A1")

	// Not yet confirmed: a push event saying the seat is gone wins.
	lost := e.ApplySeatUpdate(LegDeparture, "A1", false)
	assert.True(t, lost)
	assert.Empty(t, e.Draft().SelectedSeats(LegDeparture))
}

func TestSeatUpdateKeepsConfirmedHold(t *testing.T) {
	e := newTestEngine(2)
	e.ToggleSeat(LegDeparture, "A1")
	e.HoldConfirmed(LegDeparture, "A1")

	// Our own hold being broadcast as taken must not evict the selection.
	lost := e.ApplySeatUpdate(LegDeparture, "A1", false)
	assert.False(t, lost)
	assert.Equal(t, []string{"A1"}, e.Draft().SelectedSeats(LegDeparture))
}

func TestSnapshotKeepsHeldSeats(t *testing.T) {
	e := newTestEngine(2)
	e.ToggleSeat(LegDeparture, "A1")
	e.HoldConfirmed(LegDeparture, "A1")

	// The backstop poll reports our held seat as unavailable.
	seats := testSeats("A1", "A2", "A3", "A4")
	seats[0].Available = false
	e.SeatsLoaded(LegDeparture, seats)
	assert.Equal(t, []string{"A1"}, e.Draft().SelectedSeats(LegDeparture))
}
