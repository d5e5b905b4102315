package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	seats       map[uint][]Seat
	holdResult  HoldResult
	subscribed  map[uint]SeatUpdateFunc
	unsubCalled []uint
	submitErr   error
	submitted   int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		seats:      map[uint][]Seat{},
		holdResult: HoldSuccess,
		subscribed: map[uint]SeatUpdateFunc{},
	}
}

func (f *fakeSource) FetchTrips(ctx context.Context, routeID uint, date string, returnLeg bool) ([]Trip, error) {
	return nil, nil
}

func (f *fakeSource) FetchAvailableSeats(ctx context.Context, tripID uint) ([]Seat, error) {
	return f.seats[tripID], nil
}

func (f *fakeSource) SubscribeSeatUpdates(ctx context.Context, tripID uint, fn SeatUpdateFunc) error {
	f.subscribed[tripID] = fn
	return nil
}

func (f *fakeSource) UnsubscribeSeatUpdates(ctx context.Context, tripID uint) error {
	f.unsubCalled = append(f.unsubCalled, tripID)
	delete(f.subscribed, tripID)
	return nil
}

func (f *fakeSource) ToggleSeatHold(ctx context.Context, tripID uint, seatCode string, release bool) (HoldResult, error) {
	if release {
		return HoldSuccess, nil
	}
	return f.holdResult, nil
}

func (f *fakeSource) SubmitBooking(ctx context.Context, draft *Draft, paymentMethod string) (*Submission, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submitted++
	return &Submission{BookingID: 7, BookingNumber: "FB-000007"}, nil
}

func TestControllerSelectTripLoadsSeatsAndSubscribes(t *testing.T) {
	src := newFakeSource()
	src.seats[1] = testSeats("A1", "A2")
	c := NewController(NewEngine(Config{TripType: OneWay, PassengerCap: 2}), src, 0)
	defer c.Close(context.Background())

	err := c.SelectTrip(context.Background(), LegDeparture, testTrip(1, 100))
	assert.NoError(t, err)
	assert.Len(t, c.Engine().Draft().Seats(LegDeparture), 2)
	assert.Contains(t, src.subscribed, uint(1))
}

func TestControllerTripChangeResubscribes(t *testing.T) {
	src := newFakeSource()
	src.seats[1] = testSeats("A1")
	src.seats[2] = testSeats("B1")
	c := NewController(NewEngine(Config{TripType: OneWay, PassengerCap: 1}), src, 0)
	defer c.Close(context.Background())

	c.SelectTrip(context.Background(), LegDeparture, testTrip(1, 100))
	c.SelectTrip(context.Background(), LegDeparture, testTrip(2, 100))

	assert.Contains(t, src.unsubCalled, uint(1))
	assert.Contains(t, src.subscribed, uint(2))
	assert.NotContains(t, src.subscribed, uint(1))
}

func TestControllerToggleConfirmsHold(t *testing.T) {
	src := newFakeSource()
	src.seats[1] = testSeats("A1", "A2")
	c := NewController(NewEngine(Config{TripType: OneWay, PassengerCap: 2}), src, 0)
	defer c.Close(context.Background())
	c.SelectTrip(context.Background(), LegDeparture, testTrip(1, 100))

	q, err := c.ToggleSeat(context.Background(), LegDeparture, "A1")
	assert.NoError(t, err)
	assert.Equal(t, 100.0, q.Total)

	seats := c.Engine().Draft().Seats(LegDeparture)
	assert.True(t, seats[0].HeldByMe)
}

func TestControllerHoldConflictRollsBack(t *testing.T) {
	src := newFakeSource()
	src.seats[1] = testSeats("A1", "A2")
	c := NewController(NewEngine(Config{TripType: OneWay, PassengerCap: 2}), src, 0)
	defer c.Close(context.Background())
	c.SelectTrip(context.Background(), LegDeparture, testTrip(1, 100))

	src.holdResult = HoldConflict
	_, err := c.ToggleSeat(context.Background(), LegDeparture, "A1")
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	assert.Empty(t, c.Engine().Draft().SelectedSeats(LegDeparture))
}

func TestControllerSubmitKeepsDraftOnFailure(t *testing.T) {
	src := newFakeSource()
	src.seats[1] = testSeats("A1")
	engine := NewEngine(Config{TripType: OneWay, PassengerCap: 1})
	c := NewController(engine, src, 0)
	defer c.Close(context.Background())
	c.SelectTrip(context.Background(), LegDeparture, testTrip(1, 100))
	c.ToggleSeat(context.Background(), LegDeparture, "A1")
	engine.Draft().TripType = OneWay
	engine.Draft().TravelDate = testTrip(1, 100).TravelDate
	engine.Draft().SetPassenger(LegDeparture, PassengerRow{SeatCode: "A1", FullName: "Ibrahim Waheed"})
	w := NewWizard(engine, FlowCustomer)

	src.submitErr = assert.AnError
	_, err := c.Submit(context.Background(), w, "gateway")
	assert.Error(t, err)
	// Draft survives for retry.
	assert.Equal(t, []string{"A1"}, engine.Draft().SelectedSeats(LegDeparture))

	src.submitErr = nil
	sub, err := c.Submit(context.Background(), w, "gateway")
	assert.NoError(t, err)
	assert.Equal(t, "FB-000007", sub.BookingNumber)
}

func TestControllerPushUpdateReachesEngine(t *testing.T) {
	src := newFakeSource()
	src.seats[1] = testSeats("A1", "A2")
	c := NewController(NewEngine(Config{TripType: OneWay, PassengerCap: 2}), src, 0)
	defer c.Close(context.Background())
	c.SelectTrip(context.Background(), LegDeparture, testTrip(1, 100))

	src.subscribed[1](1, "A2", false)
	seats := c.Engine().Draft().Seats(LegDeparture)
	assert.False(t, seats[1].Available)
}
