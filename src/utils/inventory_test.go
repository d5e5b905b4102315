package utils

import (
	"context"
	"fbs/src/booking"
	"fbs/src/db"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestFetchTripsProjectsRouteAndVessel(t *testing.T) {
	gdb, mock := newMockDB()
	db.NewDB(gdb)
	src := NewInventorySource(9, nil)

	travelDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM "trips"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "vessel_id", "travel_date", "departure_time", "fare_multiplier", "status"}).
			AddRow(3, 1, 2, travelDate, "08:00", 1.25, "scheduled"))
	mock.ExpectQuery(`SELECT (.+) FROM "routes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "origin", "destination", "base_fare", "active"}).
			AddRow(1, "North Ferry", "male", "kulhudhuffushi", 100.0, true))
	mock.ExpectQuery(`SELECT (.+) FROM "vessels"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "active"}).
			AddRow(2, "MV Dhoni", 40, true))

	trips, err := src.FetchTrips(context.Background(), 1, "2026-09-01", false)

	assert.Nil(t, err)
	assert.Len(t, trips, 1)
	assert.Equal(t, uint(3), trips[0].ID)
	assert.Equal(t, 100.0, trips[0].BaseFare)
	assert.Equal(t, uint(40), trips[0].Capacity)
	assert.InDelta(t, 1.25, trips[0].FareMultiplier, 1e-9)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestFetchTripsReturnLegWithoutInboundRoute(t *testing.T) {
	gdb, mock := newMockDB()
	db.NewDB(gdb)
	src := NewInventorySource(9, nil)

	mock.ExpectQuery(`SELECT (.+) FROM "routes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "origin", "destination", "active"}).
			AddRow(1, "male", "kulhudhuffushi", true))
	mock.ExpectQuery(`SELECT (.+) FROM "routes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "origin", "destination", "active"}))

	trips, err := src.FetchTrips(context.Background(), 1, "2026-09-01", true)

	assert.Nil(t, err)
	assert.Empty(t, trips)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestFetchAvailableSeatsMarksOwnHold(t *testing.T) {
	gdb, mock := newMockDB()
	db.NewDB(gdb)
	src := NewInventorySource(9, nil)

	validUntil := time.Now().Add(10 * time.Minute)
	mock.ExpectQuery(`SELECT (.+) FROM "trips"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "vessel_id", "status"}).
			AddRow(1, 1, 2, "scheduled"))
	mock.ExpectQuery(`SELECT (.+) FROM "vessels"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "capacity"}).
			AddRow(2, 2))
	mock.ExpectQuery(`SELECT (.+) FROM "vessel_seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vessel_id", "number", "row", "window", "aisle", "accessible"}).
			AddRow(1, 2, "A1", 1, true, false, false).
			AddRow(2, 2, "A2", 1, false, true, false))
	mock.ExpectQuery(`SELECT (.+) FROM "passengers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_leg_id", "seat_code"}))
	mock.ExpectQuery(`SELECT (.+) FROM "seat_holds"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "seat_code", "user_id", "status", "valid_until"}).
			AddRow(7, 1, "A2", 9, "pending", validUntil))

	seats, err := src.FetchAvailableSeats(context.Background(), 1)

	assert.Nil(t, err)
	assert.Len(t, seats, 2)
	assert.True(t, seats[0].Available)
	assert.False(t, seats[0].HeldByMe)
	assert.True(t, seats[1].Available)
	assert.True(t, seats[1].HeldByMe)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestDraftToRequestBuildsSubmission(t *testing.T) {
	engine := booking.NewEngine(booking.Config{TripType: booking.OneWay, PassengerCap: 2})
	engine.SelectTrip(booking.LegDeparture, booking.Trip{ID: 3, BaseFare: 100, FareMultiplier: 1})
	engine.SeatsLoaded(booking.LegDeparture, []booking.Seat{
		{Code: "A1", Available: true},
		{Code: "A2", Available: true},
	})
	_, err := engine.ToggleSeat(booking.LegDeparture, "A1")
	assert.Nil(t, err)

	draft := engine.Draft()
	draft.SetPassenger(booking.LegDeparture, booking.PassengerRow{SeatCode: "A1", FullName: "Aishath Naeem"})

	params, err := draftToRequest(draft, "gateway")

	assert.Nil(t, err)
	assert.Equal(t, uint(3), params.Departure.TripID)
	assert.Equal(t, []string{"A1"}, params.Departure.Seats)
	assert.Equal(t, "Aishath Naeem", params.Departure.Passengers[0].FullName)
	assert.Nil(t, params.Return)
}

func TestDraftToRequestNeedsATrip(t *testing.T) {
	draft := booking.NewDraft(booking.OneWay)

	_, err := draftToRequest(draft, "gateway")

	assert.NotNil(t, err)
}
