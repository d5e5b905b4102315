package utils

import (
	"context"
	"errors"
	"fbs/src/booking"
	"fbs/src/common"
	"fbs/src/config"
	"fbs/src/db"
	"fbs/src/lib"
	"fbs/src/models"
	"fbs/src/types"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"
)

// DBInventorySource backs the booking engine with the live database,
// redis-mirrored seat broadcasts and the submission pipeline. One source
// serves one user's session.
type DBInventorySource struct {
	userID  uint
	agentID *uint

	mu   sync.Mutex
	subs map[uint]*redis.PubSub
}

func NewInventorySource(userID uint, agentID *uint) *DBInventorySource {
	return &DBInventorySource{
		userID:  userID,
		agentID: agentID,
		subs:    make(map[uint]*redis.PubSub),
	}
}

func (s *DBInventorySource) FetchTrips(ctx context.Context, routeID uint, date string, returnLeg bool) ([]booking.Trip, error) {
	travelDate, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	if err != nil {
		return nil, err
	}
	database := db.GetDb()
	rid := routeID
	if returnLeg {
		var outbound models.Route
		if err := database.WithContext(ctx).
			Where(&models.Route{ID: routeID}).
			First(&outbound).
			Error; err != nil {
			return nil, err
		}
		var inbound models.Route
		err := database.WithContext(ctx).
			Where(&models.Route{Origin: outbound.Destination, Destination: outbound.Origin, Active: true}).
			First(&inbound).
			Error
		if err != nil {
			return []booking.Trip{}, nil
		}
		rid = inbound.ID
	}
	var trips []models.Trip
	err = database.WithContext(ctx).
		Model(&models.Trip{}).
		Where(&models.Trip{RouteID: rid, Status: types.TRIP_SCHEDULED}).
		Where("travel_date = ?", travelDate).
		Preload("Route").
		Preload("Vessel").
		Order("departure_time asc").
		Find(&trips).
		Error
	if err != nil {
		return nil, err
	}
	out := make([]booking.Trip, 0, len(trips))
	for _, t := range trips {
		out = append(out, booking.Trip{
			ID:             t.ID,
			RouteID:        t.RouteID,
			TravelDate:     t.TravelDate,
			DepartureTime:  t.DepartureTime,
			VesselID:       t.VesselID,
			Capacity:       t.Vessel.Capacity,
			BaseFare:       float64(t.Route.BaseFare),
			FareMultiplier: float64(t.FareMultiplier),
		})
	}
	return out, nil
}

func (s *DBInventorySource) FetchAvailableSeats(ctx context.Context, tripID uint) ([]booking.Seat, error) {
	statuses, err := common.GetTripSeatStatus(tripID)
	if err != nil {
		return nil, err
	}
	out := make([]booking.Seat, 0, len(statuses))
	for _, st := range statuses {
		seat := booking.Seat{
			Code:       st.SeatCode,
			Row:        st.Row,
			Window:     st.Window,
			Aisle:      st.Aisle,
			Accessible: st.Accessible,
			Available:  st.Available,
		}
		if st.HeldByUser == s.userID && s.userID > 0 {
			seat.Available = true
			seat.HeldByMe = true
		}
		out = append(out, seat)
	}
	return out, nil
}

func (s *DBInventorySource) SubscribeSeatUpdates(ctx context.Context, tripID uint, fn booking.SeatUpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[tripID]; ok {
		return nil
	}
	rdb := lib.GetRedisClient()
	sub := rdb.Subscribe(ctx, lib.TripChannel(tripID))
	s.subs[tripID] = sub
	go func() {
		for msg := range sub.Channel() {
			body := msg.Payload
			if !gjson.Valid(body) {
				continue
			}
			seatCode := gjson.Get(body, "seat_code").String()
			available := gjson.Get(body, "available").Bool()
			heldBy := uint(gjson.Get(body, "held_by").Uint())
			if heldBy == s.userID && s.userID > 0 {
				// Our own hold echoing back; the engine already knows.
				continue
			}
			fn(tripID, seatCode, available)
		}
	}()
	return nil
}

func (s *DBInventorySource) UnsubscribeSeatUpdates(ctx context.Context, tripID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[tripID]
	if !ok {
		return nil
	}
	delete(s.subs, tripID)
	return sub.Close()
}

func (s *DBInventorySource) ToggleSeatHold(ctx context.Context, tripID uint, seatCode string, release bool) (booking.HoldResult, error) {
	if release {
		if err := common.ReleaseSeatHold(tripID, seatCode, s.userID); err != nil {
			return booking.HoldConflict, err
		}
		return booking.HoldSuccess, nil
	}
	_, err := common.AcquireSeatHold(tripID, seatCode, s.userID)
	if err != nil {
		if errors.Is(err, common.ErrSeatConflict) {
			return booking.HoldConflict, nil
		}
		return booking.HoldConflict, err
	}
	return booking.HoldSuccess, nil
}

func (s *DBInventorySource) SubmitBooking(ctx context.Context, draft *booking.Draft, paymentMethod string) (*booking.Submission, error) {
	params, err := draftToRequest(draft, paymentMethod)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := db.GetDb().WithContext(ctx).
		Select("email", "phone").
		Where(&models.User{ID: s.userID}).
		First(&user).
		Error; err == nil {
		params.ContactEmail = user.Email
		params.ContactPhone = user.Phone
	}
	bk, paymentURL, err := CreateBookingForUser(params, s.userID, s.agentID)
	if err != nil {
		return nil, err
	}
	return &booking.Submission{
		BookingID:     bk.ID,
		BookingNumber: bk.BookingNumber,
		PaymentURL:    paymentURL,
	}, nil
}

func draftToRequest(draft *booking.Draft, paymentMethod string) (*types.CreateBookingRequestBody, error) {
	departure, err := draftLeg(draft, booking.LegDeparture)
	if err != nil {
		return nil, err
	}
	params := types.CreateBookingRequestBody{
		TripType:      types.TripType(draft.TripType),
		Departure:     *departure,
		PaymentMethod: types.PaymentMethod(paymentMethod),
	}
	if draft.TripType == booking.RoundTrip {
		ret, err := draftLeg(draft, booking.LegReturn)
		if err != nil {
			return nil, err
		}
		params.Return = ret
	}
	return &params, nil
}

func draftLeg(draft *booking.Draft, leg booking.Leg) (*types.BookingLegRequest, error) {
	trip := draft.Trip(leg)
	if trip == nil {
		log.Printf("Draft has no trip for %s leg\n", leg)
		return nil, errors.New("draft is missing a trip selection")
	}
	seats := draft.SelectedSeats(leg)
	rows := draft.Passengers(leg)
	passengers := make([]types.DraftPassenger, 0, len(rows))
	for _, row := range rows {
		passengers = append(passengers, types.DraftPassenger{
			SeatCode:   row.SeatCode,
			FullName:   row.FullName,
			IDNumber:   row.IDNumber,
			Phone:      row.Phone,
			Accessible: row.Accessible,
		})
	}
	return &types.BookingLegRequest{
		TripID:     trip.ID,
		Seats:      seats,
		Passengers: passengers,
	}, nil
}
