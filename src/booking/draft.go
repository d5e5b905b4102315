package booking

import "time"

type Leg string

const (
	LegDeparture Leg = "departure"
	LegReturn    Leg = "return"
)

type TripType string

const (
	OneWay    TripType = "one_way"
	RoundTrip TripType = "round_trip"
)

// Seat is the engine's read-mostly projection of one seat on the selected
// trip, plus the transient flags the engine owns.
type Seat struct {
	Code       string `json:"code"`
	Row        uint   `json:"row,omitempty"`
	Window     bool   `json:"window,omitempty"`
	Aisle      bool   `json:"aisle,omitempty"`
	Accessible bool   `json:"accessible,omitempty"`
	Available  bool   `json:"available"`
	Selected   bool   `json:"selected,omitempty"`
	HeldByMe   bool   `json:"held_by_me,omitempty"`
}

// Trip is the leg-level trip projection. Immutable once fetched; selecting
// a different trip discards everything that depended on the old one.
type Trip struct {
	ID             uint      `json:"id"`
	RouteID        uint      `json:"route_id"`
	TravelDate     time.Time `json:"travel_date"`
	DepartureTime  string    `json:"departure_time"`
	VesselID       uint      `json:"vessel_id"`
	Capacity       uint      `json:"capacity"`
	BaseFare       float64   `json:"base_fare"`
	FareMultiplier float64   `json:"fare_multiplier"`
}

// PassengerRow mirrors one selected seat. Rows grow and shrink with the
// selection; order is append order, not seat order.
type PassengerRow struct {
	SeatCode   string `json:"seat_code"`
	FullName   string `json:"full_name"`
	IDNumber   string `json:"id_number,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Accessible bool   `json:"accessible,omitempty"`
}

type legState struct {
	trip         *Trip
	seats        []Seat
	selected     []string
	passengers   []PassengerRow
	fetchPending bool
}

func (l *legState) seat(code string) *Seat {
	for i := range l.seats {
		if l.seats[i].Code == code {
			return &l.seats[i]
		}
	}
	return nil
}

func (l *legState) isSelected(code string) bool {
	for _, s := range l.selected {
		if s == code {
			return true
		}
	}
	return false
}

func (l *legState) deselect(code string) {
	next := l.selected[:0]
	for _, s := range l.selected {
		if s != code {
			next = append(next, s)
		}
	}
	l.selected = next
	rows := l.passengers[:0]
	for _, p := range l.passengers {
		if p.SeatCode != code {
			rows = append(rows, p)
		}
	}
	l.passengers = rows
	if seat := l.seat(code); seat != nil {
		seat.Selected = false
		seat.HeldByMe = false
	}
}

// Draft is the in-progress wizard state. It lives in memory until
// submission and is discarded on success or explicit cancellation.
type Draft struct {
	TripType      TripType
	TravelDate    time.Time
	ReturnDate    time.Time
	RouteID       uint
	PaymentMethod string
	Reason        string

	legs map[Leg]*legState
}

func NewDraft(tripType TripType) *Draft {
	return &Draft{
		TripType: tripType,
		legs: map[Leg]*legState{
			LegDeparture: {},
			LegReturn:    {},
		},
	}
}

func (d *Draft) leg(leg Leg) *legState {
	if l, ok := d.legs[leg]; ok {
		return l
	}
	l := &legState{}
	d.legs[leg] = l
	return l
}

// SelectedSeats returns the current selection for a leg in append order.
func (d *Draft) SelectedSeats(leg Leg) []string {
	out := make([]string, len(d.leg(leg).selected))
	copy(out, d.leg(leg).selected)
	return out
}

// Passengers returns the passenger rows for a leg, one per selected seat.
func (d *Draft) Passengers(leg Leg) []PassengerRow {
	out := make([]PassengerRow, len(d.leg(leg).passengers))
	copy(out, d.leg(leg).passengers)
	return out
}

// SetPassenger fills in the detail row for a selected seat.
func (d *Draft) SetPassenger(leg Leg, row PassengerRow) bool {
	l := d.leg(leg)
	for i := range l.passengers {
		if l.passengers[i].SeatCode == row.SeatCode {
			l.passengers[i] = row
			return true
		}
	}
	return false
}

func (d *Draft) Trip(leg Leg) *Trip {
	return d.leg(leg).trip
}

func (d *Draft) Seats(leg Leg) []Seat {
	out := make([]Seat, len(d.leg(leg).seats))
	copy(out, d.leg(leg).seats)
	return out
}
