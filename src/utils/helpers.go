package utils

import (
	"errors"
	"fbs/src/booking"
	"fbs/src/common"
	"fbs/src/config"
	"fbs/src/db"
	"fbs/src/lib"
	"fbs/src/models"
	"fbs/src/types"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSeatsTaken        = errors.New("one or more selected seats are no longer available")
	ErrPassengerMismatch = errors.New("every selected seat needs exactly one passenger")
	ErrCreditExceeded    = errors.New("agent credit limit exceeded")
	ErrRefundViaGateway  = errors.New("refunds cannot be settled through the payment gateway")
	ErrAccessibleSeat    = errors.New("accessible seats are reserved for passengers who need them")
)

// legFare prices one direction of travel. The trip's route carries the
// base fare; the trip itself the seasonal multiplier.
func legFare(tx *gorm.DB, tripID uint, passengers int, discountRate float64, previouslyPaid *float64) (*models.Trip, booking.Quote, error) {
	var trip models.Trip
	if err := tx.
		Model(&models.Trip{}).
		Where(&models.Trip{ID: tripID}).
		Preload("Route").
		Preload("Vessel").
		First(&trip).
		Error; err != nil {
		return nil, booking.Quote{}, fmt.Errorf("trip %d does not exist", tripID)
	}
	if trip.Status != types.TRIP_SCHEDULED {
		return nil, booking.Quote{}, fmt.Errorf("trip %d is no longer open for booking", tripID)
	}
	baseFare := trip.Route.BaseFare
	// Multi-stop routes price the end-to-end pair through a segment fare
	// when one is defined.
	var segment models.RouteSegment
	err := tx.
		Where(&models.RouteSegment{
			RouteID:    trip.RouteID,
			FromIsland: trip.Route.Origin,
			ToIsland:   trip.Route.Destination,
		}).
		First(&segment).
		Error
	if err == nil && segment.Fare > 0 {
		baseFare = segment.Fare
	}
	quote, err := booking.ComputeFare(booking.FareInputs{
		BaseFare:       float64(baseFare),
		Multiplier:     float64(trip.FareMultiplier),
		PassengerCount: passengers,
		DiscountRate:   discountRate,
		PreviouslyPaid: previouslyPaid,
	})
	if err != nil {
		return nil, booking.Quote{}, err
	}
	return &trip, quote, nil
}

func nextBookingNumber(tx *gorm.DB) (string, error) {
	var last models.Booking
	err := tx.
		Model(&models.Booking{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id desc").
		First(&last).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return fmt.Sprintf("FB-%06d", last.ID+1), nil
}

func newBoardingCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}

// assertSeatsFree rejects a leg whose seats are occupied or held by
// someone else. Holds owned by the booking user pass; they get confirmed
// inside the same transaction. excludeBookingID is the booking under
// modification, whose own seats stay selectable.
func assertSeatsFree(tx *gorm.DB, tripID uint, seats []string, userID uint, excludeBookingID uint) error {
	occupied, err := common.OccupiedSeats(tx, tripID, excludeBookingID)
	if err != nil {
		return err
	}
	held, err := common.HeldSeats(tx, tripID)
	if err != nil {
		return err
	}
	for _, code := range seats {
		if occupied[code] {
			return ErrSeatsTaken
		}
		if by, ok := held[code]; ok && by != userID {
			return ErrSeatsTaken
		}
	}
	return nil
}

// assertAccessibleSeats blocks accessible seats unless the leg carries a
// passenger entitled to one.
func assertAccessibleSeats(tx *gorm.DB, tripID uint, seats []string, hasAccessiblePassenger bool) error {
	if hasAccessiblePassenger || len(seats) == 0 {
		return nil
	}
	var count int64
	err := tx.
		Model(&models.VesselSeat{}).
		Joins("JOIN trips ON trips.vessel_id = vessel_seats.vessel_id").
		Where("trips.id = ?", tripID).
		Where("vessel_seats.accessible = ?", true).
		Where("vessel_seats.number IN ?", seats).
		Count(&count).
		Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAccessibleSeat
	}
	return nil
}

func buildLeg(tx *gorm.DB, bookingID uint, leg types.Leg, req *types.BookingLegRequest, legFareAmount float32, userID uint) error {
	if len(req.Seats) != len(req.Passengers) {
		return ErrPassengerMismatch
	}
	if err := assertSeatsFree(tx, req.TripID, req.Seats, userID, 0); err != nil {
		return err
	}
	hasAccessible := false
	for _, p := range req.Passengers {
		if p.Accessible {
			hasAccessible = true
			break
		}
	}
	if err := assertAccessibleSeats(tx, req.TripID, req.Seats, hasAccessible); err != nil {
		return err
	}
	bookingLeg := models.BookingLeg{
		BookingID: bookingID,
		TripID:    req.TripID,
		Leg:       leg,
		LegFare:   legFareAmount,
	}
	if err := tx.Create(&bookingLeg).Error; err != nil {
		return err
	}
	for _, p := range req.Passengers {
		passenger := models.Passenger{
			BookingLegID: bookingLeg.ID,
			SeatCode:     p.SeatCode,
			FullName:     p.FullName,
			IDNumber:     p.IDNumber,
			Phone:        p.Phone,
			Accessible:   p.Accessible,
			BoardingCode: newBoardingCode(),
		}
		if err := tx.Create(&passenger).Error; err != nil {
			return err
		}
	}
	return common.ConfirmHoldsForBooking(tx, bookingID, req.TripID, req.Seats, userID)
}

// CreateBooking finalizes a draft: prices every leg, writes the booking
// with its legs and passengers, confirms the user's seat holds and opens
// the payment. Gateway bookings stay pending until the webhook lands;
// agent credit and bank transfer settle immediately.
func CreateBooking(ctx *gin.Context, params *types.CreateBookingRequestBody, userId uint) (*models.Booking, string, error) {
	var agentId *uint
	if aid := ctx.GetUint("agent"); aid > 0 {
		agentId = &aid
	}
	return CreateBookingForUser(params, userId, agentId)
}

func CreateBookingForUser(params *types.CreateBookingRequestBody, userId uint, agentId *uint) (*models.Booking, string, error) {
	discountRate := float64(params.DiscountRate)
	if agentId == nil && params.PaymentMethod == types.PAYMENT_AGENT_CREDIT {
		return nil, "", errors.New("agent credit is only available to agent accounts")
	}
	if agentId != nil && discountRate == 0 {
		var agent models.Agent
		if err := db.GetDb().
			Select("discount_rate").
			Where(&models.Agent{ID: *agentId}).
			First(&agent).
			Error; err == nil {
			discountRate = float64(agent.DiscountRate)
		}
	}

	bk := models.Booking{
		TripType:      params.TripType,
		Status:        types.BOOKING_PENDING,
		UserID:        userId,
		AgentID:       agentId,
		DiscountRate:  float32(discountRate),
		Currency:      "usd",
		PaymentMethod: params.PaymentMethod,
		ContactEmail:  params.ContactEmail,
		ContactPhone:  params.ContactPhone,
	}

	var paymentURL string
	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		number, err := nextBookingNumber(tx)
		if err != nil {
			return err
		}
		bk.BookingNumber = number

		_, departureQuote, err := legFare(tx, params.Departure.TripID, len(params.Departure.Passengers), discountRate, nil)
		if err != nil {
			return err
		}
		subtotal := departureQuote.Subtotal
		total := departureQuote.Total
		var returnQuote *booking.Quote
		if params.TripType == types.TRIP_ROUND_TRIP {
			if params.Return == nil {
				return errors.New("round trip booking is missing its return leg")
			}
			_, q, err := legFare(tx, params.Return.TripID, len(params.Return.Passengers), discountRate, nil)
			if err != nil {
				return err
			}
			returnQuote = &q
			subtotal += q.Subtotal
			total += q.Total
		}
		bk.Subtotal = float32(subtotal)
		bk.Total = float32(total)

		if params.PaymentMethod != types.PAYMENT_GATEWAY {
			bk.Status = types.BOOKING_CONFIRMED
			bk.AmountPaid = bk.Total
		}
		if err := tx.Create(&bk).Error; err != nil {
			return err
		}

		if err := buildLeg(tx, bk.ID, types.LEG_DEPARTURE, &params.Departure, float32(departureQuote.Total), userId); err != nil {
			return err
		}
		if returnQuote != nil {
			if err := buildLeg(tx, bk.ID, types.LEG_RETURN, params.Return, float32(returnQuote.Total), userId); err != nil {
				return err
			}
		}

		switch params.PaymentMethod {
		case types.PAYMENT_AGENT_CREDIT:
			if err := chargeAgentCredit(tx, *agentId, bk.Total); err != nil {
				return err
			}
			return settleTransaction(tx, &bk, float64(bk.Total), types.PAYMENT_AGENT_CREDIT)
		case types.PAYMENT_BANK_TRANSFER:
			return settleTransaction(tx, &bk, float64(bk.Total), types.PAYMENT_BANK_TRANSFER)
		default:
			sessionId, url, err := lib.CreateCheckoutSession(bk.BookingNumber, int64(bk.Total*100), bk.Currency)
			if err != nil {
				log.Printf("Error opening checkout for booking %s: %s\n", bk.BookingNumber, err.Error())
				return err
			}
			paymentURL = url
			txn := models.Transaction{
				BookingID:   bk.ID,
				Currency:    bk.Currency,
				Amount:      float64(bk.Total),
				Method:      types.PAYMENT_GATEWAY,
				SourceName:  "checkout_session",
				SourceValue: sessionId,
				ReferenceID: bk.BookingNumber,
				Status:      types.TRANSACTION_PENDING,
			}
			if err := tx.Create(&txn).Error; err != nil {
				return err
			}
			return tx.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: bk.ID}).
				Update("transaction_id", txn.ID).
				Error
		}
	})
	if err != nil {
		log.Printf("CreateBooking failed: %s\n", err.Error())
		return nil, "", err
	}

	if params.PaymentMethod == types.PAYMENT_GATEWAY {
		deadline := time.Now().Add(config.GetSeatHoldTTL())
		common.SchedulePendingBookingExpiry(&bk, deadline)
	} else {
		go SendBookingConfirmation(&bk)
	}
	return &bk, paymentURL, nil
}

func chargeAgentCredit(tx *gorm.DB, agentId uint, amount float32) error {
	var agent models.Agent
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(&models.Agent{ID: agentId}).
		First(&agent).
		Error; err != nil {
		return err
	}
	if agent.CreditUsed+amount > agent.CreditLimit {
		return ErrCreditExceeded
	}
	return tx.
		Model(&models.Agent{}).
		Where(&models.Agent{ID: agentId}).
		Update("credit_used", gorm.Expr("credit_used + ?", amount)).
		Error
}

func settleTransaction(tx *gorm.DB, bk *models.Booking, amount float64, method types.PaymentMethod) error {
	txn := models.Transaction{
		BookingID:   bk.ID,
		Currency:    bk.Currency,
		Amount:      amount,
		Method:      method,
		SourceName:  "table",
		SourceValue: "Booking",
		ReferenceID: bk.BookingNumber,
		Status:      types.TRANSACTION_COMPLETED,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return err
	}
	return tx.
		Model(&models.Booking{}).
		Where(&models.Booking{ID: bk.ID}).
		Update("transaction_id", txn.ID).
		Error
}

// CompleteBookingPayment settles a checkout session once the payment
// webhook lands. The session is resolved through its pending transaction,
// never through booking status: the same path serves the initial payment
// on a pending booking and a fare-difference payment on a modified one.
func CompleteBookingPayment(bookingNumber string, sessionId string, amountPaid float64) error {
	database := db.GetDb()
	var bk models.Booking
	confirmed := false
	err := database.Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.
			Where(&models.Transaction{SourceValue: sessionId}).
			First(&txn).
			Error; err != nil {
			return err
		}
		if txn.Status == types.TRANSACTION_COMPLETED {
			// Webhook retry; already settled.
			return nil
		}
		if err := tx.
			Where(&models.Booking{ID: txn.BookingID, BookingNumber: bookingNumber}).
			First(&bk).
			Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.Transaction{}).
			Where(&models.Transaction{ID: txn.ID}).
			Update("status", types.TRANSACTION_COMPLETED).
			Error; err != nil {
			return err
		}
		if bk.Status == types.BOOKING_PENDING {
			confirmed = true
			return tx.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: bk.ID}).
				Updates(map[string]any{
					"status":      types.BOOKING_CONFIRMED,
					"amount_paid": amountPaid,
				}).
				Error
		}
		return tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bk.ID}).
			Update("amount_paid", gorm.Expr("amount_paid + ?", amountPaid)).
			Error
	})
	if err != nil {
		log.Printf("Error completing payment for booking %s: %s\n", bookingNumber, err.Error())
		return err
	}
	if confirmed {
		bk.Status = types.BOOKING_CONFIRMED
		bk.AmountPaid = float32(amountPaid)
		go SendBookingConfirmation(&bk)
	}
	return nil
}

// ExpireBookingByNumber voids a still-pending booking from a gateway
// session that expired before payment.
func ExpireBookingByNumber(bookingNumber string) {
	database := db.GetDb()
	var bk models.Booking
	if err := database.
		Select("id").
		Where(&models.Booking{BookingNumber: bookingNumber}).
		First(&bk).
		Error; err != nil {
		log.Printf("Error loading booking %s for expiry: %s\n", bookingNumber, err.Error())
		return
	}
	common.ExpirePendingBooking(bk.ID)
}

// ModifyBooking changes trips or seats on a confirmed booking and settles
// the fare difference. A positive difference opens a payment for the
// chosen method; a negative one records a refund through agent credit or
// bank transfer, never the gateway; zero records no transaction at all.
func ModifyBooking(bookingID uint, params *types.ModifyBookingRequestBody, userId uint) (*models.Booking, *booking.Quote, string, error) {
	database := db.GetDb()
	var bk models.Booking
	var quote booking.Quote
	var paymentURL string
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ? AND status IN ?", bookingID, []types.BookingStatus{types.BOOKING_CONFIRMED, types.BOOKING_MODIFIED}).
			Preload("Legs.Passengers").
			First(&bk).
			Error; err != nil {
			return errors.New("booking not found or not modifiable")
		}

		previouslyPaid := float64(bk.AmountPaid)
		discountRate := float64(bk.DiscountRate)
		newTotal := 0.0
		for i := range bk.Legs {
			leg := &bk.Legs[i]
			tripId := leg.TripID
			seats := params.Seats
			if leg.Leg == types.LEG_RETURN {
				seats = params.ReturnSeats
				if params.NewReturnID > 0 {
					tripId = params.NewReturnID
				}
			} else if params.NewTripID > 0 {
				tripId = params.NewTripID
			}
			if len(seats) > 0 && len(seats) != len(leg.Passengers) {
				return ErrPassengerMismatch
			}
			_, q, err := legFare(tx, tripId, len(leg.Passengers), discountRate, nil)
			if err != nil {
				return err
			}
			newTotal += q.Total

			if tripId == leg.TripID && len(seats) == 0 {
				continue
			}
			if len(seats) == 0 {
				return errors.New("changing a trip requires reselecting seats")
			}
			if err := assertSeatsFree(tx, tripId, seats, userId, bk.ID); err != nil {
				return err
			}
			hasAccessible := false
			for _, p := range leg.Passengers {
				if p.Accessible {
					hasAccessible = true
					break
				}
			}
			if err := assertAccessibleSeats(tx, tripId, seats, hasAccessible); err != nil {
				return err
			}
			if err := tx.
				Model(&models.BookingLeg{}).
				Where(&models.BookingLeg{ID: leg.ID}).
				Updates(map[string]any{
					"trip_id":  tripId,
					"leg_fare": float32(q.Total),
				}).
				Error; err != nil {
				return err
			}
			for idx, p := range leg.Passengers {
				if err := tx.
					Model(&models.Passenger{}).
					Where(&models.Passenger{ID: p.ID}).
					Update("seat_code", seats[idx]).
					Error; err != nil {
					return err
				}
			}
			if err := common.ConfirmHoldsForBooking(tx, bk.ID, tripId, seats, userId); err != nil {
				return err
			}
		}

		q, err := booking.ComputeFare(booking.FareInputs{
			BaseFare:       newTotal,
			Multiplier:     1,
			PassengerCount: 1,
			PreviouslyPaid: &previouslyPaid,
		})
		if err != nil {
			return err
		}
		quote = q

		settledVia := "none"
		awaitingGateway := false
		switch q.Settlement {
		case booking.SettlementAdditionalPayment:
			method := params.PaymentMethod
			if method == "" {
				method = bk.PaymentMethod
			}
			settledVia = string(method)
			if method == types.PAYMENT_GATEWAY {
				awaitingGateway = true
				sessionId, url, err := lib.CreateCheckoutSession(bk.BookingNumber, int64(q.FareDifference*100), bk.Currency)
				if err != nil {
					return err
				}
				paymentURL = url
				txn := models.Transaction{
					BookingID:   bk.ID,
					Currency:    bk.Currency,
					Amount:      q.FareDifference,
					Method:      method,
					SourceName:  "checkout_session",
					SourceValue: sessionId,
					ReferenceID: bk.BookingNumber,
					Status:      types.TRANSACTION_PENDING,
				}
				if err := tx.Create(&txn).Error; err != nil {
					return err
				}
			} else {
				if method == types.PAYMENT_AGENT_CREDIT {
					if bk.AgentID == nil {
						return errors.New("agent credit is only available to agent bookings")
					}
					if err := chargeAgentCredit(tx, *bk.AgentID, float32(q.FareDifference)); err != nil {
						return err
					}
				}
				txn := models.Transaction{
					BookingID:   bk.ID,
					Currency:    bk.Currency,
					Amount:      q.FareDifference,
					Method:      method,
					SourceName:  "table",
					SourceValue: "Modification",
					ReferenceID: bk.BookingNumber,
					Status:      types.TRANSACTION_COMPLETED,
				}
				if err := tx.Create(&txn).Error; err != nil {
					return err
				}
			}
		case booking.SettlementRefund:
			method := params.PaymentMethod
			if method == "" || method == types.PAYMENT_GATEWAY {
				if method == types.PAYMENT_GATEWAY {
					return ErrRefundViaGateway
				}
				method = types.PAYMENT_BANK_TRANSFER
				if bk.AgentID != nil {
					method = types.PAYMENT_AGENT_CREDIT
				}
			}
			settledVia = string(method)
			if method == types.PAYMENT_AGENT_CREDIT {
				if bk.AgentID == nil {
					return errors.New("agent credit is only available to agent bookings")
				}
				if err := tx.
					Model(&models.Agent{}).
					Where(&models.Agent{ID: *bk.AgentID}).
					Update("credit_used", gorm.Expr("credit_used - ?", float32(-q.FareDifference))).
					Error; err != nil {
					return err
				}
			}
			txn := models.Transaction{
				BookingID:   bk.ID,
				Currency:    bk.Currency,
				Amount:      -q.FareDifference,
				Method:      method,
				SourceName:  "table",
				SourceValue: "Modification",
				ReferenceID: bk.BookingNumber,
				Status:      types.TRANSACTION_REFUNDED,
			}
			if err := tx.Create(&txn).Error; err != nil {
				return err
			}
		}

		modification := models.Modification{
			BookingID:      bk.ID,
			Reason:         params.Reason,
			FareDifference: float32(q.FareDifference),
			SettledVia:     settledVia,
		}
		if err := tx.Create(&modification).Error; err != nil {
			return err
		}
		return tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bk.ID}).
			Updates(modificationUpdates(newTotal, awaitingGateway)).
			Error
	})
	if err != nil {
		log.Printf("ModifyBooking failed for %d: %s\n", bookingID, err.Error())
		return nil, nil, "", err
	}
	return &bk, &quote, paymentURL, nil
}

// modificationUpdates builds the booking columns a settled modification
// writes. A gateway difference stays uncredited; the webhook adds it to
// amount_paid once the checkout session completes.
func modificationUpdates(newTotal float64, awaitingGateway bool) map[string]any {
	updates := map[string]any{
		"status": types.BOOKING_MODIFIED,
		"total":  float32(newTotal),
	}
	if !awaitingGateway {
		updates["amount_paid"] = float32(newTotal)
	}
	return updates
}

// CancelBooking voids a booking and frees its seats. The refund, when one
// is owed, follows the modification rules: agent credit or bank transfer.
func CancelBooking(bookingID uint, userId uint) error {
	database := db.GetDb()
	var bk models.Booking
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ? AND user_id = ? AND status IN ?", bookingID, userId, []types.BookingStatus{
				types.BOOKING_PENDING,
				types.BOOKING_CONFIRMED,
				types.BOOKING_MODIFIED,
			}).
			Preload("Legs.Passengers").
			First(&bk).
			Error; err != nil {
			return errors.New("booking not found or not cancelable")
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bk.ID}).
			Update("status", types.BOOKING_CANCELED).
			Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.SeatHold{}).
			Where(&models.SeatHold{BookingID: &bk.ID, Status: types.HOLD_CONFIRMED}).
			Update("status", types.HOLD_RELEASED).
			Error; err != nil {
			return err
		}
		if bk.AmountPaid > 0 {
			method := types.PAYMENT_BANK_TRANSFER
			if bk.AgentID != nil {
				method = types.PAYMENT_AGENT_CREDIT
				if err := tx.
					Model(&models.Agent{}).
					Where(&models.Agent{ID: *bk.AgentID}).
					Update("credit_used", gorm.Expr("credit_used - ?", bk.AmountPaid)).
					Error; err != nil {
					return err
				}
			}
			txn := models.Transaction{
				BookingID:   bk.ID,
				Currency:    bk.Currency,
				Amount:      float64(bk.AmountPaid),
				Method:      method,
				SourceName:  "table",
				SourceValue: "Cancellation",
				ReferenceID: bk.BookingNumber,
				Status:      types.TRANSACTION_REFUNDED,
			}
			if err := tx.Create(&txn).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("CancelBooking failed for %d: %s\n", bookingID, err.Error())
		return err
	}
	for _, leg := range bk.Legs {
		for _, p := range leg.Passengers {
			go lib.BroadcastSeatUpdate(leg.TripID, p.SeatCode, true, 0)
		}
	}
	return nil
}

func GetOwnBookings(userId uint, filters *types.BookingQueryFilters) ([]models.Booking, error) {
	database := db.GetDb()
	var bookings []models.Booking
	tx := database.
		Model(&models.Booking{}).
		Where(&models.Booking{UserID: userId})
	if filters != nil && filters.Status != "" {
		tx = tx.Where("status = ?", filters.Status)
	}
	err := tx.
		Preload("Legs.Trip.Route").
		Preload("Legs.Passengers").
		Preload("Transaction").
		Order("created_at DESC").
		Limit(20).
		Find(&bookings).
		Error
	return bookings, err
}

func GetAgentBookings(agentId uint, filters *types.BookingQueryFilters) ([]models.Booking, error) {
	database := db.GetDb()
	var bookings []models.Booking
	tx := database.
		Model(&models.Booking{}).
		Where(&models.Booking{AgentID: &agentId})
	if filters != nil && filters.Status != "" {
		tx = tx.Where("status = ?", filters.Status)
	}
	if filters != nil && filters.TripID > 0 {
		tx = tx.
			Joins("JOIN booking_legs ON booking_legs.booking_id = bookings.id").
			Where("booking_legs.trip_id = ?", filters.TripID)
	}
	err := tx.
		Preload("Legs.Trip.Route").
		Preload("Legs.Passengers").
		Order("created_at DESC").
		Find(&bookings).
		Error
	return bookings, err
}
