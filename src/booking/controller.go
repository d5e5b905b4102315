package booking

import (
	"context"
	"log"
	"sync"
	"time"
)

// Controller is the single owner of an engine instance. Engine operations
// return effects; the controller is the only place they are applied, so
// every write path to the backend is visible here.
//
// Availability is dual-channel: push from SubscribeSeatUpdates is
// preferred, and a poll loop acts as backstop for missed events while a
// leg has a trip selected.
type Controller struct {
	mu     sync.Mutex
	engine *Engine
	source InventorySource

	pollInterval time.Duration
	pollStop     map[Leg]chan struct{}
}

func NewController(engine *Engine, source InventorySource, pollInterval time.Duration) *Controller {
	return &Controller{
		engine:       engine,
		source:       source,
		pollInterval: pollInterval,
		pollStop:     make(map[Leg]chan struct{}),
	}
}

func (c *Controller) Engine() *Engine { return c.engine }

func (c *Controller) Quote() Quote {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Quote()
}

// SelectTrip applies a trip change: stale holds are released, the old
// subscription torn down, and a fresh availability snapshot loaded before
// any toggle against the new trip is honored.
func (c *Controller) SelectTrip(ctx context.Context, leg Leg, trip Trip) error {
	c.mu.Lock()
	effects := c.engine.SelectTrip(leg, trip)
	c.mu.Unlock()

	for _, eff := range effects {
		if err := c.apply(ctx, eff); err != nil {
			return err
		}
	}
	c.restartPoll(ctx, leg, trip.ID)
	return nil
}

// ToggleSeat runs one toggle end to end, including the hold round trip.
// A conflict rolls the selection back and refreshes availability; the
// toggle is not retried.
func (c *Controller) ToggleSeat(ctx context.Context, leg Leg, code string) (Quote, error) {
	c.mu.Lock()
	effects, err := c.engine.ToggleSeat(leg, code)
	c.mu.Unlock()
	if err != nil {
		return c.Quote(), err
	}

	for _, eff := range effects {
		switch eff.Kind {
		case EffectAcquireHold:
			result, herr := c.source.ToggleSeatHold(ctx, eff.TripID, eff.SeatCode, false)
			if herr != nil || result == HoldConflict {
				if herr != nil {
					log.Printf("[booking] hold acquire failed for %s on trip %d: %s\n", eff.SeatCode, eff.TripID, herr.Error())
				}
				c.mu.Lock()
				rollback := c.engine.HoldRejected(leg, eff.SeatCode)
				c.mu.Unlock()
				for _, r := range rollback {
					if aerr := c.apply(ctx, r); aerr != nil {
						log.Printf("[booking] availability refresh failed: %s\n", aerr.Error())
					}
				}
				return c.Quote(), ErrSeatUnavailable
			}
			c.mu.Lock()
			c.engine.HoldConfirmed(leg, eff.SeatCode)
			c.mu.Unlock()
		default:
			if aerr := c.apply(ctx, eff); aerr != nil {
				return c.Quote(), aerr
			}
		}
	}
	return c.Quote(), nil
}

// Submit finalizes the draft. On backend rejection the draft is preserved
// for retry and availability refreshed to reflect post-failure reality.
func (c *Controller) Submit(ctx context.Context, w *Wizard, paymentMethod string) (*Submission, error) {
	c.mu.Lock()
	c.engine.Draft().PaymentMethod = paymentMethod
	ok := w.CanAdvance(StepPayment)
	c.mu.Unlock()
	if !ok {
		return nil, ErrDraftIncomplete
	}
	sub, err := c.source.SubmitBooking(ctx, c.engine.Draft(), paymentMethod)
	if err != nil {
		c.refreshAll(ctx)
		return nil, err
	}
	return sub, nil
}

// Close tears down subscriptions and poll loops for every leg. Pure
// cleanup; there is no partial completion to reconcile.
func (c *Controller) Close(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for leg, stop := range c.pollStop {
		close(stop)
		delete(c.pollStop, leg)
	}
	for _, leg := range []Leg{LegDeparture, LegReturn} {
		if trip := c.engine.Draft().Trip(leg); trip != nil {
			if err := c.source.UnsubscribeSeatUpdates(ctx, trip.ID); err != nil {
				log.Printf("[booking] unsubscribe failed for trip %d: %s\n", trip.ID, err.Error())
			}
		}
	}
}

func (c *Controller) apply(ctx context.Context, eff Effect) error {
	switch eff.Kind {
	case EffectFetchSeats:
		seats, err := c.source.FetchAvailableSeats(ctx, eff.TripID)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.engine.SeatsLoaded(eff.Leg, seats)
		c.mu.Unlock()
	case EffectSubscribe:
		leg := eff.Leg
		return c.source.SubscribeSeatUpdates(ctx, eff.TripID, func(tripID uint, seatCode string, available bool) {
			c.mu.Lock()
			lost := c.engine.ApplySeatUpdate(leg, seatCode, available)
			c.mu.Unlock()
			if lost {
				log.Printf("[booking] seat %s on trip %d was taken concurrently\n", seatCode, tripID)
			}
		})
	case EffectUnsubscribe:
		return c.source.UnsubscribeSeatUpdates(ctx, eff.TripID)
	case EffectReleaseHold:
		if _, err := c.source.ToggleSeatHold(ctx, eff.TripID, eff.SeatCode, true); err != nil {
			log.Printf("[booking] hold release failed for %s on trip %d: %s\n", eff.SeatCode, eff.TripID, err.Error())
		}
	case EffectClearSelection, EffectQuoteUpdated:
		// Already reflected in engine state; nothing to run.
	}
	return nil
}

func (c *Controller) restartPoll(ctx context.Context, leg Leg, tripID uint) {
	c.mu.Lock()
	if stop, ok := c.pollStop[leg]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	c.pollStop[leg] = stop
	c.mu.Unlock()

	if c.pollInterval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				seats, err := c.source.FetchAvailableSeats(ctx, tripID)
				if err != nil {
					log.Printf("[booking] poll refresh failed for trip %d: %s\n", tripID, err.Error())
					continue
				}
				c.mu.Lock()
				c.engine.SeatsLoaded(leg, seats)
				c.mu.Unlock()
			}
		}
	}()
}

func (c *Controller) refreshAll(ctx context.Context) {
	for _, leg := range []Leg{LegDeparture, LegReturn} {
		trip := c.engine.Draft().Trip(leg)
		if trip == nil {
			continue
		}
		seats, err := c.source.FetchAvailableSeats(ctx, trip.ID)
		if err != nil {
			log.Printf("[booking] availability refresh failed for trip %d: %s\n", trip.ID, err.Error())
			continue
		}
		c.mu.Lock()
		c.engine.SeatsLoaded(leg, seats)
		c.mu.Unlock()
	}
}
