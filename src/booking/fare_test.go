package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeFareBasic(t *testing.T) {
	q, err := ComputeFare(FareInputs{
		BaseFare:       100,
		Multiplier:     1.0,
		PassengerCount: 2,
		DiscountRate:   10,
	})
	assert.NoError(t, err)
	assert.Equal(t, 200.0, q.Subtotal)
	assert.Equal(t, 180.0, q.Total)
}

func TestComputeFareDifferenceOwed(t *testing.T) {
	paid := 150.0
	q, err := ComputeFare(FareInputs{
		BaseFare:       100,
		Multiplier:     1.0,
		PassengerCount: 2,
		DiscountRate:   10,
		PreviouslyPaid: &paid,
	})
	assert.NoError(t, err)
	assert.InDelta(t, 30.0, q.FareDifference, 1e-9)
	assert.Equal(t, SettlementAdditionalPayment, q.Settlement)
	assert.Contains(t, q.AllowedPaymentMethods(), "gateway")
}

func TestComputeFareRefundNeverViaGateway(t *testing.T) {
	paid := 500.0
	q, err := ComputeFare(FareInputs{
		BaseFare:       100,
		Multiplier:     1.0,
		PassengerCount: 2,
		PreviouslyPaid: &paid,
	})
	assert.NoError(t, err)
	assert.Equal(t, SettlementRefund, q.Settlement)
	allowed := q.AllowedPaymentMethods()
	assert.NotContains(t, allowed, "gateway")
	assert.Contains(t, allowed, "agent_credit")
	assert.Contains(t, allowed, "bank_transfer")
}

func TestComputeFareZeroDifferenceNeedsNoTransaction(t *testing.T) {
	paid := 180.0
	q, err := ComputeFare(FareInputs{
		BaseFare:       100,
		Multiplier:     1.0,
		PassengerCount: 2,
		DiscountRate:   10,
		PreviouslyPaid: &paid,
	})
	assert.NoError(t, err)
	assert.Equal(t, SettlementNone, q.Settlement)
	assert.Empty(t, q.AllowedPaymentMethods())
}

func TestComputeFareMultiplierDefaultsToOne(t *testing.T) {
	q, err := ComputeFare(FareInputs{BaseFare: 50, PassengerCount: 1})
	assert.NoError(t, err)
	assert.Equal(t, 1.0, q.Multiplier)
	assert.Equal(t, 50.0, q.Total)
}

func TestComputeFareRejectsMissingBaseFare(t *testing.T) {
	_, err := ComputeFare(FareInputs{PassengerCount: 2})
	assert.ErrorIs(t, err, ErrMissingBaseFare)
}

func TestComputeFareRejectsBadDiscount(t *testing.T) {
	_, err := ComputeFare(FareInputs{BaseFare: 100, PassengerCount: 1, DiscountRate: 120})
	assert.ErrorIs(t, err, ErrBadDiscount)

	_, err = ComputeFare(FareInputs{BaseFare: 100, PassengerCount: 1, DiscountRate: -5})
	assert.ErrorIs(t, err, ErrBadDiscount)
}

func TestComputeFareIsPure(t *testing.T) {
	in := FareInputs{BaseFare: 80, Multiplier: 1.5, PassengerCount: 3, DiscountRate: 25}
	first, err := ComputeFare(in)
	assert.NoError(t, err)
	for range 10 {
		again, err := ComputeFare(in)
		assert.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
