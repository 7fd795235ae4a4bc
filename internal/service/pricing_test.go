package service

import (
	"testing"

	"farmstore/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCheckoutConfig() *config.CheckoutConfig {
	return &config.CheckoutConfig{
		Currency:             "INR",
		FreeShippingMinCents: 49900,
		ShippingFeeCents:     4000,
		DiscountMinCents:     99900,
		DiscountPercent:      10,
	}
}

func TestQuoteSmallCartPaysShippingNoDiscount(t *testing.T) {
	svc := NewPricingService(testCheckoutConfig())
	q, err := svc.Quote([]CartLine{
		{ProductID: 1, Name: "Tomatoes", Quantity: 2, UnitPriceCents: 600},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1200), q.SubtotalCents)
	assert.Equal(t, int64(4000), q.ShippingCents)
	assert.Equal(t, int64(0), q.DiscountCents)
	assert.Equal(t, int64(5200), q.TotalCents)
}

func TestQuoteShippingThresholdIsStrict(t *testing.T) {
	svc := NewPricingService(testCheckoutConfig())

	atThreshold, err := svc.Quote([]CartLine{{ProductID: 1, Quantity: 1, UnitPriceCents: 49900}})
	require.NoError(t, err)
	assert.Equal(t, int64(4000), atThreshold.ShippingCents, "exactly at threshold still pays shipping")

	aboveThreshold, err := svc.Quote([]CartLine{{ProductID: 1, Quantity: 1, UnitPriceCents: 49901}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), aboveThreshold.ShippingCents)
}

func TestQuoteDiscountThresholdAndRounding(t *testing.T) {
	svc := NewPricingService(testCheckoutConfig())

	atThreshold, err := svc.Quote([]CartLine{{ProductID: 1, Quantity: 1, UnitPriceCents: 99900}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), atThreshold.DiscountCents)

	justAbove, err := svc.Quote([]CartLine{{ProductID: 1, Quantity: 1, UnitPriceCents: 99901}})
	require.NoError(t, err)
	// 10% of 99901 is 9990.1, rounded half-up once to 9990
	assert.Equal(t, int64(9990), justAbove.DiscountCents)

	halfCase, err := svc.Quote([]CartLine{{ProductID: 1, Quantity: 1, UnitPriceCents: 100005}})
	require.NoError(t, err)
	// 10% of 100005 is 10000.5, rounded half-up to 10001
	assert.Equal(t, int64(10001), halfCase.DiscountCents)
}

func TestQuoteArithmeticIdentity(t *testing.T) {
	svc := NewPricingService(testCheckoutConfig())
	carts := [][]CartLine{
		{{ProductID: 1, Quantity: 1, UnitPriceCents: 1}},
		{{ProductID: 1, Quantity: 3, UnitPriceCents: 450}, {ProductID: 2, Quantity: 1, UnitPriceCents: 12999}},
		{{ProductID: 1, Quantity: 7, UnitPriceCents: 9999}},
		{{ProductID: 1, Quantity: 2, UnitPriceCents: 60000}},
		{{ProductID: 1, Quantity: 10, UnitPriceCents: 14999}},
	}
	for _, lines := range carts {
		q, err := svc.Quote(lines)
		require.NoError(t, err)
		assert.Equal(t, q.TotalCents, q.SubtotalCents+q.ShippingCents-q.DiscountCents)

		// deterministic across repeated calls on identical input
		again, err := svc.Quote(lines)
		require.NoError(t, err)
		assert.Equal(t, q, again)
	}
}

func TestQuoteRejectsMalformedLines(t *testing.T) {
	svc := NewPricingService(testCheckoutConfig())

	_, err := svc.Quote([]CartLine{{ProductID: 1, Quantity: 0, UnitPriceCents: 100}})
	assert.True(t, IsValidation(err))

	_, err = svc.Quote([]CartLine{{ProductID: 1, Quantity: -2, UnitPriceCents: 100}})
	assert.True(t, IsValidation(err))

	_, err = svc.Quote([]CartLine{{ProductID: 1, Quantity: 1, UnitPriceCents: -5}})
	assert.True(t, IsValidation(err))
}
