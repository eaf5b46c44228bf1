package models_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/app/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProduct_DiscountedPrice(t *testing.T) {
	p := models.Product{Price: dec("279.99"), DiscountPercentage: 10}
	assert.Equal(t, "251.99", p.DiscountedPrice().StringFixed(2))

	p.DiscountPercentage = 0
	assert.True(t, p.DiscountedPrice().Equal(dec("279.99")))
}

func TestProduct_EffectiveOriginalPrice(t *testing.T) {
	stored := models.Product{
		Price:              dec("80"),
		DiscountPercentage: 20,
		OriginalPrice:      decimal.NewNullDecimal(dec("95")),
	}
	assert.Equal(t, "95.00", stored.EffectiveOriginalPrice().StringFixed(2))

	derived := models.Product{Price: dec("80"), DiscountPercentage: 20}
	assert.Equal(t, "100.00", derived.EffectiveOriginalPrice().StringFixed(2))

	plain := models.Product{Price: dec("42.50")}
	assert.Equal(t, "42.50", plain.EffectiveOriginalPrice().StringFixed(2))

	free := models.Product{Price: dec("0"), DiscountPercentage: 100}
	assert.True(t, free.EffectiveOriginalPrice().IsZero())
}

func TestProduct_OfferDeadline(t *testing.T) {
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

	p := models.Product{}
	assert.Equal(t, now.Add(models.OfferWindow), p.OfferDeadline(now))
	assert.Equal(t, "January 31, 2026", p.FormatOfferDeadline(now))
	assert.Nil(t, p.OfferValidUntil, "derived deadline must not be stored")

	end := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	p.OfferValidUntil = &end
	assert.Equal(t, end, p.OfferDeadline(now))
}

func TestCartItem_TotalPrice(t *testing.T) {
	item := models.CartItem{Quantity: 3, PriceAtAddition: dec("19.99")}
	assert.Equal(t, "59.97", item.TotalPrice().StringFixed(2))
}

func TestCartItemWithProduct_Bounds(t *testing.T) {
	line := models.CartItemWithProduct{
		Item:    models.CartItem{Quantity: 1},
		Product: models.Product{StockQuantity: 2},
	}
	assert.True(t, line.CanIncrease())
	assert.False(t, line.CanDecrease())

	line.Item.Quantity = 2
	assert.False(t, line.CanIncrease())
	assert.True(t, line.CanDecrease())
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, models.OrderShipped.Valid())
	assert.False(t, models.OrderStatus("LOST").Valid())
}

func TestOrderItem_TotalPrice(t *testing.T) {
	item := models.OrderItem{Quantity: 2, Price: dec("5.25")}
	assert.Equal(t, "10.50", item.TotalPrice().StringFixed(2))
}
