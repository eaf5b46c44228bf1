package viewmodels

import (
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/collection"
)

// PricingPolicy decides the unit price an order line is charged.
type PricingPolicy string

const (
	// CartSnapshotPrice charges what the shopper saw in the cart: the price
	// captured when the line was added.
	CartSnapshotPrice PricingPolicy = "cart"
	// LiveProductPrice charges the product's current discounted price at
	// checkout, the price a fresh add-to-cart would capture.
	LiveProductPrice PricingPolicy = "live"
)

// ParsePricingPolicy maps a config value to a policy. Unknown values fall
// back to CartSnapshotPrice.
func ParsePricingPolicy(s string) PricingPolicy {
	if PricingPolicy(s) == LiveProductPrice {
		return LiveProductPrice
	}
	return CartSnapshotPrice
}

func (p PricingPolicy) orDefault() PricingPolicy {
	if p == "" {
		return CartSnapshotPrice
	}
	return p
}

// UnitPrice is the price one unit of row is charged under p.
func (p PricingPolicy) UnitPrice(row models.CartItemWithProduct) decimal.Decimal {
	if p == LiveProductPrice {
		return row.Product.DiscountedPrice()
	}
	return row.Item.PriceAtAddition
}

// Checkout constants.
var (
	TaxRate      = decimal.RequireFromString("0.08")
	ShippingCost = decimal.RequireFromString("19.99")
)

// Summary is the money breakdown of a checkout.
type Summary struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Summarize prices rows under p: subtotal is Σ quantity × unit price, tax is
// TaxRate of the subtotal, and shipping is a flat ShippingCost.
func Summarize(rows []models.CartItemWithProduct, p PricingPolicy) Summary {
	subtotal := collection.Reduce(rows, decimal.Zero, func(sum decimal.Decimal, row models.CartItemWithProduct) decimal.Decimal {
		return sum.Add(p.UnitPrice(row).Mul(decimal.NewFromInt(int64(row.Item.Quantity))))
	}).Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)
	return Summary{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: ShippingCost,
		Total:    subtotal.Add(tax).Add(ShippingCost),
	}
}

// cartTotal is Σ of the snapshot line totals, what the cart screen shows.
func cartTotal(rows []models.CartItemWithProduct) decimal.Decimal {
	return collection.Reduce(rows, decimal.Zero, func(sum decimal.Decimal, row models.CartItemWithProduct) decimal.Decimal {
		return sum.Add(row.Item.TotalPrice())
	}).Round(2)
}
