package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line in the cart. PriceAtAddition is captured when the
// product is added and is not re-read from the product afterwards.
type CartItem struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"                 json:"id"`
	ProductID       string          `gorm:"size:64;not null;index"                   json:"product_id"`
	Quantity        int             `gorm:"not null;default:1;check:quantity >= 1"   json:"quantity"`
	PriceAtAddition decimal.Decimal `gorm:"type:decimal(12,2);not null"              json:"price_at_addition"`
	AddedAt         time.Time       `gorm:"not null;index"                           json:"added_at"`
	LastModifiedAt  time.Time       `gorm:"not null;index"                           json:"last_modified_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (CartItem) TableName() string { return "cart_items" }

// TotalPrice is quantity × PriceAtAddition.
func (c CartItem) TotalPrice() decimal.Decimal {
	return c.PriceAtAddition.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CartItemWithProduct is a read-only projection joining a cart line with its
// product.
type CartItemWithProduct struct {
	Item    CartItem `json:"item"`
	Product Product  `json:"product"`
}

// CanIncrease reports whether one more unit fits in the product's stock.
func (c CartItemWithProduct) CanIncrease() bool {
	return c.Item.Quantity < c.Product.StockQuantity
}

// CanDecrease reports whether the quantity may drop by one.
func (c CartItemWithProduct) CanDecrease() bool {
	return c.Item.Quantity > 1
}
