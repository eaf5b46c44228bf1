package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is stored as a plain string; transitions are not enforced.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PaymentMethod is chosen at checkout. No payment is processed.
type PaymentMethod string

const (
	PaymentCreditCard    PaymentMethod = "CREDIT_CARD"
	PaymentOnDelivery    PaymentMethod = "PAY_ON_DELIVERY"
	DefaultPaymentMethod               = PaymentCreditCard
)

// Order is created together with its items at checkout.
type Order struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"               json:"id"`
	UserID         uint            `gorm:"not null;index"                         json:"user_id"`
	OrderDate      time.Time       `gorm:"not null;index"                         json:"order_date"`
	Status         OrderStatus     `gorm:"size:32;not null;default:PENDING"       json:"status"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"            json:"total_amount"`
	ShippingName   string          `gorm:"size:255"                               json:"shipping_name"`
	ShippingStreet string          `gorm:"size:255"                               json:"shipping_street"`
	ShippingCity   string          `gorm:"size:128"                               json:"shipping_city"`
	ShippingZip    string          `gorm:"size:16"                                json:"shipping_zip"`
	PaymentMethod  PaymentMethod   `gorm:"size:32"                                json:"payment_method"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is a line of an order with the unit price charged.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	OrderID   uint            `gorm:"not null;index"             json:"order_id"`
	ProductID string          `gorm:"size:64;not null;index"     json:"product_id"`
	Quantity  int             `gorm:"not null;check:quantity >= 1" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`

	Order   *Order   `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:NO ACTION,OnDelete:NO ACTION" json:"-"`
}

func (OrderItem) TableName() string { return "order_items" }

// TotalPrice is Price × Quantity.
func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
