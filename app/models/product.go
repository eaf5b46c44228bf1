package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OfferWindow is how long an offer without an explicit end date is shown as
// valid, counted from the moment it is displayed.
const OfferWindow = 30 * 24 * time.Hour

// Product represents a product in the catalogue.
type Product struct {
	ID                 string              `gorm:"primaryKey;size:64"                         json:"id"`
	Name               string              `gorm:"size:255;not null;index"                    json:"name"`
	Description        string              `gorm:"type:text"                                  json:"description"`
	ImageURL           string              `gorm:"size:512"                                   json:"image_url"`
	Price              decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"      json:"price"`
	StockQuantity      int                 `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	CategoryID         string              `gorm:"size:64;not null;index"                     json:"category_id"`
	IsFeatured         bool                `gorm:"not null;default:false;index"               json:"is_featured"`
	DiscountPercentage int                 `gorm:"not null;default:0;check:discount_percentage BETWEEN 0 AND 100" json:"discount_percentage"`
	Rating             float64             `gorm:"not null;default:0;check:rating BETWEEN 0 AND 5" json:"rating"`
	ReviewCount        int                 `gorm:"not null;default:0"                         json:"review_count"`
	OriginalPrice      decimal.NullDecimal `gorm:"type:decimal(12,2)"                         json:"original_price"`
	OfferValidUntil    *time.Time          `json:"offer_valid_until,omitempty"`
	Specifications     datatypes.JSONMap   `json:"specifications,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Product) TableName() string { return "products" }

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool { return p.StockQuantity > 0 }

// HasDiscount reports whether a discount applies.
func (p Product) HasDiscount() bool { return p.DiscountPercentage > 0 }

// DiscountedPrice is the price after the discount percentage, rounded to cents.
func (p Product) DiscountedPrice() decimal.Decimal {
	if !p.HasDiscount() {
		return p.Price
	}
	factor := decimal.NewFromInt(int64(100 - p.DiscountPercentage)).Div(decimal.NewFromInt(100))
	return p.Price.Mul(factor).Round(2)
}

// EffectiveOriginalPrice is the stored original price when positive;
// otherwise, with a discount below 100%, it is derived as
// price / (1 - discount/100). Without a discount it is the price itself.
func (p Product) EffectiveOriginalPrice() decimal.Decimal {
	if p.OriginalPrice.Valid && p.OriginalPrice.Decimal.IsPositive() {
		return p.OriginalPrice.Decimal
	}
	if p.DiscountPercentage > 0 && p.DiscountPercentage < 100 {
		factor := decimal.NewFromInt(int64(100 - p.DiscountPercentage)).Div(decimal.NewFromInt(100))
		return p.Price.Div(factor).Round(2)
	}
	return p.Price
}

// OfferDeadline is the stored offer end, or now + OfferWindow for display.
// The derived value is never written back.
func (p Product) OfferDeadline(now time.Time) time.Time {
	if p.OfferValidUntil != nil {
		return *p.OfferValidUntil
	}
	return now.Add(OfferWindow)
}

// FormatOfferDeadline renders OfferDeadline the way offer banners show it.
func (p Product) FormatOfferDeadline(now time.Time) string {
	return p.OfferDeadline(now).Format("January 02, 2006")
}
