package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/database"
)

// GormCartDAO implements CartDAO.
type GormCartDAO struct {
	db *gorm.DB
}

func NewCartDAO(db *gorm.DB) *GormCartDAO {
	return &GormCartDAO{db: db}
}

func (d *GormCartDAO) q(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Model(&models.CartItem{})
}

func (d *GormCartDAO) now() time.Time { return d.db.NowFunc() }

// Insert upserts item, stamping AddedAt and LastModifiedAt when unset.
func (d *GormCartDAO) Insert(ctx context.Context, item *models.CartItem) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	now := d.now()
	if item.AddedAt.IsZero() {
		item.AddedAt = now
	}
	if item.LastModifiedAt.IsZero() {
		item.LastModifiedAt = now
	}
	return upsert(d.db.WithContext(ctx), item)
}

func (d *GormCartDAO) Update(ctx context.Context, item *models.CartItem) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	item.LastModifiedAt = d.now()
	return updateRow(d.db.WithContext(ctx), item, "added_at")
}

func (d *GormCartDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Delete(&models.CartItem{}, id).Error
}

func (d *GormCartDAO) Clear(ctx context.Context) error {
	return d.db.WithContext(ctx).Where("1 = 1").Delete(&models.CartItem{}).Error
}

func (d *GormCartDAO) RemoveProduct(ctx context.Context, productID string) error {
	return d.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.CartItem{}).Error
}

func (d *GormCartDAO) All(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	err := d.q(ctx).Order("id").Find(&items).Error
	return items, err
}

func (d *GormCartDAO) Get(ctx context.Context, id uint) (models.CartItem, error) {
	var item models.CartItem
	err := d.q(ctx).Where("id = ?", id).First(&item).Error
	return item, notFound(err)
}

// ItemsWithProducts joins every cart line with its product, oldest line first.
func (d *GormCartDAO) ItemsWithProducts(ctx context.Context) ([]models.CartItemWithProduct, error) {
	var items []models.CartItem
	if err := d.q(ctx).Preload("Product").Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	out := make([]models.CartItemWithProduct, 0, len(items))
	for _, it := range items {
		row := models.CartItemWithProduct{Item: it}
		if it.Product != nil {
			row.Product = *it.Product
		}
		row.Item.Product = nil
		out = append(out, row)
	}
	return out, nil
}

func (d *GormCartDAO) ItemCount(ctx context.Context) (int64, error) {
	var n int64
	err := d.q(ctx).Count(&n).Error
	return n, err
}

func (d *GormCartDAO) TotalQuantity(ctx context.Context) (int, error) {
	var n int
	err := d.q(ctx).Select("COALESCE(SUM(quantity), 0)").Row().Scan(&n)
	return n, err
}

// Total is Σ quantity × PriceAtAddition. Current product prices play no part.
func (d *GormCartDAO) Total(ctx context.Context) (decimal.Decimal, error) {
	return sumDecimal(d.q(ctx).Select("SUM(quantity * price_at_addition)").Row())
}

func (d *GormCartDAO) QuantityForProduct(ctx context.Context, productID string) (int, error) {
	var n int
	err := d.q(ctx).Select("COALESCE(SUM(quantity), 0)").Where("product_id = ?", productID).Row().Scan(&n)
	return n, err
}

func (d *GormCartDAO) FindByProduct(ctx context.Context, productID string) (models.CartItem, error) {
	var item models.CartItem
	err := d.q(ctx).Where("product_id = ?", productID).Order("id").First(&item).Error
	return item, notFound(err)
}

// AddOrMerge adds qty of a product. An existing line for the product keeps
// its snapshot price and grows by qty; otherwise a new line is created at
// price.
func (d *GormCartDAO) AddOrMerge(ctx context.Context, productID string, qty int, price decimal.Decimal) (models.CartItem, error) {
	if qty < 1 {
		return models.CartItem{}, ErrInvalidQuantity
	}
	var out models.CartItem
	err := database.Transaction(d.db.WithContext(ctx), func(tx *gorm.DB) error {
		now := d.now()
		err := tx.Model(&models.CartItem{}).Where("product_id = ?", productID).Order("id").First(&out).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = models.CartItem{
				ProductID:       productID,
				Quantity:        qty,
				PriceAtAddition: price,
				AddedAt:         now,
				LastModifiedAt:  now,
			}
			return upsert(tx, &out)
		case err != nil:
			return err
		}

		out.Quantity += qty
		out.LastModifiedAt = now
		return tx.Model(&models.CartItem{}).Where("id = ?", out.ID).Updates(map[string]interface{}{
			"quantity":         gorm.Expr("quantity + ?", qty),
			"last_modified_at": now,
		}).Error
	})
	return out, err
}

// UpdateQuantity sets the quantity of a line. Quantities below 1 are rejected;
// removing a line is Delete.
func (d *GormCartDAO) UpdateQuantity(ctx context.Context, id uint, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	return affected(d.q(ctx).Where("id = ?", id).Updates(map[string]interface{}{
		"quantity":         qty,
		"last_modified_at": d.now(),
	}))
}

func (d *GormCartDAO) IncrementQuantity(ctx context.Context, id uint) error {
	return affected(d.q(ctx).Where("id = ?", id).Updates(map[string]interface{}{
		"quantity":         gorm.Expr("quantity + 1"),
		"last_modified_at": d.now(),
	}))
}

// IncrementQuantityInStock adds one unit only while the line stays within
// the product's current stock. The check and the write are one statement;
// a full line returns ErrInsufficientStock.
func (d *GormCartDAO) IncrementQuantityInStock(ctx context.Context, id uint) error {
	res := d.q(ctx).
		Where("id = ? AND quantity < (SELECT p.stock_quantity FROM products p WHERE p.id = cart_items.product_id)", id).
		Updates(map[string]interface{}{
			"quantity":         gorm.Expr("quantity + 1"),
			"last_modified_at": d.now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := d.Get(ctx, id); err != nil {
		return err
	}
	return ErrInsufficientStock
}

// DecrementQuantity lowers a line by one. A line at quantity 1 is left
// unchanged and ErrQuantityFloor is returned.
func (d *GormCartDAO) DecrementQuantity(ctx context.Context, id uint) error {
	res := d.q(ctx).Where("id = ? AND quantity > 1", id).Updates(map[string]interface{}{
		"quantity":         gorm.Expr("quantity - 1"),
		"last_modified_at": d.now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := d.Get(ctx, id); err != nil {
		return err
	}
	return ErrQuantityFloor
}

func (d *GormCartDAO) IsProductInCart(ctx context.Context, productID string) (bool, error) {
	var n int64
	err := d.q(ctx).Where("product_id = ?", productID).Limit(1).Count(&n).Error
	return n > 0, err
}

func (d *GormCartDAO) ByAddedTime(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	err := d.q(ctx).Order("added_at DESC").Find(&items).Error
	return items, err
}

func (d *GormCartDAO) ByLastModified(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	err := d.q(ctx).Order("last_modified_at DESC").Find(&items).Error
	return items, err
}

// RemoveOlderThan deletes lines not modified since cutoff and reports how
// many went.
func (d *GormCartDAO) RemoveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := d.db.WithContext(ctx).Where("last_modified_at < ?", cutoff.UTC()).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
