package dao

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

// GormProductDAO implements ProductDAO.
type GormProductDAO struct {
	db *gorm.DB
}

func NewProductDAO(db *gorm.DB) *GormProductDAO {
	return &GormProductDAO{db: db}
}

func (d *GormProductDAO) q(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Model(&models.Product{})
}

func (d *GormProductDAO) Insert(ctx context.Context, p *models.Product) error {
	return upsert(d.db.WithContext(ctx), p)
}

func (d *GormProductDAO) InsertAll(ctx context.Context, ps []models.Product) error {
	if len(ps) == 0 {
		return nil
	}
	return upsert(d.db.WithContext(ctx), &ps)
}

func (d *GormProductDAO) Update(ctx context.Context, p *models.Product) error {
	return updateRow(d.db.WithContext(ctx), p, "created_at")
}

func (d *GormProductDAO) Delete(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (d *GormProductDAO) DeleteAll(ctx context.Context) error {
	return d.db.WithContext(ctx).Where("1 = 1").Delete(&models.Product{}).Error
}

func (d *GormProductDAO) Get(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := d.q(ctx).Where("id = ?", id).First(&p).Error
	return p, notFound(err)
}

func (d *GormProductDAO) All(ctx context.Context) ([]models.Product, error) {
	var ps []models.Product
	err := d.q(ctx).Order("name").Find(&ps).Error
	return ps, err
}

func (d *GormProductDAO) ByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	var ps []models.Product
	err := d.q(ctx).Where("category_id = ?", categoryID).Order("name").Find(&ps).Error
	return ps, err
}

// ByCategoryWithLimit is the preview query: up to limit products of one
// category matching query, ordered by name.
func (d *GormProductDAO) ByCategoryWithLimit(ctx context.Context, categoryID, query string, limit int) ([]models.Product, error) {
	var ps []models.Product
	err := matching(d.q(ctx).Where("category_id = ?", categoryID), query).
		Order("name ASC").
		Limit(limit).
		Find(&ps).Error
	return ps, err
}

// Featured returns featured products, most expensive first.
func (d *GormProductDAO) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	var ps []models.Product
	err := d.q(ctx).Where("is_featured = ?", true).Order("price DESC").Limit(limit).Find(&ps).Error
	return ps, err
}

func (d *GormProductDAO) TopRated(ctx context.Context, limit int) ([]models.Product, error) {
	var ps []models.Product
	err := d.q(ctx).Order("rating DESC").Order("review_count DESC").Limit(limit).Find(&ps).Error
	return ps, err
}

// SpecialOffers returns discounted products, biggest discount first.
func (d *GormProductDAO) SpecialOffers(ctx context.Context, limit int) ([]models.Product, error) {
	var ps []models.Product
	err := d.q(ctx).Where("discount_percentage > 0").
		Order("discount_percentage DESC").
		Limit(limit).
		Find(&ps).Error
	return ps, err
}

func (d *GormProductDAO) Search(ctx context.Context, query string) ([]models.Product, error) {
	var ps []models.Product
	err := matching(d.q(ctx), query).Order("name").Find(&ps).Error
	return ps, err
}

func (d *GormProductDAO) SearchInCategory(ctx context.Context, categoryID, query string) ([]models.Product, error) {
	var ps []models.Product
	err := matching(d.q(ctx).Where("category_id = ?", categoryID), query).Order("name").Find(&ps).Error
	return ps, err
}

func (d *GormProductDAO) SortedByPrice(ctx context.Context, ascending bool) ([]models.Product, error) {
	dir := "price DESC"
	if ascending {
		dir = "price ASC"
	}
	var ps []models.Product
	err := d.q(ctx).Order(dir).Find(&ps).Error
	return ps, err
}

func (d *GormProductDAO) InPriceRange(ctx context.Context, min, max decimal.Decimal) ([]models.Product, error) {
	var ps []models.Product
	err := d.q(ctx).Where("price BETWEEN ? AND ?", min, max).Order("price").Find(&ps).Error
	return ps, err
}

func (d *GormProductDAO) IsInStock(ctx context.Context, id string) (bool, error) {
	n, err := d.StockQuantity(ctx, id)
	return n > 0, err
}

func (d *GormProductDAO) StockQuantity(ctx context.Context, id string) (int, error) {
	var p models.Product
	err := d.q(ctx).Select("stock_quantity").Where("id = ?", id).First(&p).Error
	return p.StockQuantity, notFound(err)
}

func (d *GormProductDAO) SetStock(ctx context.Context, id string, qty int) error {
	if qty < 0 {
		return ErrInsufficientStock
	}
	return affected(d.q(ctx).Where("id = ?", id).Update("stock_quantity", qty))
}

// IncrementStock adds k units in one statement relative to the stored value.
func (d *GormProductDAO) IncrementStock(ctx context.Context, id string, k int) error {
	if k < 0 {
		return fmt.Errorf("dao: negative stock delta %d", k)
	}
	return affected(d.q(ctx).Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", k)))
}

// DecrementStock removes k units in one guarded statement; the stored value
// never drops below zero.
func (d *GormProductDAO) DecrementStock(ctx context.Context, id string, k int) error {
	if k < 0 {
		return fmt.Errorf("dao: negative stock delta %d", k)
	}
	res := d.q(ctx).Where("id = ? AND stock_quantity >= ?", id, k).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", k))
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

func (d *GormProductDAO) UpdateDiscount(ctx context.Context, id string, pct int) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("dao: discount %d out of range 0-100", pct)
	}
	return affected(d.q(ctx).Where("id = ?", id).Update("discount_percentage", pct))
}

func (d *GormProductDAO) Count(ctx context.Context) (int64, error) {
	var n int64
	err := d.q(ctx).Count(&n).Error
	return n, err
}

// matching narrows tx to products whose name or description contains query,
// ignoring case. The empty query matches everything.
func matching(tx *gorm.DB, query string) *gorm.DB {
	if query == "" {
		return tx
	}
	pat := likePattern(query)
	return tx.Where("(LOWER(name) LIKE LOWER(?) ESCAPE '"+likeEscape+"' OR LOWER(description) LIKE LOWER(?) ESCAPE '"+likeEscape+"')", pat, pat)
}
