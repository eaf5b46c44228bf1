package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/database"
)

// GormOrderDAO implements OrderDAO.
type GormOrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *GormOrderDAO {
	return &GormOrderDAO{db: db}
}

func (d *GormOrderDAO) q(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Model(&models.Order{})
}

func (d *GormOrderDAO) Insert(ctx context.Context, o *models.Order) error {
	prepareOrder(o, d.db.NowFunc())
	return upsert(d.db.WithContext(ctx), o)
}

func (d *GormOrderDAO) InsertItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return upsert(d.db.WithContext(ctx), &items)
}

// CreateWithItems stores o and its items in one transaction and returns the
// new order id. Either everything is stored or nothing is.
func (d *GormOrderDAO) CreateWithItems(ctx context.Context, o *models.Order, items []models.OrderItem) (uint, error) {
	prepareOrder(o, d.db.NowFunc())
	err := database.Transaction(d.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := upsert(tx, o); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].OrderID = o.ID
		}
		if err := upsert(tx, &items); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return o.ID, nil
}

// ForUser lists orders newest first.
func (d *GormOrderDAO) ForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := d.q(ctx).Where("user_id = ?", userID).Order("order_date DESC").Order("id DESC").Find(&orders).Error
	return orders, err
}

func (d *GormOrderDAO) Get(ctx context.Context, id uint) (models.Order, error) {
	var o models.Order
	err := d.q(ctx).Where("id = ?", id).First(&o).Error
	return o, notFound(err)
}

func (d *GormOrderDAO) Items(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := d.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&items).Error
	return items, err
}

func (d *GormOrderDAO) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("dao: unknown order status %q", status)
	}
	return affected(d.q(ctx).Where("id = ?", id).Update("status", status))
}

func (d *GormOrderDAO) CountForUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := d.q(ctx).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// InDateRange lists orders placed between from and to inclusive, newest
// first.
func (d *GormOrderDAO) InDateRange(ctx context.Context, userID uint, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := d.q(ctx).
		Where("user_id = ? AND order_date BETWEEN ? AND ?", userID, from.UTC(), to.UTC()).
		Order("order_date DESC").
		Find(&orders).Error
	return orders, err
}

func (d *GormOrderDAO) TotalSpent(ctx context.Context, userID uint) (decimal.Decimal, error) {
	return sumDecimal(d.q(ctx).Select("SUM(total_amount)").Where("user_id = ?", userID).Row())
}

// DeleteAllForUser removes the user's orders; their items follow by cascade.
func (d *GormOrderDAO) DeleteAllForUser(ctx context.Context, userID uint) error {
	return d.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Order{}).Error
}

func prepareOrder(o *models.Order, now time.Time) {
	if o.OrderDate.IsZero() {
		o.OrderDate = now
	}
	o.OrderDate = o.OrderDate.UTC()
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = models.DefaultPaymentMethod
	}
}
