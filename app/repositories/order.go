package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/dao"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// OrderRepository serves order history.
type OrderRepository struct {
	base
	dao dao.OrderDAO
}

func NewOrderRepository(d dao.OrderDAO, pool *workerpool.Pool, hub *live.Hub) *OrderRepository {
	return &OrderRepository{base: newBase("orders", pool, hub), dao: d}
}

// PlaceOrder stores o with its items atomically and resolves to the order id.
func (r *OrderRepository) PlaceOrder(ctx context.Context, o models.Order, items []models.OrderItem) *workerpool.Future[uint] {
	return submit(&r.base, "place", func() (uint, error) {
		return r.dao.CreateWithItems(ctx, &o, items)
	})
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) *workerpool.Done {
	return exec(&r.base, "update_status", func() error { return r.dao.UpdateStatus(ctx, id, status) })
}

func (r *OrderRepository) DeleteAllForUser(ctx context.Context, userID uint) *workerpool.Done {
	return exec(&r.base, "delete_all_for_user", func() error { return r.dao.DeleteAllForUser(ctx, userID) })
}

// ─── Streams ──────────────────────────────────────────────────────────────────

func (r *OrderRepository) ForUser(userID uint) live.Stream[[]models.Order] {
	return query(&r.base, func(ctx context.Context) ([]models.Order, error) {
		return r.dao.ForUser(ctx, userID)
	}, tOrders)
}

func (r *OrderRepository) Get(id uint) live.Stream[*models.Order] {
	return optional(&r.base, func(ctx context.Context) (models.Order, error) {
		return r.dao.Get(ctx, id)
	}, tOrders)
}

func (r *OrderRepository) Items(orderID uint) live.Stream[[]models.OrderItem] {
	return query(&r.base, func(ctx context.Context) ([]models.OrderItem, error) {
		return r.dao.Items(ctx, orderID)
	}, tOrderItems)
}

func (r *OrderRepository) Count(userID uint) live.Stream[int64] {
	return query(&r.base, func(ctx context.Context) (int64, error) {
		return r.dao.CountForUser(ctx, userID)
	}, tOrders)
}

func (r *OrderRepository) InDateRange(userID uint, from, to time.Time) live.Stream[[]models.Order] {
	return query(&r.base, func(ctx context.Context) ([]models.Order, error) {
		return r.dao.InDateRange(ctx, userID, from, to)
	}, tOrders)
}

func (r *OrderRepository) TotalSpent(userID uint) live.Stream[decimal.Decimal] {
	return query(&r.base, func(ctx context.Context) (decimal.Decimal, error) {
		return r.dao.TotalSpent(ctx, userID)
	}, tOrders)
}
