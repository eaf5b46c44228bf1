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

// CartRepository serves the local cart.
type CartRepository struct {
	base
	dao dao.CartDAO
}

func NewCartRepository(d dao.CartDAO, pool *workerpool.Pool, hub *live.Hub) *CartRepository {
	return &CartRepository{base: newBase("cart", pool, hub), dao: d}
}

// ─── Writes ───────────────────────────────────────────────────────────────────

// AddToCart adds qty units at price. A product already in the cart grows by
// qty and keeps the price it was first added at.
func (r *CartRepository) AddToCart(ctx context.Context, productID string, qty int, price decimal.Decimal) *workerpool.Future[models.CartItem] {
	return submit(&r.base, "add", func() (models.CartItem, error) {
		return r.dao.AddOrMerge(ctx, productID, qty, price)
	})
}

func (r *CartRepository) Insert(ctx context.Context, item models.CartItem) *workerpool.Done {
	return exec(&r.base, "insert", func() error { return r.dao.Insert(ctx, &item) })
}

func (r *CartRepository) Update(ctx context.Context, item models.CartItem) *workerpool.Done {
	return exec(&r.base, "update", func() error { return r.dao.Update(ctx, &item) })
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, id uint, qty int) *workerpool.Done {
	return exec(&r.base, "update_quantity", func() error { return r.dao.UpdateQuantity(ctx, id, qty) })
}

func (r *CartRepository) Increase(ctx context.Context, id uint) *workerpool.Done {
	return exec(&r.base, "increase", func() error { return r.dao.IncrementQuantity(ctx, id) })
}

// IncreaseInStock fails with dao.ErrInsufficientStock once the line holds
// all of the product's stock.
func (r *CartRepository) IncreaseInStock(ctx context.Context, id uint) *workerpool.Done {
	return exec(&r.base, "increase", func() error { return r.dao.IncrementQuantityInStock(ctx, id) })
}

// Decrease fails with dao.ErrQuantityFloor at quantity 1.
func (r *CartRepository) Decrease(ctx context.Context, id uint) *workerpool.Done {
	return exec(&r.base, "decrease", func() error { return r.dao.DecrementQuantity(ctx, id) })
}

func (r *CartRepository) Remove(ctx context.Context, id uint) *workerpool.Done {
	return exec(&r.base, "remove", func() error { return r.dao.Delete(ctx, id) })
}

func (r *CartRepository) RemoveProduct(ctx context.Context, productID string) *workerpool.Done {
	return exec(&r.base, "remove_product", func() error { return r.dao.RemoveProduct(ctx, productID) })
}

func (r *CartRepository) Clear(ctx context.Context) *workerpool.Done {
	return exec(&r.base, "clear", func() error { return r.dao.Clear(ctx) })
}

// PruneOlderThan drops lines untouched for age and resolves to how many went.
func (r *CartRepository) PruneOlderThan(ctx context.Context, now time.Time, age time.Duration) *workerpool.Future[int64] {
	return submit(&r.base, "prune", func() (int64, error) {
		return r.dao.RemoveOlderThan(ctx, now.Add(-age))
	})
}

// ItemsWithProductsNow reads the joined cart once, in queue order.
func (r *CartRepository) ItemsWithProductsNow(ctx context.Context) *workerpool.Future[[]models.CartItemWithProduct] {
	return submit(&r.base, "items_now", func() ([]models.CartItemWithProduct, error) {
		return r.dao.ItemsWithProducts(ctx)
	})
}

// ─── Streams ──────────────────────────────────────────────────────────────────

func (r *CartRepository) Items() live.Stream[[]models.CartItem] {
	return query(&r.base, r.dao.All, tCart)
}

func (r *CartRepository) Get(id uint) live.Stream[*models.CartItem] {
	return optional(&r.base, func(ctx context.Context) (models.CartItem, error) {
		return r.dao.Get(ctx, id)
	}, tCart)
}

// ItemsWithProducts re-runs when either the cart or a product changes.
func (r *CartRepository) ItemsWithProducts() live.Stream[[]models.CartItemWithProduct] {
	return query(&r.base, r.dao.ItemsWithProducts, tCart, tProducts)
}

func (r *CartRepository) ItemCount() live.Stream[int64] {
	return query(&r.base, r.dao.ItemCount, tCart)
}

func (r *CartRepository) TotalQuantity() live.Stream[int] {
	return query(&r.base, r.dao.TotalQuantity, tCart)
}

func (r *CartRepository) Total() live.Stream[decimal.Decimal] {
	return query(&r.base, r.dao.Total, tCart)
}

func (r *CartRepository) QuantityForProduct(productID string) live.Stream[int] {
	return query(&r.base, func(ctx context.Context) (int, error) {
		return r.dao.QuantityForProduct(ctx, productID)
	}, tCart)
}

func (r *CartRepository) IsProductInCart(productID string) live.Stream[bool] {
	return query(&r.base, func(ctx context.Context) (bool, error) {
		return r.dao.IsProductInCart(ctx, productID)
	}, tCart)
}

func (r *CartRepository) ByAddedTime() live.Stream[[]models.CartItem] {
	return query(&r.base, r.dao.ByAddedTime, tCart)
}

func (r *CartRepository) ByLastModified() live.Stream[[]models.CartItem] {
	return query(&r.base, r.dao.ByLastModified, tCart)
}
