package repositories

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/dao"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// ProductRepository serves the catalogue.
type ProductRepository struct {
	base
	dao dao.ProductDAO
}

func NewProductRepository(d dao.ProductDAO, pool *workerpool.Pool, hub *live.Hub) *ProductRepository {
	return &ProductRepository{base: newBase("products", pool, hub), dao: d}
}

// ─── Writes ───────────────────────────────────────────────────────────────────

func (r *ProductRepository) Insert(ctx context.Context, p models.Product) *workerpool.Done {
	return exec(&r.base, "insert", func() error { return r.dao.Insert(ctx, &p) })
}

func (r *ProductRepository) InsertAll(ctx context.Context, ps []models.Product) *workerpool.Done {
	return exec(&r.base, "insert_all", func() error { return r.dao.InsertAll(ctx, ps) })
}

func (r *ProductRepository) Update(ctx context.Context, p models.Product) *workerpool.Done {
	return exec(&r.base, "update", func() error { return r.dao.Update(ctx, &p) })
}

func (r *ProductRepository) Delete(ctx context.Context, id string) *workerpool.Done {
	return exec(&r.base, "delete", func() error { return r.dao.Delete(ctx, id) })
}

func (r *ProductRepository) DeleteAll(ctx context.Context) *workerpool.Done {
	return exec(&r.base, "delete_all", func() error { return r.dao.DeleteAll(ctx) })
}

func (r *ProductRepository) SetStock(ctx context.Context, id string, qty int) *workerpool.Done {
	return exec(&r.base, "set_stock", func() error { return r.dao.SetStock(ctx, id, qty) })
}

func (r *ProductRepository) IncrementStock(ctx context.Context, id string, k int) *workerpool.Done {
	return exec(&r.base, "increment_stock", func() error { return r.dao.IncrementStock(ctx, id, k) })
}

// DecrementStock fails with dao.ErrInsufficientStock rather than going below
// zero.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, k int) *workerpool.Done {
	return exec(&r.base, "decrement_stock", func() error { return r.dao.DecrementStock(ctx, id, k) })
}

func (r *ProductRepository) UpdateDiscount(ctx context.Context, id string, pct int) *workerpool.Done {
	return exec(&r.base, "update_discount", func() error { return r.dao.UpdateDiscount(ctx, id, pct) })
}

// Count is a one-shot read on the pool.
func (r *ProductRepository) Count(ctx context.Context) *workerpool.Future[int64] {
	return submit(&r.base, "count", func() (int64, error) { return r.dao.Count(ctx) })
}

// ─── Streams ──────────────────────────────────────────────────────────────────

func (r *ProductRepository) All() live.Stream[[]models.Product] {
	return query(&r.base, r.dao.All, tProducts)
}

// Get emits nil while the product does not exist.
func (r *ProductRepository) Get(id string) live.Stream[*models.Product] {
	return optional(&r.base, func(ctx context.Context) (models.Product, error) {
		return r.dao.Get(ctx, id)
	}, tProducts)
}

func (r *ProductRepository) ByCategory(categoryID string) live.Stream[[]models.Product] {
	return query(&r.base, func(ctx context.Context) ([]models.Product, error) {
		return r.dao.ByCategory(ctx, categoryID)
	}, tProducts)
}

func (r *ProductRepository) ByCategoryWithLimit(categoryID, q string, limit int) live.Stream[[]models.Product] {
	return query(&r.base, func(ctx context.Context) ([]models.Product, error) {
		return r.dao.ByCategoryWithLimit(ctx, categoryID, q, limit)
	}, tProducts)
}

func (r *ProductRepository) Featured(limit int) live.Stream[[]models.Product] {
	return query(&r.base, func(ctx context.Context) ([]models.Product, error) {
		return r.dao.Featured(ctx, limit)
	}, tProducts)
}

func (r *ProductRepository) TopRated(limit int) live.Stream[[]models.Product] {
	return query(&r.base, func(ctx context.Context) ([]models.Product, error) {
		return r.dao.TopRated(ctx, limit)
	}, tProducts)
}

func (r *ProductRepository) SpecialOffers(limit int) live.Stream[[]models.Product] {
	return query(&r.base, func(ctx context.Context) ([]models.Product, error) {
		return r.dao.SpecialOffers(ctx, limit)
	}, tProducts)
}

func (r *ProductRepository) Search(q string) live.Stream[[]models.Product] {
	return query(&r.base, func(ctx context.Context) ([]models.Product, error) {
		return r.dao.Search(ctx, q)
	}, tProducts)
}

func (r *ProductRepository) SearchInCategory(categoryID, q string) live.Stream[[]models.Product] {
	return query(&r.base, func(ctx context.Context) ([]models.Product, error) {
		return r.dao.SearchInCategory(ctx, categoryID, q)
	}, tProducts)
}

func (r *ProductRepository) SortedByPrice(ascending bool) live.Stream[[]models.Product] {
	return query(&r.base, func(ctx context.Context) ([]models.Product, error) {
		return r.dao.SortedByPrice(ctx, ascending)
	}, tProducts)
}

func (r *ProductRepository) InPriceRange(min, max decimal.Decimal) live.Stream[[]models.Product] {
	return query(&r.base, func(ctx context.Context) ([]models.Product, error) {
		return r.dao.InPriceRange(ctx, min, max)
	}, tProducts)
}

func (r *ProductRepository) IsInStock(id string) live.Stream[bool] {
	return query(&r.base, func(ctx context.Context) (bool, error) {
		return r.dao.IsInStock(ctx, id)
	}, tProducts)
}

func (r *ProductRepository) StockQuantity(id string) live.Stream[int] {
	return query(&r.base, func(ctx context.Context) (int, error) {
		n, err := r.dao.StockQuantity(ctx, id)
		if errors.Is(err, dao.ErrNotFound) {
			return 0, nil
		}
		return n, err
	}, tProducts)
}
