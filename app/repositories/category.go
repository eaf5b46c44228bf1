package repositories

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/dao"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// Product lines the app ships in. Each has its own top-level catalogue.
const (
	FlavorComputer  = "computer"
	FlavorCosmetics = "cosmetics"
)

// CategoryRepository serves the category tree.
type CategoryRepository struct {
	base
	dao dao.CategoryDAO
}

func NewCategoryRepository(d dao.CategoryDAO, pool *workerpool.Pool, hub *live.Hub) *CategoryRepository {
	return &CategoryRepository{base: newBase("categories", pool, hub), dao: d}
}

// DefaultCategories is the catalogue of a product line.
func DefaultCategories(flavor string) ([]models.Category, error) {
	switch flavor {
	case FlavorComputer, "":
		return []models.Category{
			top("CPU", "Processors", "Central Processing Units", "ic_category_cpu", 1),
			top("GPU", "Graphics Cards", "Graphics Processing Units", "ic_category_gpu", 2),
			top("MB", "Motherboards", "Motherboards", "ic_category_motherboard", 3),
			top("RAM", "Memory", "RAM modules", "ic_category_memory", 4),
			top("STORAGE", "Storage", "Storage devices", "ic_category_storage", 5),
			top("PSU", "Power Supplies", "Power Supply Units", "ic_category_psu", 6),
			top("CASE", "Cases", "Computer Cases", "ic_category_case", 7),
			top("COOLING", "Cooling", "Cooling Systems", "ic_category_cooling", 8),
		}, nil
	case FlavorCosmetics:
		return []models.Category{
			top("FACE", "Face Products", "Foundation, Concealer, Blush, and more", "ic_category_face", 1),
			top("EYE", "Eye Products", "Eyeshadow, Mascara, Eyeliner, and more", "ic_category_eye", 2),
			top("LIP", "Lip Products", "Lipstick, Lip Gloss, Lip Liner, and more", "ic_category_lips", 3),
			top("SKINCARE", "Skin Care", "Moisturizers, Serums, Toners, and more", "ic_category_skincare", 4),
			top("TOOLS", "Tools & Accessories", "Brushes, Sponges, and other beauty tools", "ic_category_tools", 5),
		}, nil
	}
	return nil, fmt.Errorf("repositories: unknown store flavor %q", flavor)
}

func top(id, name, desc, icon string, order int) models.Category {
	return models.Category{
		ID:           id,
		Name:         name,
		Description:  desc,
		IconURL:      "@drawable/" + icon,
		DisplayOrder: order,
		IsActive:     true,
	}
}

// InitializeDefaultCategories upserts the catalogue of flavor. Running it
// again rewrites the same rows.
func (r *CategoryRepository) InitializeDefaultCategories(ctx context.Context, flavor string) *workerpool.Done {
	cs, err := DefaultCategories(flavor)
	if err != nil {
		return workerpool.Failed[struct{}](err)
	}
	return r.InsertAll(ctx, cs)
}

// ─── Writes ───────────────────────────────────────────────────────────────────

// Insert fails with dao.ErrCategoryCycle or dao.ErrParentNotFound for a bad
// parent link.
func (r *CategoryRepository) Insert(ctx context.Context, c models.Category) *workerpool.Done {
	return exec(&r.base, "insert", func() error { return r.dao.Insert(ctx, &c) })
}

func (r *CategoryRepository) InsertAll(ctx context.Context, cs []models.Category) *workerpool.Done {
	return exec(&r.base, "insert_all", func() error { return r.dao.InsertAll(ctx, cs) })
}

func (r *CategoryRepository) Update(ctx context.Context, c models.Category) *workerpool.Done {
	return exec(&r.base, "update", func() error { return r.dao.Update(ctx, &c) })
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) *workerpool.Done {
	return exec(&r.base, "delete", func() error { return r.dao.Delete(ctx, id) })
}

func (r *CategoryRepository) DeleteAll(ctx context.Context) *workerpool.Done {
	return exec(&r.base, "delete_all", func() error { return r.dao.DeleteAll(ctx) })
}

func (r *CategoryRepository) UpdateDisplayOrder(ctx context.Context, id string, order int) *workerpool.Done {
	return exec(&r.base, "update_display_order", func() error { return r.dao.UpdateDisplayOrder(ctx, id, order) })
}

// Count is a one-shot read on the pool. Because the pool runs in submission
// order, a Count queued after a write observes that write.
func (r *CategoryRepository) Count(ctx context.Context) *workerpool.Future[int64] {
	return submit(&r.base, "count", func() (int64, error) { return r.dao.Count(ctx) })
}

// PathNow is the ancestor chain of id read once, root first.
func (r *CategoryRepository) PathNow(ctx context.Context, id string) *workerpool.Future[[]models.Category] {
	return submit(&r.base, "path", func() ([]models.Category, error) { return r.dao.Path(ctx, id) })
}

// ─── Streams ──────────────────────────────────────────────────────────────────

func (r *CategoryRepository) All() live.Stream[[]models.Category] {
	return query(&r.base, r.dao.All, tCategories)
}

func (r *CategoryRepository) Get(id string) live.Stream[*models.Category] {
	return optional(&r.base, func(ctx context.Context) (models.Category, error) {
		return r.dao.Get(ctx, id)
	}, tCategories)
}

func (r *CategoryRepository) TopLevel() live.Stream[[]models.Category] {
	return query(&r.base, r.dao.TopLevel, tCategories)
}

func (r *CategoryRepository) Subcategories(parentID string) live.Stream[[]models.Category] {
	return query(&r.base, func(ctx context.Context) ([]models.Category, error) {
		return r.dao.Subcategories(ctx, parentID)
	}, tCategories)
}

func (r *CategoryRepository) Active() live.Stream[[]models.Category] {
	return query(&r.base, r.dao.Active, tCategories)
}

func (r *CategoryRepository) ActiveTopLevel() live.Stream[[]models.Category] {
	return query(&r.base, r.dao.ActiveTopLevel, tCategories)
}

func (r *CategoryRepository) ActiveSubcategories(parentID string) live.Stream[[]models.Category] {
	return query(&r.base, func(ctx context.Context) ([]models.Category, error) {
		return r.dao.ActiveSubcategories(ctx, parentID)
	}, tCategories)
}

// Path is the breadcrumb of id, root first.
func (r *CategoryRepository) Path(id string) live.Stream[[]models.Category] {
	return query(&r.base, func(ctx context.Context) ([]models.Category, error) {
		return r.dao.Path(ctx, id)
	}, tCategories)
}

func (r *CategoryRepository) SubcategoryCount(id string) live.Stream[int64] {
	return query(&r.base, func(ctx context.Context) (int64, error) {
		return r.dao.SubcategoryCount(ctx, id)
	}, tCategories)
}
