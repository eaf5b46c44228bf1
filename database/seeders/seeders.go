// Package seeders fills an empty store with a sample catalogue.
//
// Each product line registers its catalogue from an init func in this
// package:
//
//	func init() {
//	    Register(repositories.FlavorComputer, computerCatalogue)
//	}
//
// Seed then writes the categories of the flavor, waits until they are
// committed and visible, and only then inserts the products that point at
// them.
package seeders

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// CatalogueFunc returns the sample products of a flavor.
type CatalogueFunc func() []models.Product

var (
	mu         sync.Mutex
	catalogues = map[string]CatalogueFunc{}
)

// Register makes fn the catalogue of flavor, replacing any earlier one.
func Register(flavor string, fn CatalogueFunc) {
	mu.Lock()
	defer mu.Unlock()
	catalogues[flavor] = fn
}

func catalogue(flavor string) (CatalogueFunc, bool) {
	mu.Lock()
	defer mu.Unlock()
	if flavor == "" {
		flavor = repositories.FlavorComputer
	}
	fn, ok := catalogues[flavor]
	return fn, ok
}

// Result reports what Seed wrote.
type Result struct {
	Categories int
	Products   int
	Skipped    bool
}

// Seed writes the categories and sample products of flavor. A store that
// already holds products is left untouched.
func Seed(ctx context.Context, repos *repositories.Set, flavor string) (Result, error) {
	log := logger.With("component", "seeders", "flavor", flavor)

	build, ok := catalogue(flavor)
	if !ok {
		return Result{}, fmt.Errorf("seeders: no catalogue for flavor %q", flavor)
	}
	want, err := repositories.DefaultCategories(flavor)
	if err != nil {
		return Result{}, err
	}

	existing, err := repos.Products.Count(ctx).Wait(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("seeders: count products: %w", err)
	}
	if existing > 0 {
		log.Info("seed skipped, products present", "products", existing)
		return Result{Skipped: true}, nil
	}

	if _, err := repos.Categories.InitializeDefaultCategories(ctx, flavor).Wait(ctx); err != nil {
		return Result{}, fmt.Errorf("seeders: categories: %w", err)
	}
	n, err := repos.Categories.Count(ctx).Wait(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("seeders: count categories: %w", err)
	}
	if n < int64(len(want)) {
		return Result{}, fmt.Errorf("seeders: %d of %d categories visible after commit", n, len(want))
	}

	products := build()
	if _, err := repos.Products.InsertAll(ctx, products).Wait(ctx); err != nil {
		return Result{}, fmt.Errorf("seeders: products: %w", err)
	}
	log.Info("seeded", "categories", len(want), "products", len(products))
	return Result{Categories: len(want), Products: len(products)}, nil
}

// ─── Catalogue helpers ────────────────────────────────────────────────────────

// productNS keys the sample product ids, so a re-seeded store gets the same
// ids back.
var productNS = uuid.NewSHA1(uuid.NameSpaceURL, []byte("storefront/products"))

type sample struct {
	category string
	name     string
	desc     string
	image    string
	price    string
	stock    int
	featured bool
	discount int
	rating   float64
	reviews  int
	specs    datatypes.JSONMap
}

func (s sample) product() models.Product {
	return models.Product{
		ID:                 uuid.NewSHA1(productNS, []byte(s.name)).String(),
		Name:               s.name,
		Description:        s.desc,
		ImageURL:           s.image,
		Price:              decimal.RequireFromString(s.price),
		StockQuantity:      s.stock,
		CategoryID:         s.category,
		IsFeatured:         s.featured,
		DiscountPercentage: s.discount,
		Rating:             s.rating,
		ReviewCount:        s.reviews,
		Specifications:     s.specs,
	}
}

func products(samples []sample) []models.Product {
	out := make([]models.Product, 0, len(samples))
	for _, s := range samples {
		out = append(out, s.product())
	}
	return out
}
