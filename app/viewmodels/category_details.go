package viewmodels

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/live"
)

// SortOption orders the products of a category.
type SortOption string

const (
	SortNameAsc      SortOption = "NAME_ASC"
	SortNameDesc     SortOption = "NAME_DESC"
	SortPriceLowHigh SortOption = "PRICE_LOW_HIGH"
	SortPriceHighLow SortOption = "PRICE_HIGH_LOW"
	SortRating       SortOption = "RATING"
)

// less reports whether a sorts before b. Unknown options sort by rating.
func (o SortOption) less(a, b models.Product) bool {
	switch o {
	case SortNameAsc:
		return strings.Compare(a.Name, b.Name) < 0
	case SortNameDesc:
		return strings.Compare(a.Name, b.Name) > 0
	case SortPriceLowHigh:
		return a.Price.LessThan(b.Price)
	case SortPriceHighLow:
		return a.Price.GreaterThan(b.Price)
	default:
		return a.Rating > b.Rating
	}
}

// FilterAndSort applies the in-stock filter and the sort order to ps. The
// result is recomputed in full on every change.
func FilterAndSort(ps []models.Product, inStockOnly bool, sort SortOption) []models.Product {
	if inStockOnly {
		ps = collection.Filter(ps, models.Product.InStock)
	}
	return collection.SortBy(ps, sort.less)
}

// CategoryDetailsViewModel shows one category: its breadcrumb, its
// subcategories and its products.
type CategoryDetailsViewModel struct {
	Navigator
	form
	deps Deps

	id          *live.Value[string]
	inStockOnly *live.Value[bool]
	sort        *live.Value[SortOption]

	category      live.Stream[*models.Category]
	subcategories live.Stream[[]models.Category]
	path          live.Stream[[]models.Category]
	products      live.Stream[[]models.Product]
}

func NewCategoryDetailsViewModel(d Deps) *CategoryDetailsViewModel {
	vm := &CategoryDetailsViewModel{
		Navigator:   newNavigator(d.Poster),
		form:        newForm(d.Poster, "category_details"),
		deps:        d,
		id:          live.NewEmpty[string](d.Poster),
		inStockOnly: live.NewValue(d.Poster, false),
		sort:        live.NewValue(d.Poster, SortRating),
	}
	cats, products := d.Repos.Categories, d.Repos.Products

	vm.category = live.SwitchMap[string, *models.Category](vm.id, cats.Get)
	vm.subcategories = live.SwitchMap[string, []models.Category](vm.id, cats.ActiveSubcategories)
	vm.path = live.SwitchMap[string, []models.Category](vm.id, cats.Path)
	vm.products = live.Combine3(
		live.SwitchMap[string, []models.Product](vm.id, products.ByCategory),
		vm.inStockOnly,
		vm.sort,
		FilterAndSort,
	)
	return vm
}

// SetCategoryID selects the category every stream follows.
func (vm *CategoryDetailsViewModel) SetCategoryID(id string) { vm.id.Set(id) }

func (vm *CategoryDetailsViewModel) Category() live.Stream[*models.Category] { return vm.category }
func (vm *CategoryDetailsViewModel) Subcategories() live.Stream[[]models.Category] {
	return vm.subcategories
}
func (vm *CategoryDetailsViewModel) Breadcrumb() live.Stream[[]models.Category] { return vm.path }
func (vm *CategoryDetailsViewModel) Products() live.Stream[[]models.Product]    { return vm.products }
func (vm *CategoryDetailsViewModel) InStockOnly() live.Stream[bool]             { return vm.inStockOnly }
func (vm *CategoryDetailsViewModel) SortOption() live.Stream[SortOption]        { return vm.sort }

func (vm *CategoryDetailsViewModel) SetInStockOnly(v bool)      { vm.inStockOnly.Set(v) }
func (vm *CategoryDetailsViewModel) SetSortOption(o SortOption) { vm.sort.Set(o) }

func (vm *CategoryDetailsViewModel) AddToCart(ctx context.Context, p models.Product) {
	addOne(ctx, vm.deps, vm.form, p)
}

func (vm *CategoryDetailsViewModel) OpenProduct(p models.Product) {
	vm.navigate(ScreenProductDetails, map[string]string{"productId": p.ID})
}

func (vm *CategoryDetailsViewModel) OpenSubcategory(c models.Category) {
	vm.navigate(ScreenCategoryDetails, map[string]string{"categoryId": c.ID})
}
