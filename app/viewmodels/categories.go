package viewmodels

import (
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/live"
)

// PreviewSize is how many products each category card shows.
const PreviewSize = 4

// CategoriesViewModel lists active categories, each with a product preview
// filtered by the search query.
type CategoriesViewModel struct {
	Navigator
	query *live.Value[string]
	items live.Stream[[]models.CategoryWithProducts]
}

func NewCategoriesViewModel(d Deps) *CategoriesViewModel {
	vm := &CategoriesViewModel{
		Navigator: newNavigator(d.Poster),
		query:     live.NewValue(d.Poster, ""),
	}

	type input struct {
		categories []models.Category
		query      string
	}
	inputs := live.Combine2(d.Repos.Categories.Active(), vm.query, func(cs []models.Category, q string) input {
		return input{categories: cs, query: q}
	})

	// Every change of the category list or the query swaps in a fresh set of
	// per-category preview queries; the old ones are dropped by SwitchMap.
	vm.items = live.SwitchMap(inputs, func(in input) live.Stream[[]models.CategoryWithProducts] {
		previews := collection.Map(in.categories, func(c models.Category) live.Stream[models.CategoryWithProducts] {
			return live.Map(d.Repos.Products.ByCategoryWithLimit(c.ID, in.query, PreviewSize), func(ps []models.Product) models.CategoryWithProducts {
				return models.CategoryWithProducts{Category: c, Products: ps}
			})
		})
		return live.CombineSlice(previews)
	})
	return vm
}

// CategoriesWithProducts emits the cards in category display order.
func (vm *CategoriesViewModel) CategoriesWithProducts() live.Stream[[]models.CategoryWithProducts] {
	return vm.items
}

func (vm *CategoriesViewModel) Query() live.Stream[string] { return vm.query }

func (vm *CategoriesViewModel) SetSearchQuery(q string) { vm.query.Set(q) }

func (vm *CategoriesViewModel) OpenCategory(c models.Category) {
	vm.navigate(ScreenCategoryDetails, map[string]string{"categoryId": c.ID})
}
