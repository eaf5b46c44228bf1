package viewmodels

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/live"
)

// Home screen list sizes.
const (
	FeaturedLimit      = 5
	PopularLimit       = 6
	SpecialOffersLimit = 10
)

const (
	msgAddedToCart = "Added to cart"
	msgOutOfStock  = "This product is out of stock"
	msgAddFailed   = "Could not add to cart"
)

// Offer is a discounted product dressed for the offers carousel.
type Offer struct {
	Product       models.Product
	Price         decimal.Decimal // after discount
	OriginalPrice decimal.Decimal
	Discount      int
	ValidUntil    string
}

// HomeViewModel is the landing screen.
type HomeViewModel struct {
	Navigator
	form
	deps Deps

	categories live.Stream[[]models.Category]
	featured   live.Stream[[]models.Product]
	popular    live.Stream[[]models.Product]
	offers     live.Stream[[]Offer]
	cartCount  live.Stream[int64]
}

func NewHomeViewModel(d Deps) *HomeViewModel {
	products := d.Repos.Products
	return &HomeViewModel{
		Navigator:  newNavigator(d.Poster),
		form:       newForm(d.Poster, "home"),
		deps:       d,
		categories: d.Repos.Categories.ActiveTopLevel(),
		featured:   products.Featured(FeaturedLimit),
		popular:    products.TopRated(PopularLimit),
		offers: live.Map(products.SpecialOffers(SpecialOffersLimit), func(ps []models.Product) []Offer {
			now := d.now()
			return collection.Map(ps, func(p models.Product) Offer {
				return Offer{
					Product:       p,
					Price:         p.DiscountedPrice(),
					OriginalPrice: p.EffectiveOriginalPrice(),
					Discount:      p.DiscountPercentage,
					ValidUntil:    p.FormatOfferDeadline(now),
				}
			})
		}),
		cartCount: d.Repos.Cart.ItemCount(),
	}
}

func (vm *HomeViewModel) Categories() live.Stream[[]models.Category] { return vm.categories }
func (vm *HomeViewModel) Featured() live.Stream[[]models.Product]    { return vm.featured }
func (vm *HomeViewModel) Popular() live.Stream[[]models.Product]     { return vm.popular }
func (vm *HomeViewModel) SpecialOffers() live.Stream[[]Offer]        { return vm.offers }
func (vm *HomeViewModel) CartCount() live.Stream[int64]              { return vm.cartCount }

// AddToCart adds one unit at the price currently shown, discount applied.
func (vm *HomeViewModel) AddToCart(ctx context.Context, p models.Product) {
	addOne(ctx, vm.deps, vm.form, p)
}

func (vm *HomeViewModel) OpenCategory(c models.Category) {
	vm.navigate(ScreenCategoryDetails, map[string]string{"categoryId": c.ID})
}

func (vm *HomeViewModel) OpenProduct(p models.Product) {
	vm.navigate(ScreenProductDetails, map[string]string{"productId": p.ID})
}

// addOne is the add-to-cart action shared by product listings.
func addOne(ctx context.Context, d Deps, f form, p models.Product) {
	if !p.InStock() {
		f.notify(msgOutOfStock)
		return
	}
	d.Repos.Cart.AddToCart(ctx, p.ID, 1, p.DiscountedPrice()).OnComplete(d.Poster, func(_ models.CartItem, err error) {
		if err != nil {
			f.notify(msgAddFailed)
			return
		}
		f.notify(msgAddedToCart)
	})
}
