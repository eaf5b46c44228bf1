package viewmodels

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/live"
)

// ProductDetailsViewModel shows one product with a quantity picker.
type ProductDetailsViewModel struct {
	Navigator
	form
	deps Deps

	id       *live.Value[string]
	quantity *live.Value[int]

	product   live.Stream[*models.Product]
	inCart    live.Stream[int]
	cartCount live.Stream[int64]
}

func NewProductDetailsViewModel(d Deps) *ProductDetailsViewModel {
	vm := &ProductDetailsViewModel{
		Navigator: newNavigator(d.Poster),
		form:      newForm(d.Poster, "product_details"),
		deps:      d,
		id:        live.NewEmpty[string](d.Poster),
		quantity:  live.NewValue(d.Poster, 1),
		cartCount: d.Repos.Cart.ItemCount(),
	}
	vm.product = live.SwitchMap[string, *models.Product](vm.id, d.Repos.Products.Get)
	vm.inCart = live.SwitchMap[string, int](vm.id, d.Repos.Cart.QuantityForProduct)
	return vm
}

// SetProductID selects the product and resets the picker to 1.
func (vm *ProductDetailsViewModel) SetProductID(id string) {
	vm.quantity.Set(1)
	vm.id.Set(id)
}

func (vm *ProductDetailsViewModel) Product() live.Stream[*models.Product] { return vm.product }
func (vm *ProductDetailsViewModel) Quantity() live.Stream[int]            { return vm.quantity }
func (vm *ProductDetailsViewModel) QuantityInCart() live.Stream[int]      { return vm.inCart }
func (vm *ProductDetailsViewModel) CartCount() live.Stream[int64]         { return vm.cartCount }

// IncreaseQuantity raises the picker by one, up to the stock on hand.
func (vm *ProductDetailsViewModel) IncreaseQuantity() {
	limit := 0
	if p, ok := vm.product.Value(); ok && p != nil {
		limit = p.StockQuantity
	}
	blocked := false
	vm.quantity.Update(func(q int) int {
		blocked = q+1 > limit
		if blocked {
			return q
		}
		return q + 1
	})
	if blocked {
		vm.notify(msgMaxQuantity)
	}
}

// DecreaseQuantity lowers the picker by one, never below 1.
func (vm *ProductDetailsViewModel) DecreaseQuantity() {
	blocked := false
	vm.quantity.Update(func(q int) int {
		blocked = q <= 1
		if blocked {
			return q
		}
		return q - 1
	})
	if blocked {
		vm.notify(msgMinQuantity)
	}
}

// AddToCart adds the picked quantity at the displayed price.
func (vm *ProductDetailsViewModel) AddToCart(ctx context.Context) {
	if vm.busy() {
		return
	}
	p, ok := vm.product.Value()
	if !ok || p == nil {
		vm.fail(msgAddFailed)
		return
	}
	if !p.InStock() {
		vm.notify(msgOutOfStock)
		return
	}
	if !vm.begin() {
		return
	}
	qty := vm.quantity.Get()
	vm.deps.Repos.Cart.AddToCart(ctx, p.ID, qty, p.DiscountedPrice()).OnComplete(vm.deps.Poster, func(_ models.CartItem, err error) {
		if err != nil {
			vm.fail(msgAddFailed)
			return
		}
		vm.notify(msgAddedToCart)
		vm.succeed()
	})
}

func (vm *ProductDetailsViewModel) OpenCart() { vm.navigate(ScreenCart, nil) }
