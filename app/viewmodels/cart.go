package viewmodels

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/dao"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/session"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

const (
	msgMaxQuantity = "Maximum available quantity reached"
	msgMinQuantity = "Minimum quantity is 1"
	msgCartEmpty   = "Your cart is empty"
	msgCartFailed  = "Could not update your cart"
)

// CartViewModel is the cart screen.
type CartViewModel struct {
	Navigator
	form
	deps Deps

	items live.Stream[[]models.CartItemWithProduct]
	total live.Stream[decimal.Decimal]
	count live.Stream[int64]
}

func NewCartViewModel(d Deps) *CartViewModel {
	items := d.Repos.Cart.ItemsWithProducts()
	return &CartViewModel{
		Navigator: newNavigator(d.Poster),
		form:      newForm(d.Poster, "cart"),
		deps:      d,
		items:     items,
		total:     live.Map(items, cartTotal),
		count:     d.Repos.Cart.ItemCount(),
	}
}

func (vm *CartViewModel) Items() live.Stream[[]models.CartItemWithProduct] { return vm.items }

// Total is Σ quantity × snapshot price, recomputed on every item change.
func (vm *CartViewModel) Total() live.Stream[decimal.Decimal] { return vm.total }

func (vm *CartViewModel) Count() live.Stream[int64] { return vm.count }

// Increase adds one unit unless the line already holds all the stock. The
// store applies the step to the current quantity, so taps made before the
// list refreshes all count.
func (vm *CartViewModel) Increase(ctx context.Context, row models.CartItemWithProduct) {
	if !row.CanIncrease() {
		vm.notify(msgMaxQuantity)
		return
	}
	vm.report(vm.deps.Repos.Cart.IncreaseInStock(ctx, row.Item.ID))
}

// Decrease removes one unit; a line never drops below 1.
func (vm *CartViewModel) Decrease(ctx context.Context, row models.CartItemWithProduct) {
	if !row.CanDecrease() {
		vm.notify(msgMinQuantity)
		return
	}
	vm.report(vm.deps.Repos.Cart.Decrease(ctx, row.Item.ID))
}

func (vm *CartViewModel) Remove(ctx context.Context, row models.CartItemWithProduct) {
	vm.report(vm.deps.Repos.Cart.Remove(ctx, row.Item.ID))
}

func (vm *CartViewModel) Clear(ctx context.Context) {
	vm.report(vm.deps.Repos.Cart.Clear(ctx))
}

func (vm *CartViewModel) report(f *workerpool.Done) {
	f.OnComplete(vm.deps.Poster, func(_ struct{}, err error) {
		switch {
		case errors.Is(err, dao.ErrInsufficientStock):
			vm.notify(msgMaxQuantity)
		case errors.Is(err, dao.ErrQuantityFloor), errors.Is(err, dao.ErrInvalidQuantity):
			vm.notify(msgMinQuantity)
		case err != nil:
			vm.notify(msgCartFailed)
		}
	})
}

func (vm *CartViewModel) OpenProduct(row models.CartItemWithProduct) {
	vm.navigate(ScreenProductDetails, map[string]string{"productId": row.Item.ProductID})
}

// ProceedToCheckout moves to checkout when the cart has items. Without a
// valid session it goes to login and checkout is remembered as the
// destination.
func (vm *CartViewModel) ProceedToCheckout(ctx context.Context) {
	vm.deps.Repos.Cart.ItemsWithProductsNow(ctx).OnComplete(vm.deps.Poster, func(rows []models.CartItemWithProduct, err error) {
		switch {
		case err != nil:
			vm.notify(msgCartFailed)
		case len(rows) == 0:
			vm.notify(msgCartEmpty)
		case !vm.deps.Session.RequireAuth(ctx, session.Destination{Screen: ScreenCheckout}):
			vm.navigate(ScreenLogin, nil)
		default:
			vm.navigate(ScreenCheckout, nil)
		}
	})
}
