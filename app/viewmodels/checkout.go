package viewmodels

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/session"
	"github.com/shashiranjanraj/storefront/pkg/validate"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

const (
	msgOrderFailed = "Could not place your order"
	msgSignInFirst = "Please sign in to place your order"
)

var errEmptyCart = errors.New("viewmodels: cart is empty")

// ShippingForm is the address block of the checkout screen.
type ShippingForm struct {
	FullName string `json:"full_name" validate:"required"`
	Street   string `json:"street"    validate:"required"`
	City     string `json:"city"      validate:"required"`
	Zip      string `json:"zip"       validate:"digits=5"`
}

var shippingMessages = validate.Messages{
	"full_name": "Please enter your full name",
	"street":    "Please enter your street address",
	"city":      "Please enter your city",
	"zip":       "Please enter a valid ZIP code",
}

// shippingFieldOrder is the order the screen reports problems in.
var shippingFieldOrder = []string{"full_name", "street", "city", "zip"}

// CheckoutViewModel collects the shipping form and turns the cart into an
// order.
type CheckoutViewModel struct {
	Navigator
	form
	deps Deps

	shipping *live.Value[ShippingForm]
	payment  *live.Value[models.PaymentMethod]
	items    live.Stream[[]models.CartItemWithProduct]
	summary  live.Stream[Summary]
}

func NewCheckoutViewModel(d Deps) *CheckoutViewModel {
	items := d.Repos.Cart.ItemsWithProducts()
	policy := d.Pricing
	return &CheckoutViewModel{
		Navigator: newNavigator(d.Poster),
		form:      newForm(d.Poster, "checkout"),
		deps:      d,
		shipping:  live.NewValue(d.Poster, ShippingForm{}),
		payment:   live.NewValue(d.Poster, models.DefaultPaymentMethod),
		items:     items,
		summary: live.Map(items, func(rows []models.CartItemWithProduct) Summary {
			return Summarize(rows, policy)
		}),
	}
}

func (vm *CheckoutViewModel) Items() live.Stream[[]models.CartItemWithProduct] { return vm.items }

// Summary emits the money breakdown under the configured pricing policy.
func (vm *CheckoutViewModel) Summary() live.Stream[Summary] { return vm.summary }

func (vm *CheckoutViewModel) Shipping() live.Stream[ShippingForm]        { return vm.shipping }
func (vm *CheckoutViewModel) Payment() live.Stream[models.PaymentMethod] { return vm.payment }

func (vm *CheckoutViewModel) SetShipping(f ShippingForm) { vm.shipping.Set(f) }

// SetPaymentMethod ignores methods the store does not know.
func (vm *CheckoutViewModel) SetPaymentMethod(m models.PaymentMethod) {
	if m != models.PaymentCreditCard && m != models.PaymentOnDelivery {
		return
	}
	vm.payment.Set(m)
}

// PlaceOrder validates the shipping form, stores the order with one line
// per cart item, clears the cart and navigates to the confirmation screen.
// Nothing is written when the form is invalid or the cart is empty.
func (vm *CheckoutViewModel) PlaceOrder(ctx context.Context) {
	if vm.busy() {
		return
	}
	ship := vm.shipping.Get()
	if msg := validate.Struct(ship, shippingMessages).First(shippingFieldOrder...); msg != "" {
		vm.fail(msg)
		return
	}
	if !vm.deps.Session.RequireAuth(ctx, session.Destination{Screen: ScreenCheckout}) {
		vm.fail(msgSignInFirst)
		vm.navigate(ScreenLogin, nil)
		return
	}
	userID := vm.deps.Session.UserID(ctx)
	if userID == session.NoUser {
		vm.fail(msgSignInFirst)
		return
	}
	if !vm.begin() {
		return
	}

	policy := vm.deps.Pricing
	payment := vm.payment.Get()
	repos := vm.deps.Repos
	now := vm.deps.now()

	placed := workerpool.Then(repos.Cart.ItemsWithProductsNow(ctx), func(rows []models.CartItemWithProduct) (uint, error) {
		if len(rows) == 0 {
			return 0, errEmptyCart
		}
		order := models.Order{
			UserID:         uint(userID),
			OrderDate:      now,
			Status:         models.OrderPending,
			TotalAmount:    Summarize(rows, policy).Total,
			ShippingName:   ship.FullName,
			ShippingStreet: ship.Street,
			ShippingCity:   ship.City,
			ShippingZip:    ship.Zip,
			PaymentMethod:  payment,
		}
		lines := collection.Map(rows, func(row models.CartItemWithProduct) models.OrderItem {
			return models.OrderItem{
				ProductID: row.Item.ProductID,
				Quantity:  row.Item.Quantity,
				Price:     policy.UnitPrice(row),
			}
		})
		id, err := repos.Orders.PlaceOrder(ctx, order, lines).Wait(ctx)
		if err != nil {
			return 0, err
		}
		if _, err := repos.Cart.Clear(ctx).Wait(ctx); err != nil {
			return id, err
		}
		return id, nil
	})

	placed.OnComplete(vm.deps.Poster, func(id uint, err error) {
		switch {
		case errors.Is(err, errEmptyCart):
			vm.fail(msgCartEmpty)
			return
		case err != nil && id == 0:
			vm.log.Error("place order failed", "err", err)
			vm.fail(msgOrderFailed)
			return
		case err != nil:
			// The order exists; only the cart clear failed.
			vm.log.Warn("cart not cleared after order", "order_id", id, "err", err)
		}
		metrics.OrdersPlaced.WithLabelValues(string(policy.orDefault())).Inc()
		vm.succeed()
		vm.navigate(ScreenOrderConfirmation, map[string]string{"orderId": formatID(id)})
	})
}
