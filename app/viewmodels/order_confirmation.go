package viewmodels

import (
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/live"
)

// OrderConfirmationViewModel shows a placed order.
type OrderConfirmationViewModel struct {
	Navigator
	deps Deps

	id    *live.Value[uint]
	order live.Stream[*models.Order]
	items live.Stream[[]models.OrderItem]
}

func NewOrderConfirmationViewModel(d Deps) *OrderConfirmationViewModel {
	id := live.NewEmpty[uint](d.Poster)
	orders := d.Repos.Orders
	return &OrderConfirmationViewModel{
		Navigator: newNavigator(d.Poster),
		deps:      d,
		id:        id,
		order:     live.SwitchMap[uint, *models.Order](id, orders.Get),
		items:     live.SwitchMap[uint, []models.OrderItem](id, orders.Items),
	}
}

// SetOrderID takes the "orderId" navigation argument.
func (vm *OrderConfirmationViewModel) SetOrderID(arg string) { vm.id.Set(parseID(arg)) }

// Order emits nil until the order row is visible.
func (vm *OrderConfirmationViewModel) Order() live.Stream[*models.Order] { return vm.order }

func (vm *OrderConfirmationViewModel) Items() live.Stream[[]models.OrderItem] { return vm.items }

func (vm *OrderConfirmationViewModel) ContinueShopping() { vm.navigate(ScreenHome, nil) }
