package repositories

import (
	"github.com/shashiranjanraj/storefront/app/dao"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// Set bundles the repositories sharing one pool and one hub.
type Set struct {
	Products   *ProductRepository
	Categories *CategoryRepository
	Cart       *CartRepository
	Users      *UserRepository
	Addresses  *AddressRepository
	Orders     *OrderRepository
}

// New builds every repository over daos.
func New(daos *dao.Set, pool *workerpool.Pool, hub *live.Hub) *Set {
	return &Set{
		Products:   NewProductRepository(daos.Products, pool, hub),
		Categories: NewCategoryRepository(daos.Categories, pool, hub),
		Cart:       NewCartRepository(daos.Cart, pool, hub),
		Users:      NewUserRepository(daos.Users, pool, hub),
		Addresses:  NewAddressRepository(daos.Addresses, pool, hub),
		Orders:     NewOrderRepository(daos.Orders, pool, hub),
	}
}

// Cleanup closes every repository. The pool itself belongs to the caller.
func (s *Set) Cleanup() {
	s.Products.Cleanup()
	s.Categories.Cleanup()
	s.Cart.Cleanup()
	s.Users.Cleanup()
	s.Addresses.Cleanup()
	s.Orders.Cleanup()
}
