// Package migrations registers every storefront table with the schema
// runner. Registration order is dependency order: a table is registered
// after every table it references.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/prefs"
)

func init() {
	migration.Register("categories", &models.Category{})
	migration.Register("products", &models.Product{})
	migration.Register("users", &models.User{})
	migration.Register("addresses", &models.Address{})
	migration.Register("cart_items", &models.CartItem{})
	migration.Register("orders", &models.Order{})
	migration.Register("order_items", &models.OrderItem{})
	migration.Register("preferences", &prefs.Preference{})
}

// Migrate brings db to version, recreating every table when the recorded
// version differs.
func Migrate(db *gorm.DB, version int) (migration.Result, error) {
	return migration.New(db, version).Run()
}
