// Package testkit builds isolated stores, fixtures and doubles for package
// tests.
//
//	db := testkit.NewStore(t)
//	cat := testkit.Category(t, db, "CPU")
//	p := testkit.Product(t, db, models.Product{ID: "cpu-1", CategoryID: cat.ID})
package testkit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/event"
)

// SchemaVersion is the version test stores are built at.
const SchemaVersion = 1

// NewStore opens a private in-memory store with the full schema. It is closed
// when the test ends.
func NewStore(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err, "testkit: open store")
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = migrations.Migrate(db, SchemaVersion)
	require.NoError(t, err, "testkit: migrate")
	return db
}

// NewWatchedStore is NewStore with change notifications published on the
// returned bus.
func NewWatchedStore(t testing.TB) (*gorm.DB, *event.Bus) {
	t.Helper()
	db := NewStore(t)
	bus := event.New()
	require.NoError(t, database.Watch(db, bus), "testkit: watch")
	return db, bus
}

// ─── Fixtures ─────────────────────────────────────────────────────────────────

// Category stores an active top-level category named after id.
func Category(t testing.TB, db *gorm.DB, id string) models.Category {
	t.Helper()
	c := models.Category{ID: id, Name: id, IsActive: true}
	create(t, db, &c)
	return c
}

// Subcategory stores an active category under parent.
func Subcategory(t testing.TB, db *gorm.DB, id, parent string) models.Category {
	t.Helper()
	c := models.Category{ID: id, Name: id, IsActive: true, ParentCategoryID: &parent}
	create(t, db, &c)
	return c
}

// Product stores p, filling a name and a price of 10.00 when unset.
func Product(t testing.TB, db *gorm.DB, p models.Product) models.Product {
	t.Helper()
	if p.Name == "" {
		p.Name = p.ID
	}
	if p.Price.IsZero() {
		p.Price = decimal.NewFromInt(10)
	}
	create(t, db, &p)
	return p
}

// User stores a user with the given email and password hash.
func User(t testing.TB, db *gorm.DB, email, hash string) models.User {
	t.Helper()
	u := models.User{Name: "Test User", Email: email, Phone: "555-0100", PasswordHash: hash}
	create(t, db, &u)
	return u
}

func create(t testing.TB, db *gorm.DB, v interface{}) {
	t.Helper()
	require.NoError(t, db.Omit(clause.Associations).Create(v).Error, "testkit: fixture %T", v)
}
