// Package dao holds the data-access contracts of the store and their gorm
// implementations. A DAO runs typed queries and nothing else; business rules
// live in repositories and view-models.
//
// Every Insert is an upsert on the primary key. Writes never cascade into
// associations, so a Product carrying a loaded Category does not rewrite the
// category row.
package dao

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
)

// ProductDAO is the product catalogue.
type ProductDAO interface {
	Insert(ctx context.Context, p *models.Product) error
	InsertAll(ctx context.Context, ps []models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Get(ctx context.Context, id string) (models.Product, error)
	All(ctx context.Context) ([]models.Product, error)
	ByCategory(ctx context.Context, categoryID string) ([]models.Product, error)
	ByCategoryWithLimit(ctx context.Context, categoryID, query string, limit int) ([]models.Product, error)
	Featured(ctx context.Context, limit int) ([]models.Product, error)
	TopRated(ctx context.Context, limit int) ([]models.Product, error)
	SpecialOffers(ctx context.Context, limit int) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	SearchInCategory(ctx context.Context, categoryID, query string) ([]models.Product, error)
	SortedByPrice(ctx context.Context, ascending bool) ([]models.Product, error)
	InPriceRange(ctx context.Context, min, max decimal.Decimal) ([]models.Product, error)
	IsInStock(ctx context.Context, id string) (bool, error)
	StockQuantity(ctx context.Context, id string) (int, error)
	SetStock(ctx context.Context, id string, qty int) error
	IncrementStock(ctx context.Context, id string, k int) error
	DecrementStock(ctx context.Context, id string, k int) error
	UpdateDiscount(ctx context.Context, id string, pct int) error
	Count(ctx context.Context) (int64, error)
}

// CategoryDAO is the category hierarchy.
type CategoryDAO interface {
	Insert(ctx context.Context, c *models.Category) error
	InsertAll(ctx context.Context, cs []models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Get(ctx context.Context, id string) (models.Category, error)
	All(ctx context.Context) ([]models.Category, error)
	TopLevel(ctx context.Context) ([]models.Category, error)
	Subcategories(ctx context.Context, parentID string) ([]models.Category, error)
	Active(ctx context.Context) ([]models.Category, error)
	ActiveTopLevel(ctx context.Context) ([]models.Category, error)
	ActiveSubcategories(ctx context.Context, parentID string) ([]models.Category, error)
	Path(ctx context.Context, id string) ([]models.Category, error)
	SubcategoryCount(ctx context.Context, id string) (int64, error)
	UpdateDisplayOrder(ctx context.Context, id string, order int) error
	Count(ctx context.Context) (int64, error)
}

// CartDAO is the shopping cart.
type CartDAO interface {
	Insert(ctx context.Context, item *models.CartItem) error
	Update(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, id uint) error
	Clear(ctx context.Context) error
	RemoveProduct(ctx context.Context, productID string) error
	All(ctx context.Context) ([]models.CartItem, error)
	Get(ctx context.Context, id uint) (models.CartItem, error)
	ItemsWithProducts(ctx context.Context) ([]models.CartItemWithProduct, error)
	ItemCount(ctx context.Context) (int64, error)
	TotalQuantity(ctx context.Context) (int, error)
	Total(ctx context.Context) (decimal.Decimal, error)
	QuantityForProduct(ctx context.Context, productID string) (int, error)
	FindByProduct(ctx context.Context, productID string) (models.CartItem, error)
	AddOrMerge(ctx context.Context, productID string, qty int, price decimal.Decimal) (models.CartItem, error)
	UpdateQuantity(ctx context.Context, id uint, qty int) error
	IncrementQuantity(ctx context.Context, id uint) error
	IncrementQuantityInStock(ctx context.Context, id uint) error
	DecrementQuantity(ctx context.Context, id uint) error
	IsProductInCart(ctx context.Context, productID string) (bool, error)
	ByAddedTime(ctx context.Context) ([]models.CartItem, error)
	ByLastModified(ctx context.Context) ([]models.CartItem, error)
	RemoveOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// UserDAO is the user table.
type UserDAO interface {
	Insert(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Login(ctx context.Context, email, passwordHash string) (models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uint, name, email, phone string) error
	UpdateProfilePicture(ctx context.Context, id uint, path string) error
	UpdatePassword(ctx context.Context, id uint, currentHash, newHash string) error
}

// AddressDAO is the address book.
type AddressDAO interface {
	Insert(ctx context.Context, a *models.Address) error
	Update(ctx context.Context, a *models.Address) error
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (models.Address, error)
	ForUser(ctx context.Context, userID uint) ([]models.Address, error)
	Default(ctx context.Context, userID uint) (models.Address, error)
	SetDefault(ctx context.Context, userID, addressID uint) error
	DeleteAllForUser(ctx context.Context, userID uint) error
	CountForUser(ctx context.Context, userID uint) (int64, error)
}

// OrderDAO is the order history.
type OrderDAO interface {
	Insert(ctx context.Context, o *models.Order) error
	InsertItems(ctx context.Context, items []models.OrderItem) error
	CreateWithItems(ctx context.Context, o *models.Order, items []models.OrderItem) (uint, error)
	ForUser(ctx context.Context, userID uint) ([]models.Order, error)
	Get(ctx context.Context, id uint) (models.Order, error)
	Items(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error
	CountForUser(ctx context.Context, userID uint) (int64, error)
	InDateRange(ctx context.Context, userID uint, from, to time.Time) ([]models.Order, error)
	TotalSpent(ctx context.Context, userID uint) (decimal.Decimal, error)
	DeleteAllForUser(ctx context.Context, userID uint) error
}

// Set bundles one DAO per table over a shared handle.
type Set struct {
	Products   ProductDAO
	Categories CategoryDAO
	Cart       CartDAO
	Users      UserDAO
	Addresses  AddressDAO
	Orders     OrderDAO
}

// New builds the gorm DAOs over db.
func New(db *gorm.DB) *Set {
	return &Set{
		Products:   NewProductDAO(db),
		Categories: NewCategoryDAO(db),
		Cart:       NewCartDAO(db),
		Users:      NewUserDAO(db),
		Addresses:  NewAddressDAO(db),
		Orders:     NewOrderDAO(db),
	}
}

// ─── shared statements ────────────────────────────────────────────────────────

func upsert(db *gorm.DB, value interface{}) error {
	return db.Clauses(clause.OnConflict{UpdateAll: true}).
		Omit(clause.Associations).
		Create(value).Error
}

// updateRow writes every column of value by primary key. A missing row is
// ErrNotFound, not an insert.
func updateRow(db *gorm.DB, value interface{}, omit ...string) error {
	res := db.Model(value).
		Select("*").
		Omit(append(omit, clause.Associations)...).
		Updates(value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// affected turns a zero-row statement into ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// likeEscape is the LIKE escape character. '!' reads the same in SQLite,
// MySQL and Postgres string literals, unlike a backslash.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// likePattern matches q as a literal substring. Use it with
// "LIKE ? ESCAPE '!'".
func likePattern(q string) string { return "%" + likeEscaper.Replace(q) + "%" }

// sumDecimal scans a nullable SUM into a decimal rounded to cents.
func sumDecimal(row interface{ Scan(dest ...any) error }) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}
