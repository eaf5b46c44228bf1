package viewmodels_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	vm "github.com/shashiranjanraj/storefront/app/viewmodels"
	"github.com/shashiranjanraj/storefront/pkg/crypt"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/mainloop"
	"github.com/shashiranjanraj/storefront/pkg/prefs"
	"github.com/shashiranjanraj/storefront/pkg/session"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

const wait = 2 * time.Second

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctx  context.Context
	env  *testkit.Env
	sess *session.Manager
	deps vm.Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*wait)
	t.Cleanup(cancel)

	env := testkit.NewEnv(t)
	sess := session.New(ctx, prefs.NewMemory(), session.DefaultOptions())
	return &fixture{
		ctx:  ctx,
		env:  env,
		sess: sess,
		deps: vm.Deps{
			Repos:   env.Repos,
			Session: sess,
			Hasher:  crypt.Default,
			Poster:  mainloop.Immediate{},
			Pricing: vm.CartSnapshotPrice,
			Now:     func() time.Time { return fixedNow },
		},
	}
}

// signIn stores a user with password "secret1" and opens a session for it.
func (f *fixture) signIn(t *testing.T, email string) models.User {
	t.Helper()
	hash, err := crypt.Default.Hash("secret1")
	require.NoError(t, err)
	u := testkit.User(t, f.env.DB, email, hash)
	require.NoError(t, f.sess.CreateSession(f.ctx, u.ID, u.Email))
	return u
}

// catalogue stores category "c" with products "a" (stock 3) and "b".
func (f *fixture) catalogue(t *testing.T) {
	t.Helper()
	testkit.Category(t, f.env.DB, "c")
	testkit.Product(t, f.env.DB, models.Product{ID: "a", CategoryID: "c", StockQuantity: 3})
	testkit.Product(t, f.env.DB, models.Product{ID: "b", CategoryID: "c", StockQuantity: 10, Price: decimal.NewFromInt(5)})
}

func eventually[T any](t *testing.T, s live.Stream[T], ok func(T) bool) {
	t.Helper()
	c := live.Collect(s)
	defer c.Stop()
	require.Eventually(t, func() bool {
		v, has := c.Last()
		return has && ok(v)
	}, wait, 10*time.Millisecond)
}

func navigatedTo(t *testing.T, n live.Stream[*vm.NavCommand], screen string) *vm.NavCommand {
	t.Helper()
	var got *vm.NavCommand
	eventually(t, n, func(c *vm.NavCommand) bool {
		got = c
		return c != nil && c.Screen == screen
	})
	return got
}

func message(t *testing.T, s live.Stream[string], want string) {
	t.Helper()
	eventually(t, s, func(m string) bool { return m == want })
}

func state(t *testing.T, s live.Stream[vm.ViewState], want vm.ViewState) {
	t.Helper()
	eventually(t, s, func(v vm.ViewState) bool { return v == want })
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

func TestSignup_RejectsShortPassword(t *testing.T) {
	f := newFixture(t)
	auth := vm.NewAuthViewModel(f.deps)

	auth.Signup(f.ctx, vm.SignupForm{
		Name: "Ann", Email: "ann@example.com", Phone: "555", Password: "12345", Confirm: "12345",
	})

	state(t, auth.State(), vm.Error)
	eventually(t, auth.FieldErrors(), func(e validate.Errors) bool {
		return e["password"] == "Password must be at least 6 characters"
	})
	exists, err := f.env.DAO.Users.EmailExists(f.ctx, "ann@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSignup_ThenDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	auth := vm.NewAuthViewModel(f.deps)
	in := vm.SignupForm{Name: "Ann", Email: "ann@example.com", Phone: "555", Password: "secret1", Confirm: "secret1"}

	auth.Signup(f.ctx, in)
	nav := navigatedTo(t, auth.Navigation(), vm.ScreenLogin)
	assert.Equal(t, "ann@example.com", nav.Args["email"])

	again := vm.NewAuthViewModel(f.deps)
	again.Signup(f.ctx, in)
	message(t, again.Message(), "Email already registered")
}

func TestLogin_ReturnsToRememberedScreen(t *testing.T) {
	f := newFixture(t)
	hash, _ := crypt.Default.Hash("secret1")
	testkit.User(t, f.env.DB, "bob@example.com", hash)
	require.False(t, f.sess.RequireAuth(f.ctx, session.Destination{Screen: vm.ScreenCheckout}))

	auth := vm.NewAuthViewModel(f.deps)
	auth.Login(f.ctx, vm.LoginForm{Email: "bob@example.com", Password: "secret1"})

	navigatedTo(t, auth.Navigation(), vm.ScreenCheckout)
	assert.True(t, f.sess.HasValidSession(f.ctx))
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	hash, _ := crypt.Default.Hash("secret1")
	testkit.User(t, f.env.DB, "bob@example.com", hash)

	auth := vm.NewAuthViewModel(f.deps)
	auth.Login(f.ctx, vm.LoginForm{Email: "bob@example.com", Password: "nope"})

	message(t, auth.Message(), "Invalid email or password")
	assert.False(t, f.sess.HasValidSession(f.ctx))
}

func TestLogin_HashFailureAborts(t *testing.T) {
	f := newFixture(t)
	h := new(testkit.Hasher)
	h.On("Hash", "secret1").Return("", crypt.ErrHash)
	f.deps.Hasher = h

	auth := vm.NewAuthViewModel(f.deps)
	auth.Login(f.ctx, vm.LoginForm{Email: "bob@example.com", Password: "secret1"})

	message(t, auth.Message(), "Something went wrong. Please try again")
	h.AssertExpectations(t)
	assert.False(t, f.sess.HasValidSession(f.ctx))
}

func TestAuth_SubmitWhileLoadingIsIgnored(t *testing.T) {
	f := newFixture(t)
	started, release := make(chan struct{}), make(chan struct{})
	h := new(testkit.Hasher)
	h.On("Hash", "secret1").Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return("", crypt.ErrHash).Once()
	f.deps.Hasher = h

	auth := vm.NewAuthViewModel(f.deps)
	go auth.Login(f.ctx, vm.LoginForm{Email: "bob@example.com", Password: "secret1"})
	<-started
	state(t, auth.State(), vm.Loading)

	// An invalid second submit neither errors the running login nor shows
	// field errors.
	auth.Signup(f.ctx, vm.SignupForm{Email: "not-an-email"})
	auth.Login(f.ctx, vm.LoginForm{})
	state(t, auth.State(), vm.Loading)
	eventually(t, auth.FieldErrors(), func(e validate.Errors) bool { return len(e) == 0 })

	close(release)
	message(t, auth.Message(), "Something went wrong. Please try again")
	state(t, auth.State(), vm.Error)
	h.AssertExpectations(t)
}

// ─── Cart ─────────────────────────────────────────────────────────────────────

func TestCart_IncreaseBlockedAtStock(t *testing.T) {
	f := newFixture(t)
	f.catalogue(t)
	_, err := f.env.Repos.Cart.AddToCart(f.ctx, "a", 3, decimal.NewFromInt(10)).Wait(f.ctx)
	require.NoError(t, err)

	cart := vm.NewCartViewModel(f.deps)
	var row models.CartItemWithProduct
	eventually(t, cart.Items(), func(rows []models.CartItemWithProduct) bool {
		if len(rows) != 1 {
			return false
		}
		row = rows[0]
		return true
	})

	cart.Increase(f.ctx, row)
	message(t, cart.Message(), "Maximum available quantity reached")

	cart.Decrease(f.ctx, row)
	eventually(t, cart.Total(), func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(20)) })
}

func TestCart_RapidTapsAllCount(t *testing.T) {
	f := newFixture(t)
	f.catalogue(t)
	item, err := f.env.Repos.Cart.AddToCart(f.ctx, "a", 1, decimal.NewFromInt(10)).Wait(f.ctx)
	require.NoError(t, err)
	cart := vm.NewCartViewModel(f.deps)

	// Both taps use the same stale row, as two taps before a refresh would.
	stale := models.CartItemWithProduct{Item: item, Product: models.Product{ID: "a", StockQuantity: 3}}
	cart.Increase(f.ctx, stale)
	cart.Increase(f.ctx, stale)
	eventually(t, cart.Items(), func(rows []models.CartItemWithProduct) bool {
		return len(rows) == 1 && rows[0].Item.Quantity == 3
	})

	// A third stale tap passes the screen check but the store holds the line
	// at stock.
	cart.Increase(f.ctx, stale)
	message(t, cart.Message(), "Maximum available quantity reached")

	cart.Decrease(f.ctx, models.CartItemWithProduct{Item: models.CartItem{ID: item.ID, Quantity: 3}})
	cart.Decrease(f.ctx, models.CartItemWithProduct{Item: models.CartItem{ID: item.ID, Quantity: 3}})
	eventually(t, cart.Items(), func(rows []models.CartItemWithProduct) bool {
		return len(rows) == 1 && rows[0].Item.Quantity == 1
	})
}

func TestCart_DecreaseBlockedAtOne(t *testing.T) {
	f := newFixture(t)
	f.catalogue(t)
	item, err := f.env.Repos.Cart.AddToCart(f.ctx, "b", 1, decimal.NewFromInt(5)).Wait(f.ctx)
	require.NoError(t, err)

	cart := vm.NewCartViewModel(f.deps)
	cart.Decrease(f.ctx, models.CartItemWithProduct{Item: item})

	message(t, cart.Message(), "Minimum quantity is 1")
	got, err := f.env.DAO.Cart.Get(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
}

func TestCart_ProceedToCheckout(t *testing.T) {
	f := newFixture(t)
	f.catalogue(t)
	cart := vm.NewCartViewModel(f.deps)

	cart.ProceedToCheckout(f.ctx)
	message(t, cart.Message(), "Your cart is empty")

	_, err := f.env.Repos.Cart.AddToCart(f.ctx, "b", 1, decimal.NewFromInt(5)).Wait(f.ctx)
	require.NoError(t, err)

	cart.ProceedToCheckout(f.ctx)
	navigatedTo(t, cart.Navigation(), vm.ScreenLogin)
	dest, ok := f.sess.ConsumeReturnTo(f.ctx)
	require.True(t, ok)
	assert.Equal(t, vm.ScreenCheckout, dest.Screen)

	f.signIn(t, "eve@example.com")
	cart.ProceedToCheckout(f.ctx)
	navigatedTo(t, cart.Navigation(), vm.ScreenCheckout)
}

// ─── Checkout ─────────────────────────────────────────────────────────────────

var validShipping = vm.ShippingForm{FullName: "Eve", Street: "1 Main St", City: "Springfield", Zip: "12345"}

func TestCheckout_ValidationOrder(t *testing.T) {
	f := newFixture(t)
	co := vm.NewCheckoutViewModel(f.deps)

	cases := []struct {
		form vm.ShippingForm
		want string
	}{
		{vm.ShippingForm{}, "Please enter your full name"},
		{vm.ShippingForm{FullName: "Eve"}, "Please enter your street address"},
		{vm.ShippingForm{FullName: "Eve", Street: "1 Main St"}, "Please enter your city"},
		{vm.ShippingForm{FullName: "Eve", Street: "1 Main St", City: "X", Zip: "1234"}, "Please enter a valid ZIP code"},
		{vm.ShippingForm{FullName: "Eve", Street: "1 Main St", City: "X", Zip: "1234a"}, "Please enter a valid ZIP code"},
	}
	for _, tc := range cases {
		co.SetShipping(tc.form)
		co.PlaceOrder(f.ctx)
		message(t, co.Message(), tc.want)
	}
}

func TestCheckout_SubmitWhileLoadingIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.catalogue(t)
	u := f.signIn(t, "eve@example.com")
	_, err := f.env.Repos.Cart.AddToCart(f.ctx, "a", 1, decimal.NewFromInt(10)).Wait(f.ctx)
	require.NoError(t, err)

	// Hold the single worker so the first order stays in flight.
	release := make(chan struct{})
	require.NoError(t, f.env.Pool.Submit(func() { <-release }))

	co := vm.NewCheckoutViewModel(f.deps)
	co.SetShipping(validShipping)
	co.PlaceOrder(f.ctx)
	state(t, co.State(), vm.Loading)

	co.SetShipping(vm.ShippingForm{})
	co.PlaceOrder(f.ctx)
	state(t, co.State(), vm.Loading)
	message(t, co.Message(), "")

	close(release)
	navigatedTo(t, co.Navigation(), vm.ScreenOrderConfirmation)
	state(t, co.State(), vm.Success)

	n, err := f.env.DAO.Orders.CountForUser(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCheckout_EmptyCartWritesNothing(t *testing.T) {
	f := newFixture(t)
	u := f.signIn(t, "eve@example.com")
	co := vm.NewCheckoutViewModel(f.deps)

	co.SetShipping(validShipping)
	co.PlaceOrder(f.ctx)

	message(t, co.Message(), "Your cart is empty")
	n, err := f.env.DAO.Orders.CountForUser(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCheckout_PlacesOrderUnderPolicy(t *testing.T) {
	for _, tc := range []struct {
		name      string
		policy    vm.PricingPolicy
		discount  int
		unitPrice string
		total     string
	}{
		// 2 × 10.00 snapshot: 20.00 + 1.60 + 19.99
		{"snapshot", vm.CartSnapshotPrice, 0, "10", "41.59"},
		// 2 × 12.00 live: 24.00 + 1.92 + 19.99
		{"live", vm.LiveProductPrice, 0, "12", "45.91"},
		// 2 × 9.00 live after 25% off 12.00: 18.00 + 1.44 + 19.99
		{"live discounted", vm.LiveProductPrice, 25, "9", "39.43"},
		// the snapshot ignores a discount added later
		{"snapshot discounted", vm.CartSnapshotPrice, 25, "10", "41.59"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.deps.Pricing = tc.policy
			f.catalogue(t)
			u := f.signIn(t, "eve@example.com")

			_, err := f.env.Repos.Cart.AddToCart(f.ctx, "a", 2, decimal.NewFromInt(10)).Wait(f.ctx)
			require.NoError(t, err)
			require.NoError(t, f.env.DAO.Products.Update(f.ctx, &models.Product{
				ID: "a", Name: "a", CategoryID: "c", StockQuantity: 3, Price: decimal.NewFromInt(12),
				DiscountPercentage: tc.discount,
			}))

			co := vm.NewCheckoutViewModel(f.deps)
			eventually(t, co.Summary(), func(s vm.Summary) bool {
				return s.Total.Equal(decimal.RequireFromString(tc.total))
			})

			co.SetPaymentMethod(models.PaymentOnDelivery)
			co.SetShipping(validShipping)
			co.PlaceOrder(f.ctx)

			nav := navigatedTo(t, co.Navigation(), vm.ScreenOrderConfirmation)
			require.NotEmpty(t, nav.Args["orderId"])

			orders, err := f.env.DAO.Orders.ForUser(f.ctx, u.ID)
			require.NoError(t, err)
			require.Len(t, orders, 1)
			o := orders[0]
			assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString(tc.total)), o.TotalAmount.String())
			assert.Equal(t, models.OrderPending, o.Status)
			assert.Equal(t, models.PaymentOnDelivery, o.PaymentMethod)
			assert.Equal(t, "12345", o.ShippingZip)

			items, err := f.env.DAO.Orders.Items(f.ctx, o.ID)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.True(t, items[0].Price.Equal(decimal.RequireFromString(tc.unitPrice)))

			n, err := f.env.DAO.Cart.ItemCount(f.ctx)
			require.NoError(t, err)
			assert.Zero(t, n)

			conf := vm.NewOrderConfirmationViewModel(f.deps)
			conf.SetOrderID(nav.Args["orderId"])
			eventually(t, conf.Order(), func(got *models.Order) bool { return got != nil && got.ID == o.ID })
			eventually(t, conf.Items(), func(got []models.OrderItem) bool { return len(got) == 1 })
		})
	}
}

func TestSummarize(t *testing.T) {
	rows := []models.CartItemWithProduct{
		{Item: models.CartItem{Quantity: 1, PriceAtAddition: decimal.RequireFromString("19.99")}},
		{Item: models.CartItem{Quantity: 3, PriceAtAddition: decimal.RequireFromString("0.33")}},
	}
	s := vm.Summarize(rows, vm.CartSnapshotPrice)
	assert.Equal(t, "20.98", s.Subtotal.StringFixed(2))
	assert.Equal(t, "1.68", s.Tax.StringFixed(2))
	assert.Equal(t, "19.99", s.Shipping.StringFixed(2))
	assert.Equal(t, "42.65", s.Total.StringFixed(2))

	empty := vm.Summarize(nil, vm.CartSnapshotPrice)
	assert.True(t, empty.Subtotal.IsZero())
	assert.Equal(t, "19.99", empty.Total.StringFixed(2))
}

func TestParsePricingPolicy(t *testing.T) {
	assert.Equal(t, vm.LiveProductPrice, vm.ParsePricingPolicy("live"))
	assert.Equal(t, vm.CartSnapshotPrice, vm.ParsePricingPolicy("cart"))
	assert.Equal(t, vm.CartSnapshotPrice, vm.ParsePricingPolicy("bogus"))
}

// ─── Catalogue screens ────────────────────────────────────────────────────────

func TestFilterAndSort(t *testing.T) {
	ps := []models.Product{
		{Name: "b", Price: decimal.NewFromInt(30), Rating: 4.1, StockQuantity: 1},
		{Name: "a", Price: decimal.NewFromInt(10), Rating: 4.9, StockQuantity: 0},
		{Name: "c", Price: decimal.NewFromInt(20), Rating: 3.0, StockQuantity: 5},
	}
	names := func(ps []models.Product) string {
		var b strings.Builder
		for _, p := range ps {
			b.WriteString(p.Name)
		}
		return b.String()
	}

	assert.Equal(t, "abc", names(vm.FilterAndSort(ps, false, vm.SortNameAsc)))
	assert.Equal(t, "cba", names(vm.FilterAndSort(ps, false, vm.SortNameDesc)))
	assert.Equal(t, "acb", names(vm.FilterAndSort(ps, false, vm.SortPriceLowHigh)))
	assert.Equal(t, "bca", names(vm.FilterAndSort(ps, false, vm.SortPriceHighLow)))
	assert.Equal(t, "abc", names(vm.FilterAndSort(ps, false, vm.SortRating)))
	assert.Equal(t, "bc", names(vm.FilterAndSort(ps, true, vm.SortRating)))
	assert.Equal(t, "bac", names(ps), "input order is untouched")
}

func TestCategories_PreviewsFollowQuery(t *testing.T) {
	f := newFixture(t)
	testkit.Category(t, f.env.DB, "cpu")
	testkit.Category(t, f.env.DB, "gpu")
	for _, id := range []string{"ryzen-5", "ryzen-7", "ryzen-9", "core-i5", "core-i9"} {
		testkit.Product(t, f.env.DB, models.Product{ID: id, CategoryID: "cpu", StockQuantity: 1})
	}
	testkit.Product(t, f.env.DB, models.Product{ID: "rtx-3080", CategoryID: "gpu", StockQuantity: 1})

	cats := vm.NewCategoriesViewModel(f.deps)
	sizes := func(cs []models.CategoryWithProducts) map[string]int {
		out := map[string]int{}
		for _, c := range cs {
			out[c.Category.ID] = len(c.Products)
		}
		return out
	}

	eventually(t, cats.CategoriesWithProducts(), func(cs []models.CategoryWithProducts) bool {
		s := sizes(cs)
		return len(cs) == 2 && s["cpu"] == vm.PreviewSize && s["gpu"] == 1
	})

	cats.SetSearchQuery("RYZEN")
	eventually(t, cats.CategoriesWithProducts(), func(cs []models.CategoryWithProducts) bool {
		s := sizes(cs)
		return len(cs) == 2 && s["cpu"] == 3 && s["gpu"] == 0
	})
}

func TestCategoryDetails_FiltersAndSorts(t *testing.T) {
	f := newFixture(t)
	testkit.Category(t, f.env.DB, "cpu")
	testkit.Subcategory(t, f.env.DB, "amd", "cpu")
	testkit.Product(t, f.env.DB, models.Product{ID: "x", CategoryID: "amd", StockQuantity: 0, Price: decimal.NewFromInt(5)})
	testkit.Product(t, f.env.DB, models.Product{ID: "y", CategoryID: "amd", StockQuantity: 2, Price: decimal.NewFromInt(50)})
	testkit.Product(t, f.env.DB, models.Product{ID: "z", CategoryID: "amd", StockQuantity: 2, Price: decimal.NewFromInt(20)})

	details := vm.NewCategoryDetailsViewModel(f.deps)
	details.SetCategoryID("amd")
	details.SetSortOption(vm.SortPriceLowHigh)

	eventually(t, details.Breadcrumb(), func(cs []models.Category) bool {
		return len(cs) == 2 && cs[0].ID == "cpu" && cs[1].ID == "amd"
	})
	eventually(t, details.Products(), func(ps []models.Product) bool {
		return len(ps) == 3 && ps[0].ID == "x" && ps[2].ID == "y"
	})

	details.SetInStockOnly(true)
	eventually(t, details.Products(), func(ps []models.Product) bool {
		return len(ps) == 2 && ps[0].ID == "z"
	})
}

func TestProductDetails_QuantityBoundedByStock(t *testing.T) {
	f := newFixture(t)
	f.catalogue(t)
	pd := vm.NewProductDetailsViewModel(f.deps)
	stop := pd.Product().Subscribe(func(*models.Product) {})
	defer stop()
	pd.SetProductID("a")
	eventually(t, pd.Product(), func(p *models.Product) bool { return p != nil && p.ID == "a" })

	pd.DecreaseQuantity()
	message(t, pd.Message(), "Minimum quantity is 1")

	for i := 0; i < 3; i++ {
		pd.IncreaseQuantity()
	}
	message(t, pd.Message(), "Maximum available quantity reached")
	eventually(t, pd.Quantity(), func(q int) bool { return q == 3 })

	pd.AddToCart(f.ctx)
	eventually(t, pd.QuantityInCart(), func(q int) bool { return q == 3 })
}

// ─── Account ──────────────────────────────────────────────────────────────────

func TestAccount_StreamsFollowSession(t *testing.T) {
	f := newFixture(t)
	acct := vm.NewAccountViewModel(f.deps)

	eventually(t, acct.User(), func(u *models.User) bool { return u == nil })

	u := f.signIn(t, "ann@example.com")
	eventually(t, acct.User(), func(got *models.User) bool { return got != nil && got.ID == u.ID })

	acct.Logout(f.ctx)
	navigatedTo(t, acct.Navigation(), vm.ScreenLogin)
	eventually(t, acct.User(), func(got *models.User) bool { return got == nil })
}

func TestAccount_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	acct := vm.NewAccountViewModel(f.deps)

	acct.UpdateProfile(f.ctx, vm.ProfileForm{Name: "Ann", Email: "ann@example.com", Phone: "1"})
	message(t, acct.Message(), "User data not available")

	u := f.signIn(t, "ann@example.com")
	acct.UpdateProfile(f.ctx, vm.ProfileForm{Name: "Ann", Email: "not-an-email", Phone: "1"})
	message(t, acct.Message(), "Invalid profile data")

	acct.UpdateProfile(f.ctx, vm.ProfileForm{Name: "Ann B", Email: "annb@example.com", Phone: "2"})
	state(t, acct.State(), vm.Success)
	assert.Equal(t, "annb@example.com", f.sess.Email(f.ctx))
	got, err := f.env.DAO.Users.Get(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann B", got.Name)
}

func TestAccount_ChangePassword(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ann@example.com")
	acct := vm.NewAccountViewModel(f.deps)

	acct.ChangePassword(f.ctx, vm.PasswordForm{Current: "wrong", New: "secret2", Confirm: "secret2"})
	message(t, acct.Message(), "Current password is incorrect")

	acct.ChangePassword(f.ctx, vm.PasswordForm{Current: "secret1", New: "secret2", Confirm: "secret2"})
	state(t, acct.State(), vm.Success)

	hash, _ := crypt.Default.Hash("secret2")
	_, err := f.env.DAO.Users.Login(f.ctx, "ann@example.com", hash)
	assert.NoError(t, err)
}

func TestAccount_Addresses(t *testing.T) {
	f := newFixture(t)
	acct := vm.NewAccountViewModel(f.deps)

	acct.SetDefaultAddress(f.ctx, 1)
	message(t, acct.Message(), "User not logged in")

	f.signIn(t, "ann@example.com")
	acct.AddAddress(f.ctx, vm.AddressForm{Street: "1 Main", City: "X", PostalCode: "123"})
	message(t, acct.Message(), "Postal code must be 5 digits")

	acct.AddAddress(f.ctx, vm.AddressForm{Street: "1 Main", City: "X", PostalCode: "12345"})
	state(t, acct.State(), vm.Success)
	acct.AddAddress(f.ctx, vm.AddressForm{Street: "2 Side", City: "Y", PostalCode: "54321"})
	state(t, acct.State(), vm.Success)

	var second models.Address
	eventually(t, acct.Addresses(), func(as []models.Address) bool {
		if len(as) != 2 {
			return false
		}
		second = as[1]
		return as[0].Street == "1 Main" && as[0].IsDefault
	})

	acct.SetDefaultAddress(f.ctx, second.ID)
	eventually(t, acct.Addresses(), func(as []models.Address) bool {
		return len(as) == 2 && as[0].ID == second.ID && as[0].IsDefault && !as[1].IsDefault
	})
}

func TestAccount_UploadProfilePicture(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ann@example.com")
	disk := new(testkit.Disk)
	disk.On("Put", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, "avatars/") && strings.HasSuffix(p, ".png")
	}), mock.Anything).Return(nil)
	disk.On("URL", mock.Anything).Return("https://cdn.example.com/avatar.png")
	f.deps.Disk = disk

	acct := vm.NewAccountViewModel(f.deps)
	acct.UploadProfilePicture(f.ctx, "Me.PNG", strings.NewReader("png-bytes"))

	eventually(t, acct.User(), func(got *models.User) bool {
		return got != nil && got.ProfilePicture == "https://cdn.example.com/avatar.png"
	})
	disk.AssertExpectations(t)

	failing := new(testkit.Disk)
	failing.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))
	f.deps.Disk = failing
	acct2 := vm.NewAccountViewModel(f.deps)
	acct2.UploadProfilePicture(f.ctx, "me.png", strings.NewReader("x"))
	message(t, acct2.Message(), "Could not upload picture")
}
