package viewmodels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/dao"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/session"
	"github.com/shashiranjanraj/storefront/pkg/validate"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

const (
	msgInvalidProfile  = "Invalid profile data"
	msgNoUserData      = "User data not available"
	msgInvalidPicture  = "Invalid profile picture"
	msgNotLoggedIn     = "User not logged in"
	msgWrongPassword   = "Current password is incorrect"
	msgInvalidAddress  = "Invalid address"
	msgProfileUpdated  = "Profile updated"
	msgPasswordChanged = "Password changed"
	msgUploadFailed    = "Could not upload picture"
)

// ProfileForm is the editable part of a user.
type ProfileForm struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"email"`
	Phone string `json:"phone" validate:"required"`
}

// PasswordForm changes the password of the signed-in user.
type PasswordForm struct {
	Current string `json:"current"  validate:"required"`
	New     string `json:"password" validate:"required,min=6"`
	Confirm string `json:"confirm"  validate:"same=password"`
}

// AddressForm adds a shipping address.
type AddressForm struct {
	Street     string `json:"street"      validate:"required"`
	City       string `json:"city"        validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" validate:"digits=5"`
	IsDefault  bool   `json:"is_default"`
}

var accountMessages = validate.Messages{
	"current":     "Current password is required",
	"password":    "Password must be at least 6 characters",
	"confirm":     "Passwords do not match",
	"street":      "Street is required",
	"city":        "City is required",
	"postal_code": "Postal code must be 5 digits",
}

// AccountViewModel is the signed-in user's profile, orders and addresses.
// Every stream follows the session: signing out empties them and signing
// in as someone else switches them over.
type AccountViewModel struct {
	Navigator
	form
	deps Deps

	user       live.Stream[*models.User]
	orders     live.Stream[[]models.Order]
	addresses  live.Stream[[]models.Address]
	totalSpent live.Stream[decimal.Decimal]
}

func NewAccountViewModel(d Deps) *AccountViewModel {
	ids := d.Session.UserIDs()
	r := d.Repos
	return &AccountViewModel{
		Navigator:  newNavigator(d.Poster),
		form:       newForm(d.Poster, "account"),
		deps:       d,
		user:       forUser(ids, (*models.User)(nil), r.Users.ByID),
		orders:     forUser(ids, []models.Order{}, r.Orders.ForUser),
		addresses:  forUser(ids, []models.Address{}, r.Addresses.ForUser),
		totalSpent: forUser(ids, decimal.Zero, r.Orders.TotalSpent),
	}
}

// forUser switches to query(id) for a signed-in user and to a constant
// empty value otherwise.
func forUser[T any](ids live.Stream[int64], empty T, query func(uint) live.Stream[T]) live.Stream[T] {
	return live.SwitchMap(ids, func(id int64) live.Stream[T] {
		if id == session.NoUser || id <= 0 {
			return live.Const(empty)
		}
		return query(uint(id))
	})
}

func (vm *AccountViewModel) User() live.Stream[*models.User]          { return vm.user }
func (vm *AccountViewModel) Orders() live.Stream[[]models.Order]      { return vm.orders }
func (vm *AccountViewModel) Addresses() live.Stream[[]models.Address] { return vm.addresses }
func (vm *AccountViewModel) TotalSpent() live.Stream[decimal.Decimal] { return vm.totalSpent }

// currentUser returns the signed-in user id, or false after reporting msg.
func (vm *AccountViewModel) currentUser(ctx context.Context, msg string) (uint, bool) {
	id := vm.deps.Session.UserID(ctx)
	if id == session.NoUser || id <= 0 {
		vm.fail(msg)
		return 0, false
	}
	return uint(id), true
}

// finish reports the outcome of a write. A nil error shows ok, if any.
func (vm *AccountViewModel) finish(f *workerpool.Done, ok string) {
	f.OnComplete(vm.deps.Poster, func(_ struct{}, err error) {
		if err != nil {
			vm.log.Warn("account update failed", "err", err)
			vm.fail(failureMessage(err))
			return
		}
		vm.succeed()
		if ok != "" {
			vm.notify(ok)
		}
	})
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, dao.ErrEmailTaken):
		return msgEmailTaken
	case errors.Is(err, dao.ErrWrongPassword):
		return msgWrongPassword
	case errors.Is(err, dao.ErrNotFound):
		return msgNoUserData
	}
	return msgTryAgain
}

// UpdateProfile saves name, email and phone. The session follows an email
// change once the row is written.
func (vm *AccountViewModel) UpdateProfile(ctx context.Context, in ProfileForm) {
	if vm.busy() {
		return
	}
	if validate.HasErrors(validate.Struct(in)) {
		vm.fail(msgInvalidProfile)
		return
	}
	id, ok := vm.currentUser(ctx, msgNoUserData)
	if !ok || !vm.begin() {
		return
	}
	saved := workerpool.Then(vm.deps.Repos.Users.UpdateProfile(ctx, id, in.Name, in.Email, in.Phone),
		func(struct{}) (struct{}, error) {
			return struct{}{}, vm.deps.Session.UpdateEmail(ctx, in.Email)
		})
	vm.finish(saved, msgProfileUpdated)
}

// UpdateProfilePicture stores uri as the user's picture reference.
func (vm *AccountViewModel) UpdateProfilePicture(ctx context.Context, uri string) {
	if vm.busy() {
		return
	}
	if strings.TrimSpace(uri) == "" {
		vm.fail(msgInvalidPicture)
		return
	}
	id, ok := vm.currentUser(ctx, msgNoUserData)
	if !ok || !vm.begin() {
		return
	}
	vm.finish(vm.deps.Repos.Users.UpdateProfilePicture(ctx, id, uri), "")
}

// UploadProfilePicture writes the image to the storage disk under a fresh
// name and points the profile at its URL.
func (vm *AccountViewModel) UploadProfilePicture(ctx context.Context, name string, r io.Reader) {
	if vm.busy() {
		return
	}
	if r == nil || vm.deps.Disk == nil {
		vm.fail(msgInvalidPicture)
		return
	}
	id, ok := vm.currentUser(ctx, msgNoUserData)
	if !ok || !vm.begin() {
		return
	}
	disk := vm.deps.Disk
	key := fmt.Sprintf("avatars/%d/%s%s", id, uuid.NewString(), strings.ToLower(path.Ext(name)))

	uploaded := workerpool.Async(func() (string, error) {
		if err := disk.Put(ctx, key, r); err != nil {
			return "", fmt.Errorf("upload %s: %w", key, err)
		}
		return disk.URL(key), nil
	})
	saved := workerpool.Then(uploaded, func(url string) (struct{}, error) {
		return vm.deps.Repos.Users.UpdateProfilePicture(ctx, id, url).Wait(ctx)
	})
	saved.OnComplete(vm.deps.Poster, func(_ struct{}, err error) {
		if err != nil {
			vm.log.Warn("profile picture upload failed", "key", key, "err", err)
			vm.fail(msgUploadFailed)
			return
		}
		vm.succeed()
	})
}

// ChangePassword replaces the password when Current matches the stored one.
func (vm *AccountViewModel) ChangePassword(ctx context.Context, in PasswordForm) {
	if vm.busy() {
		return
	}
	if msg := validate.Struct(in, accountMessages).First("current", "password", "confirm"); msg != "" {
		vm.fail(msg)
		return
	}
	id, ok := vm.currentUser(ctx, msgNotLoggedIn)
	if !ok {
		return
	}
	h := vm.deps.hasher()
	current, err := h.Hash(in.Current)
	if err != nil {
		vm.fail(msgTryAgain)
		return
	}
	next, err := h.Hash(in.New)
	if err != nil {
		vm.fail(msgTryAgain)
		return
	}
	if !vm.begin() {
		return
	}
	vm.finish(vm.deps.Repos.Users.ChangePassword(ctx, id, current, next), msgPasswordChanged)
}

// AddAddress stores a new address for the signed-in user. The first address
// becomes the default.
func (vm *AccountViewModel) AddAddress(ctx context.Context, in AddressForm) {
	if vm.busy() {
		return
	}
	if msg := validate.Struct(in, accountMessages).First("street", "city", "postal_code"); msg != "" {
		vm.fail(msg)
		return
	}
	id, ok := vm.currentUser(ctx, msgNotLoggedIn)
	if !ok || !vm.begin() {
		return
	}
	added := vm.deps.Repos.Addresses.Insert(ctx, models.Address{
		UserID:     id,
		Street:     in.Street,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		IsDefault:  in.IsDefault,
	})
	added.OnComplete(vm.deps.Poster, func(_ uint, err error) {
		if err != nil {
			vm.log.Warn("add address failed", "err", err)
			vm.fail(msgInvalidAddress)
			return
		}
		vm.succeed()
	})
}

func (vm *AccountViewModel) SetDefaultAddress(ctx context.Context, addressID uint) {
	if vm.busy() {
		return
	}
	id, ok := vm.currentUser(ctx, msgNotLoggedIn)
	if !ok || !vm.begin() {
		return
	}
	vm.finish(vm.deps.Repos.Addresses.SetDefault(ctx, id, addressID), "")
}

func (vm *AccountViewModel) DeleteAddress(ctx context.Context, addressID uint) {
	if vm.busy() {
		return
	}
	if _, ok := vm.currentUser(ctx, msgNotLoggedIn); !ok || !vm.begin() {
		return
	}
	vm.finish(vm.deps.Repos.Addresses.Delete(ctx, addressID), "")
}

func (vm *AccountViewModel) OpenOrder(o models.Order) {
	vm.navigate(ScreenOrderConfirmation, map[string]string{"orderId": formatID(o.ID)})
}

// Logout ends the session. The streams fall back to their empty values.
func (vm *AccountViewModel) Logout(ctx context.Context) {
	if err := vm.deps.Session.ClearSession(ctx); err != nil {
		vm.log.Error("clear session failed", "err", err)
	}
	vm.reset()
	vm.navigate(ScreenLogin, nil)
}
