package viewmodels

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/storefront/app/dao"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/validate"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgEmailTaken         = "Email already registered"
	msgEmailNotFound      = "Email not found"
	msgTryAgain           = "Something went wrong. Please try again"
)

// LoginForm is what the login screen submits.
type LoginForm struct {
	Email    string `json:"email"    validate:"email"`
	Password string `json:"password" validate:"required"`
}

// SignupForm is what the signup screen submits.
type SignupForm struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"email"`
	Phone    string `json:"phone"    validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Confirm  string `json:"confirm"  validate:"same=password"`
}

type resetForm struct {
	Email string `json:"email" validate:"email"`
}

var authMessages = validate.Messages{
	"name":              "Name is required",
	"email":             "Invalid email format",
	"phone":             "Phone number is required",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters",
	"confirm":           "Passwords do not match",
}

// AuthViewModel drives login, signup, password reset and logout.
type AuthViewModel struct {
	Navigator
	form
	deps        Deps
	fieldErrors *live.Value[validate.Errors]
}

func NewAuthViewModel(d Deps) *AuthViewModel {
	return &AuthViewModel{
		Navigator:   newNavigator(d.Poster),
		form:        newForm(d.Poster, "auth"),
		deps:        d,
		fieldErrors: live.NewValue(d.Poster, validate.Errors{}),
	}
}

// FieldErrors emits per-field validation messages keyed by json field name.
func (vm *AuthViewModel) FieldErrors() live.Stream[validate.Errors] { return vm.fieldErrors }

// check validates in and publishes its field errors. Invalid input never
// reaches a repository. A submit while an action runs is ignored.
func (vm *AuthViewModel) check(in interface{}) bool {
	if vm.busy() {
		return false
	}
	errs := validate.Struct(in, authMessages)
	vm.fieldErrors.Set(errs)
	if validate.HasErrors(errs) {
		vm.state.Set(Error)
		return false
	}
	return true
}

// hash digests a password. A failure aborts the action; the plaintext is
// never used in its place.
func (vm *AuthViewModel) hash(password string) (string, bool) {
	h, err := vm.deps.hasher().Hash(password)
	if err != nil {
		vm.log.Error("password hash failed", "err", err)
		vm.fail(msgTryAgain)
		return "", false
	}
	return h, true
}

// Login signs in and navigates to the remembered destination, or home.
func (vm *AuthViewModel) Login(ctx context.Context, in LoginForm) {
	if !vm.check(in) || !vm.begin() {
		return
	}
	hash, ok := vm.hash(in.Password)
	if !ok {
		return
	}

	vm.deps.Repos.Users.Authenticate(ctx, in.Email, hash).OnComplete(vm.deps.Poster, func(u models.User, err error) {
		switch {
		case errors.Is(err, dao.ErrNotFound):
			vm.fail(msgInvalidCredentials)
			return
		case err != nil:
			vm.fail(msgTryAgain)
			return
		}
		if err := vm.deps.Session.CreateSession(ctx, u.ID, u.Email); err != nil {
			vm.log.Error("create session failed", "err", err)
			vm.fail(msgTryAgain)
			return
		}
		vm.succeed()
		if dest, ok := vm.deps.Session.ConsumeReturnTo(ctx); ok {
			vm.navigate(dest.Screen, dest.Args)
			return
		}
		vm.navigate(ScreenHome, nil)
	})
}

// Signup registers a new account and sends the user to the login screen.
// A taken email is reported whether the pre-check or the unique index
// catches it.
func (vm *AuthViewModel) Signup(ctx context.Context, in SignupForm) {
	if !vm.check(in) || !vm.begin() {
		return
	}
	hash, ok := vm.hash(in.Password)
	if !ok {
		return
	}

	users := vm.deps.Repos.Users
	registered := workerpool.Then(users.EmailExists(ctx, in.Email), func(exists bool) (uint, error) {
		if exists {
			return 0, dao.ErrEmailTaken
		}
		return users.Register(ctx, models.User{
			Name:         in.Name,
			Email:        in.Email,
			Phone:        in.Phone,
			PasswordHash: hash,
		}).Wait(ctx)
	})

	registered.OnComplete(vm.deps.Poster, func(_ uint, err error) {
		switch {
		case errors.Is(err, dao.ErrEmailTaken):
			vm.fail(msgEmailTaken)
		case err != nil:
			vm.fail(msgTryAgain)
		default:
			vm.succeed()
			vm.navigate(ScreenLogin, map[string]string{"email": in.Email})
		}
	})
}

// ResetPassword only confirms that the account exists; no mail is sent.
func (vm *AuthViewModel) ResetPassword(ctx context.Context, email string) {
	if !vm.check(resetForm{Email: email}) || !vm.begin() {
		return
	}
	vm.deps.Repos.Users.EmailExists(ctx, email).OnComplete(vm.deps.Poster, func(exists bool, err error) {
		switch {
		case err != nil:
			vm.fail(msgTryAgain)
		case !exists:
			vm.fail(msgEmailNotFound)
		default:
			vm.succeed()
		}
	})
}

// Logout ends the session and returns to the login screen.
func (vm *AuthViewModel) Logout(ctx context.Context) {
	if err := vm.deps.Session.ClearSession(ctx); err != nil {
		vm.log.Error("clear session failed", "err", err)
	}
	vm.reset()
	vm.navigate(ScreenLogin, nil)
}
