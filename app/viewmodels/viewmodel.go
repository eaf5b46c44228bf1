// Package viewmodels holds per-screen state and actions.
//
// A screen reads streams (repository queries, often composed with live.Map,
// live.Combine2 or live.SwitchMap) and calls actions. Actions validate input
// on the caller's goroutine, hand writes to the repositories, and report the
// outcome through a ViewState, a message and a navigation command delivered
// on the UI poster.
//
// Every view-model is safe for concurrent use.
package viewmodels

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/crypt"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/session"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// Screen identifiers used in navigation commands.
const (
	ScreenHome              = "home"
	ScreenLogin             = "login"
	ScreenSignup            = "signup"
	ScreenCategories        = "categories"
	ScreenCategoryDetails   = "category_details"
	ScreenProductDetails    = "product_details"
	ScreenCart              = "cart"
	ScreenCheckout          = "checkout"
	ScreenOrderConfirmation = "order_confirmation"
	ScreenAccount           = "account"
)

// ViewState is the lifecycle of a form action.
type ViewState int

const (
	Idle ViewState = iota
	Loading
	Success
	Error
)

func (s ViewState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Loading:
		return "LOADING"
	case Success:
		return "SUCCESS"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

// NavCommand asks the screen layer to move to Screen.
type NavCommand struct {
	Screen string
	Args   map[string]string
}

// Deps is what view-models are built from. The composition root fills it
// once; tests fill it from a testkit.Env.
type Deps struct {
	Repos   *repositories.Set
	Session *session.Manager
	Hasher  crypt.Hasher
	Disk    storage.Disk
	Poster  workerpool.Poster
	Pricing PricingPolicy
	Now     func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d Deps) hasher() crypt.Hasher {
	if d.Hasher == nil {
		return crypt.Default
	}
	return d.Hasher
}

// ─── shared state holders ─────────────────────────────────────────────────────

// Navigator publishes navigation commands. A nil command means "stay".
type Navigator struct {
	nav *live.Value[*NavCommand]
}

func newNavigator(p live.Poster) Navigator {
	return Navigator{nav: live.NewValue[*NavCommand](p, nil)}
}

// Navigation emits the pending command.
func (n Navigator) Navigation() live.Stream[*NavCommand] { return n.nav }

// ConsumeNavigation is called by the screen once it has navigated.
func (n Navigator) ConsumeNavigation() { n.nav.Set(nil) }

func (n Navigator) navigate(screen string, args map[string]string) {
	n.nav.Set(&NavCommand{Screen: screen, Args: args})
}

// form carries the state and message of a screen with actions.
type form struct {
	state   *live.Value[ViewState]
	message *live.Value[string]
	log     *slog.Logger
}

func newForm(p live.Poster, name string) form {
	return form{
		state:   live.NewValue(p, Idle),
		message: live.NewValue(p, ""),
		log:     logger.With("component", "viewmodels", "screen", name),
	}
}

// State emits the action lifecycle.
func (f form) State() live.Stream[ViewState] { return f.state }

// Message emits short user-facing text. Empty means nothing to show.
func (f form) Message() live.Stream[string] { return f.message }

// ConsumeMessage is called once the message has been shown.
func (f form) ConsumeMessage() { f.message.Set("") }

// busy reports whether an action is running. Actions check it before
// validating so a rejected second submit cannot flip a running action to
// Error.
func (f form) busy() bool { return f.state.Get() == Loading }

// begin moves to Loading. It reports false when an action is already
// running, so a second tap does nothing.
func (f form) begin() bool {
	started := false
	f.state.Update(func(s ViewState) ViewState {
		if s == Loading {
			return s
		}
		started = true
		return Loading
	})
	if started {
		f.message.Set("")
	}
	return started
}

func (f form) succeed() { f.state.Set(Success) }

// fail leaves Loading before the message shows, so a screen reacting to the
// message can submit again.
func (f form) fail(msg string) {
	f.state.Set(Error)
	f.message.Set(msg)
}

// notify shows msg without touching the state.
func (f form) notify(msg string) { f.message.Set(msg) }

// reset returns to Idle, used when an action ends by navigating elsewhere.
func (f form) reset() { f.state.Set(Idle) }

func formatID(id uint) string { return strconv.FormatUint(uint64(id), 10) }

// parseID reads a numeric navigation argument; anything else is 0.
func parseID(s string) uint {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}
