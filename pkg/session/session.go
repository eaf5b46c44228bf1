// Package session holds the process-wide authentication state.
//
// A Manager is built once by the composition root over a prefs.Store, so the
// session survives restarts whenever the store does. Expiry is activity
// based: every successful HasValidSession call pushes the deadline out again,
// and a check that finds the session idle for longer than the timeout clears
// it on the spot.
//
// Protected screens use the return-to protocol:
//
//	if !sess.RequireAuth(ctx, session.Destination{Screen: "checkout"}) {
//	    navigate("login")
//	}
//	// after a successful login:
//	if dest, ok := sess.ConsumeReturnTo(ctx); ok {
//	    navigate(dest.Screen, dest.Args)
//	}
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/prefs"
)

// Namespace is the prefs namespace the session lives in.
const Namespace = "user_session"

// NoUser is the user id stored when nobody is signed in.
const NoUser int64 = -1

// DefaultTimeout is the inactivity window.
const DefaultTimeout = 30 * time.Minute

const (
	keyUserID       = "user_id"
	keyEmail        = "email"
	keyLoggedIn     = "is_logged_in"
	keyLastActivity = "last_activity"
	keyReturnScreen = "return_to_screen"
	keyReturnArgs   = "return_to_args"
)

// Destination is a screen and its arguments.
type Destination struct {
	Screen string            `json:"screen"`
	Args   map[string]string `json:"args,omitempty"`
}

// ------------------- Options -------------------

// Options configures a Manager.
type Options struct {
	Timeout time.Duration
	Now     func() time.Time
	Poster  live.Poster
	Logger  *slog.Logger
}

// DefaultOptions returns a 30 minute timeout on the wall clock.
func DefaultOptions() Options {
	return Options{Timeout: DefaultTimeout, Now: time.Now}
}

// ------------------- Manager -------------------

// Manager owns the session fields and publishes the authenticated state.
type Manager struct {
	store prefs.Store
	opts  Options
	log   *slog.Logger

	// mu serializes check-then-mutate sequences against the store.
	mu sync.Mutex

	auth   *live.Value[bool]
	userID *live.Value[int64]
}

// New builds a Manager and evaluates the stored session once, clearing it
// if it has already expired.
func New(ctx context.Context, store prefs.Store, opts Options) *Manager {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.With("component", "session")
	}

	m := &Manager{
		store:  store,
		opts:   opts,
		log:    opts.Logger,
		auth:   live.NewValue(opts.Poster, false),
		userID: live.NewValue(opts.Poster, NoUser),
	}
	if m.HasValidSession(ctx) {
		m.auth.Set(true)
		m.userID.Set(m.UserID(ctx))
	}
	return m
}

// Authenticated emits the logged-in state whenever it changes.
func (m *Manager) Authenticated() live.Stream[bool] { return m.auth }

// UserIDs emits the signed-in user id, or NoUser.
func (m *Manager) UserIDs() live.Stream[int64] { return m.userID }

// HasValidSession reports whether a complete, unexpired session exists. A
// valid session has its activity timestamp refreshed; an expired one is
// cleared.
func (m *Manager) HasValidSession(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	vals, err := m.store.GetAll(ctx)
	if err != nil {
		m.log.Error("session: read failed", "err", err)
		return false
	}

	if vals[keyLoggedIn] != "true" || parseID(vals[keyUserID]) == NoUser || vals[keyEmail] == "" {
		return false
	}

	now := m.opts.Now()
	last, _ := strconv.ParseInt(vals[keyLastActivity], 10, 64)
	if now.Sub(time.UnixMilli(last)) > m.opts.Timeout {
		m.log.Info("session: expired", "idle", now.Sub(time.UnixMilli(last)).String())
		metrics.SessionExpired.Inc()
		m.clearLocked(ctx)
		return false
	}

	if err := m.store.Set(ctx, map[string]string{keyLastActivity: formatMillis(now)}); err != nil {
		m.log.Error("session: refresh failed", "err", err)
	}
	return true
}

// CreateSession marks userID as signed in.
func (m *Manager) CreateSession(ctx context.Context, userID uint, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.store.Set(ctx, map[string]string{
		keyUserID:       strconv.FormatUint(uint64(userID), 10),
		keyEmail:        email,
		keyLoggedIn:     "true",
		keyLastActivity: formatMillis(m.opts.Now()),
	})
	if err != nil {
		return err
	}

	m.userID.Set(int64(userID))
	m.auth.Set(true)
	m.log.Info("session: created", "user_id", userID)
	return nil
}

// ClearSession signs the user out and forgets any return-to destination.
func (m *Manager) ClearSession(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearLocked(ctx)
}

func (m *Manager) clearLocked(ctx context.Context) error {
	err := m.store.Clear(ctx)
	if err != nil {
		m.log.Error("session: clear failed", "err", err)
	}
	m.userID.Set(NoUser)
	m.auth.Set(false)
	return err
}

// IsLoggedIn reads the logged-in flag without checking expiry.
func (m *Manager) IsLoggedIn(ctx context.Context) bool {
	v, _, err := m.store.Get(ctx, keyLoggedIn)
	if err != nil {
		m.log.Error("session: read failed", "err", err)
		return false
	}
	return v == "true"
}

// UserID returns the stored user id, or NoUser.
func (m *Manager) UserID(ctx context.Context) int64 {
	v, _, err := m.store.Get(ctx, keyUserID)
	if err != nil {
		m.log.Error("session: read failed", "err", err)
		return NoUser
	}
	return parseID(v)
}

// Email returns the stored email, or "".
func (m *Manager) Email(ctx context.Context) string {
	v, _, err := m.store.Get(ctx, keyEmail)
	if err != nil {
		m.log.Error("session: read failed", "err", err)
	}
	return v
}

// UpdateEmail replaces the stored email after a profile edit.
func (m *Manager) UpdateEmail(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Set(ctx, map[string]string{keyEmail: email})
}

// LastActivity returns the stored activity timestamp.
func (m *Manager) LastActivity(ctx context.Context) time.Time {
	v, _, _ := m.store.Get(ctx, keyLastActivity)
	ms, _ := strconv.ParseInt(v, 10, 64)
	return time.UnixMilli(ms)
}

// ------------------- Return-to -------------------

// RequireAuth reports whether the session is valid. When it is not, dest is
// remembered so the login flow can return to it.
func (m *Manager) RequireAuth(ctx context.Context, dest Destination) bool {
	if m.HasValidSession(ctx) {
		return true
	}
	if err := m.SaveReturnTo(ctx, dest); err != nil {
		m.log.Error("session: save return-to failed", "screen", dest.Screen, "err", err)
	}
	return false
}

// SaveReturnTo remembers dest. Arguments are stored as a JSON object of
// strings.
func (m *Manager) SaveReturnTo(ctx context.Context, dest Destination) error {
	args := "{}"
	if len(dest.Args) > 0 {
		raw, err := json.Marshal(dest.Args)
		if err != nil {
			return err
		}
		args = string(raw)
	}
	return m.store.Set(ctx, map[string]string{keyReturnScreen: dest.Screen, keyReturnArgs: args})
}

// ConsumeReturnTo returns the remembered destination, if any, and forgets it.
func (m *Manager) ConsumeReturnTo(ctx context.Context) (Destination, bool) {
	screen, ok, err := m.store.Get(ctx, keyReturnScreen)
	if err != nil || !ok || screen == "" {
		return Destination{}, false
	}
	dest := Destination{Screen: screen}

	if raw, ok, _ := m.store.Get(ctx, keyReturnArgs); ok && raw != "" {
		var args map[string]string
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			m.log.Warn("session: dropping unreadable return-to args", "err", err)
		} else if len(args) > 0 {
			dest.Args = args
		}
	}

	if err := m.store.Delete(ctx, keyReturnScreen, keyReturnArgs); err != nil {
		m.log.Error("session: clear return-to failed", "err", err)
	}
	return dest, true
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return NoUser
	}
	return id
}

func formatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
