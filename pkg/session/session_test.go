package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/prefs"
	"github.com/shashiranjanraj/storefront/pkg/session"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newManager(t *testing.T, store prefs.Store) (*session.Manager, *clock) {
	t.Helper()
	clk := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	m := session.New(context.Background(), store, session.Options{
		Timeout: 30 * time.Minute,
		Now:     clk.Now,
		Logger:  logger.Discard(),
	})
	return m, clk
}

func TestManager_NoSessionByDefault(t *testing.T) {
	m, _ := newManager(t, prefs.NewMemory())
	ctx := context.Background()

	assert.False(t, m.HasValidSession(ctx))
	assert.False(t, m.IsLoggedIn(ctx))
	assert.Equal(t, session.NoUser, m.UserID(ctx))
	assert.Equal(t, "", m.Email(ctx))
}

func TestManager_CreateAndClear(t *testing.T) {
	m, _ := newManager(t, prefs.NewMemory())
	ctx := context.Background()

	auth := live.Collect(m.Authenticated())
	defer auth.Stop()
	ids := live.Collect(m.UserIDs())
	defer ids.Stop()

	require.NoError(t, m.CreateSession(ctx, 7, "ada@example.com"))
	assert.True(t, m.HasValidSession(ctx))
	assert.Equal(t, int64(7), m.UserID(ctx))
	assert.Equal(t, "ada@example.com", m.Email(ctx))

	require.NoError(t, m.ClearSession(ctx))
	assert.False(t, m.HasValidSession(ctx))
	assert.False(t, m.IsLoggedIn(ctx))

	assert.Equal(t, []bool{false, true, false}, auth.All())
	assert.Equal(t, []int64{session.NoUser, 7, session.NoUser}, ids.All())
}

func TestManager_ExpiresAfterInactivityAndClearsOnRead(t *testing.T) {
	m, clk := newManager(t, prefs.NewMemory())
	ctx := context.Background()

	auth := live.Collect(m.Authenticated())
	defer auth.Stop()

	require.NoError(t, m.CreateSession(ctx, 1, "a@b.com"))
	clk.Advance(31 * time.Minute)

	assert.False(t, m.HasValidSession(ctx))
	assert.False(t, m.IsLoggedIn(ctx), "expired session must be cleared as a side effect")
	last, _ := auth.Last()
	assert.False(t, last)
}

func TestManager_CheckingExtendsTheSession(t *testing.T) {
	m, clk := newManager(t, prefs.NewMemory())
	ctx := context.Background()

	require.NoError(t, m.CreateSession(ctx, 1, "a@b.com"))
	for i := 0; i < 4; i++ {
		clk.Advance(20 * time.Minute)
		require.True(t, m.HasValidSession(ctx), "check %d", i)
	}
	assert.Equal(t, clk.Now().UnixMilli(), m.LastActivity(ctx).UnixMilli())
}

func TestManager_ExactlyAtTimeoutIsStillValid(t *testing.T) {
	m, clk := newManager(t, prefs.NewMemory())
	ctx := context.Background()

	require.NoError(t, m.CreateSession(ctx, 1, "a@b.com"))
	clk.Advance(30 * time.Minute)
	assert.True(t, m.HasValidSession(ctx))
}

func TestManager_IncompleteSessionIsInvalid(t *testing.T) {
	store := prefs.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, map[string]string{
		"is_logged_in":  "true",
		"user_id":       "-1",
		"email":         "a@b.com",
		"last_activity": "0",
	}))

	m, _ := newManager(t, store)
	assert.False(t, m.HasValidSession(ctx))
}

func TestManager_SurvivesRestartOnDurableStore(t *testing.T) {
	store := prefs.NewMemory()
	ctx := context.Background()

	first, clk := newManager(t, store)
	require.NoError(t, first.CreateSession(ctx, 3, "c@d.com"))

	second := session.New(ctx, store, session.Options{Now: clk.Now, Logger: logger.Discard()})
	v, ok := second.Authenticated().Value()
	require.True(t, ok)
	assert.True(t, v)
	assert.Equal(t, int64(3), second.UserID(ctx))
}

func TestManager_ReturnToRoundTrip(t *testing.T) {
	m, _ := newManager(t, prefs.NewMemory())
	ctx := context.Background()

	dest := session.Destination{Screen: "product_details", Args: map[string]string{"product_id": "cpu-1"}}
	assert.False(t, m.RequireAuth(ctx, dest))

	got, ok := m.ConsumeReturnTo(ctx)
	require.True(t, ok)
	assert.Equal(t, dest, got)

	_, ok = m.ConsumeReturnTo(ctx)
	assert.False(t, ok, "return-to is consumed once")
}

func TestManager_RequireAuthPassesWithValidSession(t *testing.T) {
	m, _ := newManager(t, prefs.NewMemory())
	ctx := context.Background()

	require.NoError(t, m.CreateSession(ctx, 1, "a@b.com"))
	assert.True(t, m.RequireAuth(ctx, session.Destination{Screen: "checkout"}))
	_, ok := m.ConsumeReturnTo(ctx)
	assert.False(t, ok)
}

func TestManager_UpdateEmail(t *testing.T) {
	m, _ := newManager(t, prefs.NewMemory())
	ctx := context.Background()

	require.NoError(t, m.CreateSession(ctx, 1, "old@b.com"))
	require.NoError(t, m.UpdateEmail(ctx, "new@b.com"))
	assert.Equal(t, "new@b.com", m.Email(ctx))
	assert.True(t, m.HasValidSession(ctx))
}
