package prefs_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/prefs"
)

// exercise runs the same contract against every driver.
func exercise(t *testing.T, s prefs.Store, other prefs.Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "email")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, map[string]string{"email": "ada@example.com", "user_id": "7"}))
	require.NoError(t, s.Set(ctx, map[string]string{"user_id": "8"}))

	v, ok, err := s.Get(ctx, "user_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "8", v)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"email": "ada@example.com", "user_id": "8"}, all)

	require.NoError(t, s.Delete(ctx, "email", "missing"))
	_, ok, _ = s.Get(ctx, "email")
	assert.False(t, ok)

	if other != nil {
		require.NoError(t, other.Set(ctx, map[string]string{"user_id": "99"}))
	}

	require.NoError(t, s.Clear(ctx))
	all, err = s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	if other != nil {
		v, ok, err := other.Get(ctx, "user_id")
		require.NoError(t, err)
		assert.True(t, ok, "clearing one namespace must not touch another")
		assert.Equal(t, "99", v)
	}
}

func TestMemory(t *testing.T) {
	exercise(t, prefs.NewMemory(), nil)
}

func TestDB(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&prefs.Preference{}))

	exercise(t, prefs.NewDB(db, "user_session"), prefs.NewDB(db, "settings"))
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("STOREFRONT_TEST_REDIS")
	if addr == "" {
		t.Skip("STOREFRONT_TEST_REDIS not set")
	}
	rdb, err := prefs.Connect(context.Background(), addr, "")
	require.NoError(t, err)
	defer rdb.Close()

	s := prefs.NewRedis(rdb, t.Name())
	other := prefs.NewRedis(rdb, t.Name()+"-other")
	defer other.Clear(context.Background())

	exercise(t, s, other)
}
