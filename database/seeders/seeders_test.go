package seeders_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

func seedCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSeed_ComputerCatalogue(t *testing.T) {
	env := testkit.NewEnv(t)
	ctx := seedCtx(t)

	res, err := seeders.Seed(ctx, env.Repos, repositories.FlavorComputer)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 8, res.Categories)
	assert.Equal(t, 14, res.Products)

	featured, err := env.DAO.Products.Featured(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, featured, 6)

	offers, err := env.DAO.Products.SpecialOffers(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, offers, 6)

	cpus, err := env.DAO.Products.ByCategory(ctx, "CPU")
	require.NoError(t, err)
	require.Len(t, cpus, 4)
	for _, p := range cpus {
		assert.Len(t, p.ID, 36)
		assert.NotEmpty(t, p.Specifications)
	}
}

func TestSeed_SkipsPopulatedStore(t *testing.T) {
	env := testkit.NewEnv(t)
	ctx := seedCtx(t)

	_, err := seeders.Seed(ctx, env.Repos, repositories.FlavorCosmetics)
	require.NoError(t, err)

	res, err := seeders.Seed(ctx, env.Repos, repositories.FlavorCosmetics)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	n, err := env.DAO.Products.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}

func TestSeed_UnknownFlavor(t *testing.T) {
	env := testkit.NewEnv(t)
	_, err := seeders.Seed(seedCtx(t), env.Repos, "garden")
	assert.Error(t, err)
}
