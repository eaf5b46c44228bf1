package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFiles(t *testing.T, jsonBody, envBody string) {
	t.Helper()
	_ = Load() // spend the once so getters do not reload over the test files
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")
	if jsonBody != "" {
		require.NoError(t, os.WriteFile(jsonPath, []byte(jsonBody), 0o600))
	}
	if envBody != "" {
		require.NoError(t, os.WriteFile(envPath, []byte(envBody), 0o600))
	}
	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})
}

func TestDefaultsWithoutFiles(t *testing.T) {
	withFiles(t, "", "")

	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())
	assert.Equal(t, "computer", StoreFlavor())
	assert.Equal(t, "cart", CheckoutPricePolicy())
	assert.Equal(t, 30*time.Minute, SessionTimeout())
	assert.Equal(t, 1, ExecutorWorkers())
	assert.Equal(t, "database", SessionDriver())
}

func TestEnvFileOverridesJSON(t *testing.T) {
	withFiles(t,
		`{"db_driver": "postgres", "store_flavor": "cosmetics", "executor_workers": 4}`,
		"STORE_FLAVOR=computer\nCHECKOUT_PRICE_POLICY=LIVE\n",
	)

	assert.Equal(t, "postgres", DatabaseDriver())
	assert.Equal(t, defaultPostgresDSN, DatabaseDSN())
	assert.Equal(t, "computer", StoreFlavor())
	assert.Equal(t, "live", CheckoutPricePolicy())
	assert.Equal(t, 4, ExecutorWorkers())
}

func TestProcessEnvWins(t *testing.T) {
	t.Setenv("SESSION_TIMEOUT", "5m")
	t.Setenv("DB_DRIVER", "oracle")
	withFiles(t, "", "SESSION_TIMEOUT=10m\n")

	assert.Equal(t, 5*time.Minute, SessionTimeout())
	assert.Equal(t, "sqlite", DatabaseDriver(), "unknown drivers fall back")
}

func TestBadValuesFallBack(t *testing.T) {
	withFiles(t, "", "CART_RETENTION=soon\nEXECUTOR_QUEUE=-3\nSESSION_DRIVER=floppy\n")

	assert.Equal(t, defaultCartRetention, CartRetention())
	assert.Equal(t, 256, ExecutorQueue())
	assert.Equal(t, "database", SessionDriver())
}

func TestMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	assert.Error(t, loadFromFiles(path, filepath.Join(dir, ".env")))
}

func TestSetOverrides(t *testing.T) {
	withFiles(t, "", "")
	Set("diag_addr", "0.0.0.0:1")
	assert.Equal(t, "0.0.0.0:1", DiagAddr())
}
