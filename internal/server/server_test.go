package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/internal/server"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, server.Handler(pinger{}, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(server.RequestIDHeader))

	rec = get(t, server.Handler(pinger{err: errors.New("gone")}, nil), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(server.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	server.Handler(pinger{}, nil).ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(server.RequestIDHeader))
}

func TestMetrics(t *testing.T) {
	rec := get(t, server.Handler(pinger{}, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestCatalogueProbes(t *testing.T) {
	env := testkit.NewEnv(t)
	testkit.Category(t, env.DB, "pc")
	testkit.Subcategory(t, env.DB, "gpu", "pc")
	h := server.Handler(pinger{}, env.Repos)

	rec := get(t, h, "/catalog/categories/gpu/path")
	require.Equal(t, http.StatusOK, rec.Code)
	var chain []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chain))
	require.Len(t, chain, 2)
	assert.Equal(t, "pc", chain[0].ID)
	assert.Equal(t, "gpu", chain[1].ID)

	rec = get(t, h, "/catalog/categories/nope/path")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h, "/catalog/counts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":2,"products":0}`, rec.Body.String())
}

func TestScenarios(t *testing.T) {
	env := testkit.NewEnv(t)
	testkit.Category(t, env.DB, "pc")
	testkit.Subcategory(t, env.DB, "gpu", "pc")
	testkit.RunDir(t, server.Handler(pinger{}, env.Repos), "testdata")
}
