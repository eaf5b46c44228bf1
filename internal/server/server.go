// Package server is the diagnostics HTTP surface of a running storefront:
// health, Prometheus metrics and a few read-only catalogue endpoints. It is
// bound to a local address and is not a shopper-facing API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// Pinger reports whether the store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler builds the router. repos may be nil, in which case only the health
// and metrics routes are mounted.
func Handler(db Pinger, repos *repositories.Set) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(recovery)

	r.Get("/healthz", health(db))
	r.Get("/metrics", metrics.Handler())

	if repos != nil {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/categories/{id}/path", categoryPath(repos))
			r.Get("/counts", counts(repos))
		})
	}
	return r
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down", "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func categoryPath(repos *repositories.Set) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chain, err := repos.Categories.PathNow(r.Context(), chi.URLParam(r, "id")).Wait(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if len(chain) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
			return
		}
		writeJSON(w, http.StatusOK, chain)
	}
}

func counts(repos *repositories.Set) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		categories, err := repos.Categories.Count(ctx).Wait(ctx)
		if err != nil {
			writeError(w, err)
			return
		}
		products, err := repos.Products.Count(ctx).Wait(ctx)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"categories": categories, "products": products})
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, repositories.ErrClosed) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Serve listens on addr until ctx ends, then drains in-flight requests.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("diagnostics listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
