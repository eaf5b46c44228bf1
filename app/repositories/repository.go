// Package repositories puts the DAOs behind the app's concurrency rules.
//
// Writes run on one shared worker pool and hand back a Future. A write
// returns at once unless the pool queue is full; it then waits for a slot.
// Reads are live streams that re-run whenever a table they read changes.
//
//	f := repos.Cart.AddToCart(ctx, "cpu-1", 1, price)
//	f.OnComplete(loop, func(item models.CartItem, err error) { ... })
//
//	stop := repos.Cart.Total().Subscribe(func(t decimal.Decimal) { ... })
package repositories

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/shashiranjanraj/storefront/app/dao"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// ErrClosed is the failure of a write submitted after Cleanup.
var ErrClosed = errors.New("repositories: repository is closed")

// Table names the change bus publishes.
const (
	tProducts   = "products"
	tCategories = "categories"
	tCart       = "cart_items"
	tUsers      = "users"
	tAddresses  = "addresses"
	tOrders     = "orders"
	tOrderItems = "order_items"
)

// base is embedded by every repository.
type base struct {
	name   string
	pool   *workerpool.Pool
	hub    *live.Hub
	log    *slog.Logger
	closed *atomic.Bool
}

func newBase(name string, pool *workerpool.Pool, hub *live.Hub) base {
	return base{
		name:   name,
		pool:   pool,
		hub:    hub,
		log:    logger.With("component", "repositories", "repo", name),
		closed: new(atomic.Bool),
	}
}

// Cleanup stops the repository from accepting writes. Writes already queued
// still run. Calling it again does nothing.
func (b *base) Cleanup() {
	if b.closed.CompareAndSwap(false, true) {
		b.log.Debug("repository closed")
	}
}

// submit runs task on the shared pool. Failures are counted and logged here,
// so a Future nobody waits on still leaves a trace.
func submit[T any](b *base, op string, task func() (T, error)) *workerpool.Future[T] {
	if b.closed.Load() {
		return workerpool.Failed[T](ErrClosed)
	}
	return workerpool.Go(b.pool, func() (T, error) {
		start := time.Now()
		v, err := task()
		metrics.RecordTask(b.name, start, err)
		if err != nil {
			b.log.Warn("write failed", "op", op, "err", err)
		}
		return v, err
	})
}

// exec is submit for writes that produce no value.
func exec(b *base, op string, task func() error) *workerpool.Done {
	return submit(b, op, func() (struct{}, error) {
		return struct{}{}, task()
	})
}

// query is a live read over tables.
func query[T any](b *base, fetch func(ctx context.Context) (T, error), tables ...string) live.Stream[T] {
	return live.Query(b.hub, tables, fetch)
}

// optional turns a single-row lookup into a stream that emits nil while the
// row does not exist.
func optional[T any](b *base, get func(ctx context.Context) (T, error), tables ...string) live.Stream[*T] {
	return query(b, func(ctx context.Context) (*T, error) {
		v, err := get(ctx)
		if errors.Is(err, dao.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &v, nil
	}, tables...)
}
