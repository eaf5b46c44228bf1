package live

import (
	"context"
	"log/slog"

	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// Hub ties live queries to the store's change bus and the poster that owns
// subscribers.
type Hub struct {
	bus  *event.Bus
	post Poster
	log  *slog.Logger
}

// NewHub creates a Hub. A nil poster delivers on the refreshing goroutine.
func NewHub(bus *event.Bus, p Poster) *Hub {
	if p == nil {
		p = inline{}
	}
	return &Hub{bus: bus, post: p, log: logger.With("component", "live")}
}

// Poster returns the poster subscribers are called on.
func (h *Hub) Poster() Poster { return h.post }

// Bus returns the change bus.
func (h *Hub) Bus() *event.Bus { return h.bus }

// Query returns a stream that runs fetch when first subscribed and again
// every time one of tables changes. Refreshes are coalesced: a burst of
// changes while a fetch is running triggers one more fetch, not one per
// change. Fetch errors are logged and the previous value is kept.
func Query[T any](h *Hub, tables []string, fetch func(ctx context.Context) (T, error)) Stream[T] {
	return derived(h.post, func(n *node[T]) func() {
		ctx, cancel := context.WithCancel(context.Background())
		kick := make(chan struct{}, 1)
		poke := func(interface{}) {
			select {
			case kick <- struct{}{}:
			default:
			}
		}
		poke(nil)
		unlisten := h.bus.ListenAll(tables, poke)

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-kick:
				}

				v, err := fetch(ctx)
				metrics.RecordRefresh(err)
				if ctx.Err() != nil {
					return
				}
				if err != nil {
					h.log.Error("live query refresh failed", "tables", tables, "err", err)
					continue
				}
				n.set(v)
			}
		}()

		return func() {
			unlisten()
			cancel()
		}
	})
}
