package event_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/event"
)

func TestBus_FireReachesNamedListeners(t *testing.T) {
	bus := event.New()

	var products, carts atomic.Int64
	bus.Listen("products", func(interface{}) { products.Add(1) })
	bus.Listen("cart_items", func(interface{}) { carts.Add(1) })

	bus.Fire("products", nil)

	assert.Equal(t, int64(1), products.Load())
	assert.Equal(t, int64(0), carts.Load())
}

func TestBus_UnlistenStopsDelivery(t *testing.T) {
	bus := event.New()

	var n atomic.Int64
	stop := bus.Listen("orders", func(interface{}) { n.Add(1) })
	bus.Fire("orders", nil)
	stop()
	stop()
	bus.Fire("orders", nil)

	assert.Equal(t, int64(1), n.Load())
	assert.Equal(t, 0, bus.Count("orders"))
}

func TestBus_AnyIsAWildcardBothWays(t *testing.T) {
	bus := event.New()

	var named, wildcard atomic.Int64
	bus.Listen("users", func(interface{}) { named.Add(1) })
	bus.Listen(event.Any, func(interface{}) { wildcard.Add(1) })

	bus.Fire("users", nil)
	bus.Fire(event.Any, nil)

	assert.Equal(t, int64(2), named.Load())
	assert.Equal(t, int64(2), wildcard.Load())
}

func TestBus_ListenAllAndPayload(t *testing.T) {
	bus := event.New()

	var got []interface{}
	stop := bus.ListenAll([]string{"orders", "order_items"}, func(p interface{}) { got = append(got, p) })
	bus.Fire("orders", "a")
	bus.Fire("order_items", "b")
	stop()
	bus.Fire("orders", "c")

	assert.Equal(t, []interface{}{"a", "b"}, got)
}
