package live

import (
	"context"
	"sync"
)

// Value is a mutable stream source. Set publishes to every subscriber.
type Value[T any] struct {
	*node[T]
}

// NewValue returns a Value holding initial.
func NewValue[T any](p Poster, initial T) *Value[T] {
	n := newNode[T](p)
	n.val, n.has, n.version = initial, true, 1
	return &Value[T]{node: n}
}

// NewEmpty returns a Value that delivers nothing until the first Set.
func NewEmpty[T any](p Poster) *Value[T] {
	return &Value[T]{node: newNode[T](p)}
}

// Set stores v and publishes it.
func (v *Value[T]) Set(val T) { v.set(val) }

// Get returns the current value, or the zero value before the first Set.
func (v *Value[T]) Get() T {
	val, _ := v.Value()
	return val
}

// Update applies fn to the current value and publishes the result. Concurrent
// Updates are serialized; fn must not call back into v.
func (v *Value[T]) Update(fn func(T) T) { v.apply(fn) }

// Const is a stream that always holds val.
func Const[T any](val T) Stream[T] {
	return NewValue[T](inline{}, val)
}

// First waits for the first value s delivers, or for ctx to end.
func First[T any](ctx context.Context, s Stream[T]) (T, error) {
	ch := make(chan T, 1)
	cancel := s.Subscribe(func(v T) {
		select {
		case ch <- v:
		default:
		}
	})
	defer cancel()

	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Collector records every value a stream delivers. It keeps its
// subscription open until Stop.
type Collector[T any] struct {
	mu     sync.Mutex
	values []T
	stop   func()
}

// Collect subscribes to s and records its emissions.
func Collect[T any](s Stream[T]) *Collector[T] {
	c := &Collector[T]{}
	c.stop = s.Subscribe(func(v T) {
		c.mu.Lock()
		c.values = append(c.values, v)
		c.mu.Unlock()
	})
	return c
}

// Last returns the most recent value.
func (c *Collector[T]) Last() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.values) == 0 {
		var zero T
		return zero, false
	}
	return c.values[len(c.values)-1], true
}

// All returns a copy of every recorded value.
func (c *Collector[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.values...)
}

// Len reports how many values were recorded.
func (c *Collector[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// Stop cancels the subscription.
func (c *Collector[T]) Stop() { c.stop() }
