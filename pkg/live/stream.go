// Package live provides observable streams: mutable values, live store
// queries, and declarative combinators (Map, Combine2, Combine3, CombineSlice,
// SwitchMap) that subscribe upstream only while someone downstream listens.
//
// Emissions are delivered through a Poster, normally the UI main loop, so
// subscriber callbacks never run on a store or worker goroutine. Each
// subscriber sees values in commit order; intermediate values may be skipped
// when newer ones are already queued.
package live

import (
	"sync"
	"sync/atomic"
)

// Poster runs a function on the context that owns subscribers.
type Poster interface {
	Post(fn func())
}

// Stream is a subscribable sequence of snapshots.
type Stream[T any] interface {
	// Subscribe registers fn and delivers the current value, if any, followed
	// by every later value. The returned func cancels the subscription.
	Subscribe(fn func(T)) (cancel func())
	// Value returns the latest value held by the stream. Derived streams only
	// hold a value while they have at least one subscriber.
	Value() (T, bool)
}

type posterOf interface {
	poster() Poster
}

// inline delivers on the caller's goroutine.
type inline struct{}

func (inline) Post(fn func()) { fn() }

func upstreamPoster(s any) Poster {
	if p, ok := s.(posterOf); ok && p.poster() != nil {
		return p.poster()
	}
	return inline{}
}

type subscription[T any] struct {
	fn        func(T)
	last      atomic.Uint64
	cancelled atomic.Bool
}

func (s *subscription[T]) deliver(v T, version uint64) {
	for {
		last := s.last.Load()
		if version <= last || s.cancelled.Load() {
			return
		}
		if s.last.CompareAndSwap(last, version) {
			break
		}
	}
	s.fn(v)
}

// node is the shared core of every stream type.
type node[T any] struct {
	post Poster

	mu      sync.Mutex
	val     T
	has     bool
	version uint64
	subs    map[uint64]*subscription[T]
	nextID  uint64

	// activation is serialized by actMu; activate is nil for plain values.
	actMu      sync.Mutex
	activate   func() (deactivate func())
	deactivate func()
	active     bool
}

func newNode[T any](p Poster) *node[T] {
	if p == nil {
		p = inline{}
	}
	return &node[T]{post: p, subs: map[uint64]*subscription[T]{}}
}

func (n *node[T]) poster() Poster { return n.post }

func (n *node[T]) Value() (T, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.val, n.has
}

func (n *node[T]) set(v T) {
	n.apply(func(T) T { return v })
}

// apply computes the next value from the current one under the node lock and
// publishes it. fn must not touch the node.
func (n *node[T]) apply(fn func(T) T) {
	n.mu.Lock()
	v := fn(n.val)
	n.val, n.has = v, true
	n.version++
	ver := n.version
	subs := make([]*subscription[T], 0, len(n.subs))
	for _, s := range n.subs {
		subs = append(subs, s)
	}
	n.mu.Unlock()

	if len(subs) == 0 {
		return
	}
	n.post.Post(func() {
		for _, s := range subs {
			s.deliver(v, ver)
		}
	})
}

func (n *node[T]) Subscribe(fn func(T)) func() {
	s := &subscription[T]{fn: fn}

	n.actMu.Lock()
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.subs[id] = s
	v, has, ver := n.val, n.has, n.version
	n.mu.Unlock()

	if has {
		n.post.Post(func() { s.deliver(v, ver) })
	}
	if n.activate != nil && !n.active {
		n.active = true
		n.deactivate = n.activate()
	}
	n.actMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.cancelled.Store(true)
			n.unsubscribe(id)
		})
	}
}

func (n *node[T]) unsubscribe(id uint64) {
	n.actMu.Lock()
	defer n.actMu.Unlock()

	n.mu.Lock()
	delete(n.subs, id)
	empty := len(n.subs) == 0
	n.mu.Unlock()

	if !empty || !n.active {
		return
	}
	n.active = false
	if n.deactivate != nil {
		n.deactivate()
		n.deactivate = nil
	}

	n.mu.Lock()
	var zero T
	n.val, n.has = zero, false
	n.mu.Unlock()
}

// subscribers reports the number of live subscriptions.
func (n *node[T]) subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
