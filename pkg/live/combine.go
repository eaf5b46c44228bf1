package live

import "sync"

// derived builds a stream that subscribes upstream only while it has
// subscribers of its own.
func derived[T any](p Poster, activate func(n *node[T]) (deactivate func())) Stream[T] {
	n := newNode[T](p)
	n.activate = func() func() { return activate(n) }
	return n
}

// Map transforms every value of src with fn.
func Map[T, R any](src Stream[T], fn func(T) R) Stream[R] {
	return derived(upstreamPoster(src), func(n *node[R]) func() {
		return src.Subscribe(func(v T) { n.set(fn(v)) })
	})
}

// Combine2 emits fn(a, b) whenever either input changes, once both have
// delivered at least one value.
func Combine2[A, B, R any](a Stream[A], b Stream[B], fn func(A, B) R) Stream[R] {
	return derived(upstreamPoster(a), func(n *node[R]) func() {
		var (
			mu         sync.Mutex
			va         A
			vb         B
			hasA, hasB bool
		)
		emit := func() {
			if hasA && hasB {
				n.set(fn(va, vb))
			}
		}
		stopA := a.Subscribe(func(v A) {
			mu.Lock()
			defer mu.Unlock()
			va, hasA = v, true
			emit()
		})
		stopB := b.Subscribe(func(v B) {
			mu.Lock()
			defer mu.Unlock()
			vb, hasB = v, true
			emit()
		})
		return func() {
			stopA()
			stopB()
		}
	})
}

// Combine3 is Combine2 for three inputs.
func Combine3[A, B, C, R any](a Stream[A], b Stream[B], c Stream[C], fn func(A, B, C) R) Stream[R] {
	type pair struct {
		a A
		b B
	}
	ab := Combine2(a, b, func(x A, y B) pair { return pair{x, y} })
	return Combine2(ab, c, func(p pair, z C) R { return fn(p.a, p.b, z) })
}

// CombineSlice emits the latest value of every input, in input order, once
// all of them have delivered. An empty input list emits an empty slice.
func CombineSlice[T any](streams []Stream[T]) Stream[[]T] {
	p := Poster(inline{})
	if len(streams) > 0 {
		p = upstreamPoster(streams[0])
	}
	return derived(p, func(n *node[[]T]) func() {
		if len(streams) == 0 {
			n.set([]T{})
			return func() {}
		}

		var (
			mu      sync.Mutex
			latest  = make([]T, len(streams))
			seen    = make([]bool, len(streams))
			missing = len(streams)
		)
		stops := make([]func(), 0, len(streams))
		for i, s := range streams {
			i := i
			stops = append(stops, s.Subscribe(func(v T) {
				mu.Lock()
				defer mu.Unlock()
				latest[i] = v
				if !seen[i] {
					seen[i] = true
					missing--
				}
				if missing == 0 {
					n.set(append([]T(nil), latest...))
				}
			}))
		}
		return func() {
			for _, stop := range stops {
				stop()
			}
		}
	})
}

// SwitchMap subscribes to fn(v) for every value v of src, dropping the
// previous inner stream. Only the current inner stream's values are emitted.
func SwitchMap[T, R any](src Stream[T], fn func(T) Stream[R]) Stream[R] {
	return derived(upstreamPoster(src), func(n *node[R]) func() {
		var (
			mu        sync.Mutex
			gen       uint64
			stopInner func()
			closed    bool
		)

		stopOuter := src.Subscribe(func(v T) {
			mu.Lock()
			if closed {
				mu.Unlock()
				return
			}
			gen++
			mine := gen
			prev := stopInner
			stopInner = nil
			mu.Unlock()

			if prev != nil {
				prev()
			}

			stop := fn(v).Subscribe(func(r R) {
				mu.Lock()
				current := gen == mine && !closed
				mu.Unlock()
				if current {
					n.set(r)
				}
			})

			mu.Lock()
			if gen == mine && !closed {
				stopInner = stop
				stop = nil
			}
			mu.Unlock()
			if stop != nil {
				stop()
			}
		})

		return func() {
			stopOuter()
			mu.Lock()
			closed = true
			prev := stopInner
			stopInner = nil
			mu.Unlock()
			if prev != nil {
				prev()
			}
		}
	})
}
