package workerpool

import (
	"context"
	"fmt"
	"sync"
)

// Poster runs a function on some owning context, typically the UI loop.
type Poster interface {
	Post(fn func())
}

// Future is the completion handle of a task submitted with Go.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// Done is a Future carrying no value.
type Done = Future[struct{}]

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns an already completed Future.
func Resolved[T any](val T, err error) *Future[T] {
	f := newFuture[T]()
	f.resolve(val, err)
	return f
}

// Failed returns an already failed Future.
func Failed[T any](err error) *Future[T] {
	var zero T
	return Resolved(zero, err)
}

func (f *Future[T]) resolve(val T, err error) {
	f.once.Do(func() {
		f.val, f.err = val, err
		close(f.done)
	})
}

// Done is closed once the task has finished.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the task finishes or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Err blocks until completion and returns the task error.
func (f *Future[T]) Err() error {
	<-f.done
	return f.err
}

// OnComplete delivers the result through p once the task finishes. With a nil
// Poster fn runs on the goroutine that observed completion.
func (f *Future[T]) OnComplete(p Poster, fn func(T, error)) {
	go func() {
		<-f.done
		if p == nil {
			fn(f.val, f.err)
			return
		}
		p.Post(func() { fn(f.val, f.err) })
	}()
}

// Then maps a successful result into a new Future; errors pass through.
func Then[T, R any](f *Future[T], fn func(T) (R, error)) *Future[R] {
	out := newFuture[R]()
	go func() {
		<-f.done
		if f.err != nil {
			var zero R
			out.resolve(zero, f.err)
			return
		}
		out.resolve(fn(f.val))
	}()
	return out
}

// Async runs task on its own goroutine, outside any pool. It suits slow I/O
// that should not hold up a pool's ordered writes.
func Async[T any](task func() (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.resolve(zero, fmt.Errorf("%w: %v", ErrTaskPanic, r))
			}
		}()
		f.resolve(task())
	}()
	return f
}
