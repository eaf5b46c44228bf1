// Package mainloop is the single-threaded context that owns UI state.
//
// Every live-stream emission and every Future callback aimed at the UI is
// posted here and runs one at a time in FIFO order. Post never blocks, so it
// is safe to call while holding locks or from inside another posted func.
package mainloop

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Loop is an unbounded FIFO of funcs drained by Run.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	stopped bool
	done    chan struct{}
}

// New creates a Loop. Nothing runs until Run is called.
func New() *Loop {
	l := &Loop{done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Start runs the loop on its own goroutine until ctx is cancelled or Stop is
// called.
func Start(ctx context.Context) *Loop {
	l := New()
	go l.Run(ctx)
	return l
}

// Post queues fn. Funcs posted after Stop are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return
	}
	l.queue = append(l.queue, fn)
	l.cond.Signal()
}

// Run drains the queue until ctx is cancelled or Stop is called. Funcs
// already queued when the loop stops are discarded.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	stopWatch := context.AfterFunc(ctx, l.Stop)
	defer stopWatch()

	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.stopped {
			l.cond.Wait()
		}
		if l.stopped {
			l.queue = nil
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		run(fn)
	}
}

// Stop ends Run. Safe to call more than once.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	l.cond.Broadcast()
	l.mu.Unlock()
}

// Done is closed after Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Sync posts fn and waits for it to run. Must not be called from the loop
// goroutine itself.
func (l *Loop) Sync(fn func()) {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
	case <-l.done:
	}
}

func run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("mainloop: recovered panic", "panic", r)
		}
	}()
	fn()
}

// Immediate runs posted funcs on the caller's goroutine. Useful where no
// UI context exists, such as the CLI.
type Immediate struct{}

// Post runs fn right away.
func (Immediate) Post(fn func()) { run(fn) }
