// Package workerpool provides the bounded executor every repository write
// runs on, plus Future completion handles.
//
// A single pool is shared by all repositories. With one worker the queue is
// strictly FIFO, so writes run in submission order; with more workers writes
// from different callers may interleave.
//
// Go never drops a task: once the queue is full it waits for a free slot, so
// size the queue for the burst a UI loop may submit.
//
// Basic usage:
//
//	pool := workerpool.New(1)
//	defer pool.Shutdown()
//
//	f := workerpool.Go(pool, func() (uint, error) {
//	    return orders.CreateWithItems(ctx, order, items)
//	})
//	id, err := f.Wait(ctx)
package workerpool

import (
	"errors"
	"fmt"
	"sync"
)

// ErrPoolFull is returned by Submit when all workers are busy and the task
// queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// ErrTaskPanic wraps a value recovered from a panicking task.
var ErrTaskPanic = errors.New("workerpool: task panicked")

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closeCh chan struct{}

	// sendMu keeps Shutdown from closing tasks while a send is in flight.
	sendMu sync.RWMutex
}

// New creates a Pool with the given number of workers and a queue of
// 2× that many slots.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return NewWithQueue(size, size*2)
}

// NewWithQueue creates a Pool with an explicit queue capacity.
func NewWithQueue(size, queue int) *Pool {
	if size <= 0 {
		size = 1
	}
	if queue < 0 {
		queue = 0
	}

	p := &Pool{
		tasks:   make(chan func(), queue),
		closeCh: make(chan struct{}),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task for execution.
// It returns immediately and never blocks.
//   - Returns ErrPoolFull if the task queue is at capacity.
//   - Returns ErrPoolClosed if Shutdown has been called.
func (p *Pool) Submit(task func()) error {
	p.sendMu.RLock()
	defer p.sendMu.RUnlock()

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait is like Submit but blocks until a slot is available or the pool
// is closed.  Returns ErrPoolClosed if the pool is shutting down.
func (p *Pool) SubmitWait(task func()) error {
	p.sendMu.RLock()
	defer p.sendMu.RUnlock()

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	case p.tasks <- task:
		return nil
	}
}

// Shutdown stops accepting new tasks, lets queued and in-flight tasks finish,
// and releases all worker goroutines. It is safe to call multiple times.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.closeCh)

		p.sendMu.Lock()
		close(p.tasks)
		p.sendMu.Unlock()

		p.wg.Wait()
	})
}

// Closed reports whether Shutdown has been called.
func (p *Pool) Closed() bool {
	select {
	case <-p.closeCh:
		return true
	default:
		return false
	}
}

// worker drains the task channel until it is closed.
func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

// safeRun executes task, recovering from panics so a bad task doesn't kill
// the worker goroutine.
func safeRun(task func()) {
	defer func() { recover() }() //nolint:errcheck
	task()
}

// Go runs task on the pool and returns a Future for its result.
//
// Go returns at once while the queue has room. When it is full Go blocks the
// caller until a worker frees a slot, so a caller on the UI loop stalls for
// that long. A closed pool yields a failed Future. Use Submit to get
// ErrPoolFull instead of waiting.
func Go[T any](p *Pool, task func() (T, error)) *Future[T] {
	f := newFuture[T]()

	err := p.SubmitWait(func() {
		var (
			val T
			err error
		)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.resolve(zero, fmt.Errorf("%w: %v", ErrTaskPanic, r))
				return
			}
			f.resolve(val, err)
		}()
		val, err = task()
	})
	if err != nil {
		var zero T
		f.resolve(zero, err)
	}
	return f
}
