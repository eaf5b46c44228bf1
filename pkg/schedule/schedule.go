// Package schedule runs periodic maintenance jobs inside a long-running
// process.
//
// Usage:
//
//	s := schedule.New(log)
//	s.Every(time.Hour).Name("cart:prune").WithoutOverlapping().Run(pruneCart)
//	s.Start(ctx)
//	defer s.Wait()
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// Task is one run of a job. The context ends when the scheduler stops.
type Task func(ctx context.Context) error

type entry struct {
	name      string
	interval  time.Duration
	task      Task
	noOverlap bool

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// Scheduler dispatches due jobs on a fixed tick. The zero value is not
// usable; call New.
type Scheduler struct {
	log  *slog.Logger
	tick time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries []*entry
	wg      sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTick sets how often the scheduler looks for due jobs. Default 1s.
func WithTick(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.tick = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func New(log *slog.Logger, opts ...Option) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	s := &Scheduler{log: log.With("component", "schedule"), tick: time.Second, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule is a job being configured. It is registered by Run.
type Schedule struct {
	s *Scheduler
	e *entry
}

// Every starts a job that is due once per d.
func (s *Scheduler) Every(d time.Duration) *Schedule {
	return &Schedule{s: s, e: &entry{interval: d}}
}

// Name labels the job in logs and metrics.
func (b *Schedule) Name(name string) *Schedule {
	b.e.name = name
	return b
}

// WithoutOverlapping skips a due run while the previous one is still going.
func (b *Schedule) WithoutOverlapping() *Schedule {
	b.e.noOverlap = true
	return b
}

// Run registers the job.
func (b *Schedule) Run(task Task) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	b.e.task = task
	if b.e.name == "" {
		b.e.name = fmt.Sprintf("job-%d", len(b.s.entries)+1)
	}
	b.s.entries = append(b.s.entries, b.e)
}

// Jobs lists the registered jobs as "name every interval".
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, fmt.Sprintf("%s every %s", e.name, e.interval))
	}
	return out
}

// Start dispatches jobs in the background until ctx ends. A job runs on the
// first tick and then whenever its interval has passed.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()
}

// Wait blocks until the loop and every in-flight run have returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.log.Debug("scheduler started", "jobs", len(s.Jobs()))
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("scheduler stopped")
			return
		case <-ticker.C:
			now := s.now()
			s.mu.Lock()
			due := make([]*entry, 0, len(s.entries))
			for _, e := range s.entries {
				if e.due(now) {
					due = append(due, e)
				}
			}
			s.mu.Unlock()

			for _, e := range due {
				s.dispatch(ctx, e, now)
			}
		}
	}
}

func (e *entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRun.IsZero() || now.Sub(e.lastRun) >= e.interval
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, now time.Time) {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		metrics.ScheduledRuns.WithLabelValues(e.name, "skipped").Inc()
		s.log.Warn("skipping overlapping run", "job", e.name)
		return
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.run(ctx, e)
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()

		status := "success"
		if err != nil {
			status = "failed"
			s.log.Error("scheduled run failed", "job", e.name, "err", err)
		}
		metrics.ScheduledRuns.WithLabelValues(e.name, status).Inc()
	}()
}

func (s *Scheduler) run(ctx context.Context, e *entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("schedule: job %s panicked: %v", e.name, r)
		}
	}()
	s.log.Debug("running job", "job", e.name)
	return e.task(ctx)
}
