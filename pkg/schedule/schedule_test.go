package schedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJobRunsOnFirstTickAndRepeats(t *testing.T) {
	s := New(quiet(), WithTick(5*time.Millisecond))
	var runs atomic.Int32
	s.Every(10 * time.Millisecond).Name("count").Run(func(context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Wait()
}

func TestJobNotDueBeforeInterval(t *testing.T) {
	s := New(quiet(), WithTick(5*time.Millisecond))
	var runs atomic.Int32
	s.Every(time.Hour).Run(func(context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	cancel()
	s.Wait()
	assert.Equal(t, int32(1), runs.Load())
}

func TestWithoutOverlappingSkipsBusyJob(t *testing.T) {
	s := New(quiet(), WithTick(2*time.Millisecond))
	release := make(chan struct{})
	var runs atomic.Int32
	s.Every(time.Millisecond).Name("slow").WithoutOverlapping().Run(func(ctx context.Context) error {
		runs.Add(1)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 2*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	close(release)
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 2*time.Millisecond)
	cancel()
	s.Wait()
}

func TestFailingJobsKeepRunning(t *testing.T) {
	s := New(quiet(), WithTick(2*time.Millisecond))
	var broken, panicky atomic.Int32
	s.Every(time.Millisecond).Name("broken").WithoutOverlapping().Run(func(context.Context) error {
		broken.Add(1)
		return errors.New("boom")
	})
	s.Every(time.Millisecond).Name("panicky").WithoutOverlapping().Run(func(context.Context) error {
		panicky.Add(1)
		panic("oops")
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool {
		return broken.Load() >= 2 && panicky.Load() >= 2
	}, time.Second, 2*time.Millisecond)
	cancel()
	s.Wait()
}

func TestJobsListsRegisteredEntries(t *testing.T) {
	s := New(nil)
	s.Every(time.Hour).Name("cart:prune").Run(func(context.Context) error { return nil })
	s.Every(time.Minute).Run(func(context.Context) error { return nil })

	assert.Equal(t, []string{"cart:prune every 1h0m0s", "job-2 every 1m0s"}, s.Jobs())
}
