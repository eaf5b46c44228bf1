package mainloop_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/mainloop"
)

func TestLoop_RunsPostedFuncsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := mainloop.Start(ctx)

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		loop.Post(func() { got = append(got, i) })
	}
	loop.Sync(func() {})

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoop_PostFromInsideLoopDoesNotDeadlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := mainloop.Start(ctx)

	done := make(chan struct{})
	loop.Post(func() {
		loop.Post(func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("nested post never ran")
	}
}

func TestLoop_SurvivesPanics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := mainloop.Start(ctx)

	var ran atomic.Bool
	loop.Post(func() { panic("render failed") })
	loop.Sync(func() { ran.Store(true) })

	assert.True(t, ran.Load())
}

func TestLoop_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := mainloop.Start(ctx)
	cancel()

	select {
	case <-loop.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}

	// Posting after stop is a no-op and Sync returns.
	loop.Post(func() { t.Error("must not run") })
	loop.Sync(func() { t.Error("must not run") })
}

func TestImmediate_RunsInline(t *testing.T) {
	var n int
	mainloop.Immediate{}.Post(func() { n++ })
	assert.Equal(t, 1, n)
}
