package scheduler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRunTicksImmediatelyAndRepeats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ticks atomic.Int32
	sched := New(Options{Interval: 10 * time.Millisecond}, zerolog.Nop())

	start := time.Now()
	var first time.Duration
	err := sched.Run(ctx, func(ctx context.Context, at time.Time) error {
		if ticks.Add(1) == 1 {
			first = time.Since(start)
		}
		if ticks.Load() == 3 {
			cancel()
		}
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ticks.Load() != 3 {
		t.Fatalf("expected 3 ticks, got %d", ticks.Load())
	}
	if first > 50*time.Millisecond {
		t.Fatalf("first tick should run immediately, took %s", first)
	}
}

func TestRunContinuesAfterTickError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ticks atomic.Int32
	sched := New(Options{Interval: time.Millisecond}, zerolog.Nop())

	_ = sched.Run(ctx, func(ctx context.Context, at time.Time) error {
		if ticks.Add(1) >= 2 {
			cancel()
		}
		return errors.New("fetch failed")
	})

	if ticks.Load() != 2 {
		t.Fatalf("a failing tick must not stop the loop, got %d ticks", ticks.Load())
	}
}

func TestRunSkipFirstHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	sched := New(Options{Interval: time.Hour, SkipFirst: true}, zerolog.Nop())
	called := false
	err := sched.Run(ctx, func(ctx context.Context, at time.Time) error {
		called = true
		return nil
	})

	if called {
		t.Fatal("tick should not run before the first interval elapses")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewRejectsNonPositiveInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero interval")
		}
	}()
	New(Options{}, zerolog.Nop())
}

func TestRunShutdownDuringTickIsNotLoggedAsFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var logs bytes.Buffer
	sched := New(Options{Interval: time.Hour}, zerolog.New(&logs).Level(zerolog.InfoLevel))

	err := sched.Run(ctx, func(ctx context.Context, at time.Time) error {
		cancel()
		return ctx.Err()
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if strings.Contains(logs.String(), "tick execution failed") {
		t.Fatalf("shutdown logged as a failure: %s", logs.String())
	}
}
