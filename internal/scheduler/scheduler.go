package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TickFunc is invoked once per cycle.
type TickFunc func(ctx context.Context, at time.Time) error

// Options tune scheduler behaviour.
type Options struct {
	Interval     time.Duration
	StartupDelay time.Duration
	// SkipFirst waits a full interval before the first tick instead of
	// running it immediately.
	SkipFirst bool
}

// Scheduler runs a tick function with a fixed pause between the end of one
// tick and the start of the next, so ticks never overlap.
type Scheduler struct {
	opts   Options
	logger zerolog.Logger
}

// New constructs a Scheduler instance.
func New(opts Options, logger zerolog.Logger) *Scheduler {
	if opts.Interval <= 0 {
		panic("scheduler interval must be positive")
	}
	return &Scheduler{opts: opts, logger: logger.With().Str("component", "scheduler").Logger()}
}

// Interval returns the pause between ticks.
func (s *Scheduler) Interval() time.Duration {
	return s.opts.Interval
}

// Run blocks, invoking tick until ctx is cancelled. Tick errors are logged
// and the next cycle proceeds as normal.
func (s *Scheduler) Run(ctx context.Context, tick TickFunc) error {
	if err := s.wait(ctx, s.opts.StartupDelay); err != nil {
		return err
	}

	if s.opts.SkipFirst {
		if err := s.wait(ctx, s.opts.Interval); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		at := time.Now()
		if err := tick(ctx, at); err != nil {
			if ctx.Err() != nil {
				s.logger.Debug().Err(err).Msg("tick interrupted by shutdown")
				return ctx.Err()
			}
			s.logger.Error().Err(err).Time("at", at).Msg("tick execution failed")
		}

		s.logger.Debug().Time("next", time.Now().Add(s.opts.Interval)).Msg("waiting for next tick")
		if err := s.wait(ctx, s.opts.Interval); err != nil {
			return err
		}
	}
}

func (s *Scheduler) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
