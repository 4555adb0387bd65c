// Package latency models the simulated network round-trip every facade
// operation suspends at. The boundary is a port so tests can substitute a
// zero-delay implementation.
package latency

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// ErrStalled indicates a wait exceeded its hard limit.
var ErrStalled = errors.New("latency: wait exceeded limit")

// Pacer suspends the caller for the duration of a simulated round-trip.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Simulator waits a bounded random delay. A wait never outlives the hard
// limit or the caller's context.
type Simulator struct {
	min   time.Duration
	max   time.Duration
	limit time.Duration
}

// NewSimulator constructs a Simulator. min and max bound the random delay;
// limit caps any single wait.
func NewSimulator(min, max, limit time.Duration) *Simulator {
	if max < min {
		max = min
	}
	if limit <= 0 {
		limit = 5 * time.Second
	}
	return &Simulator{min: min, max: max, limit: limit}
}

// Wait suspends until the chosen delay elapses. Returns ErrStalled when the
// delay would exceed the hard limit, or the context error on cancellation.
func (s *Simulator) Wait(ctx context.Context) error {
	delay := s.min
	if span := s.max - s.min; span > 0 {
		delay += rand.N(span)
	}
	if delay > s.limit {
		return ErrStalled
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type none struct{}

func (none) Wait(ctx context.Context) error {
	return ctx.Err()
}

// None returns a Pacer that never delays. For tests.
func None() Pacer {
	return none{}
}
