// Package poll provides the bounded fixed-interval poll used to wait for
// instance readiness.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCeiling indicates the wall-clock budget elapsed before the condition held.
var ErrCeiling = errors.New("poll budget exhausted")

// Probe reports whether the awaited condition currently holds.
type Probe func(ctx context.Context) bool

// Until evaluates probe every interval until it returns true, the ceiling
// elapses, or ctx is cancelled. The first probe runs immediately, so a
// condition that already holds costs no sleep at all. Total blocking time
// never exceeds the ceiling by more than one interval.
func Until(ctx context.Context, interval, ceiling time.Duration, probe Probe) error {
	deadline := time.Now().Add(ceiling)
	for {
		if probe(ctx) {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("condition not met within %v: %w", ceiling, ErrCeiling)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("poll cancelled: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
}
