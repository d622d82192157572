// Package clock abstracts waiting so timed loops can be driven by tests.
package clock

import (
	"context"
	"time"
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real-time Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
