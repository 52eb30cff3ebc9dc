// internal/coordinator/runner.go
package coordinator

import (
	"context"
	"time"
)

// Run starts the ticker loop and blocks until ctx is cancelled.
// One cycle at a time, scheduled a fixed interval from cycle start: a slow
// cycle costs at most one dropped tick, it never compounds delay.
func (c *Coordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.report(c.PollOnce(ctx))
		}
	}
}

// report applies the failure-visibility policy: transient failures stay
// quiet once a snapshot exists, contract breaks and total unavailability
// are always logged.
func (c *Coordinator) report(out Outcome) {
	switch out.Kind {
	case OutcomeNewThrow:
		if millis, ok := out.Throw.ThrowTime.Millis(); ok {
			c.log.Printf("new throw observed (device=%s throw_time_millis=%d)", out.Throw.DeviceID, millis)
		}
	case OutcomeUnchanged:
		// quiet
	case OutcomeRecoverable:
		if c.State() == StateFailed {
			c.log.Printf("poll failed with no throw yet: %v", out.Err)
		}
	case OutcomeFatal:
		c.log.Printf("poll failed: %v", out.Err)
	}
}
