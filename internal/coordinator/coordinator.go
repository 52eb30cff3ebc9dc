// internal/coordinator/coordinator.go
package coordinator

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/techdisc-bridge/internal/metrics"
	"github.com/techdisc-bridge/internal/techdisc"
)

// Fetcher is the single operation the coordinator needs from the API client.
type Fetcher interface {
	FetchLatest(ctx context.Context, cursor int64) (*techdisc.Throw, error)
}

// Config is the minimal runtime config the coordinator needs.
type Config struct {
	Interval  time.Duration
	Publisher Publisher   // optional; notified once per new throw
	Logger    *log.Logger // defaults to log.Default()
}

// Coordinator owns the polling cadence, the cursor, and the last-known-good
// snapshot. It is the only writer of all three; readers see a stable throw
// reference because an update is an atomic replace of the whole snapshot.
type Coordinator struct {
	cfg     Config
	fetcher Fetcher
	log     *log.Logger

	state    atomic.Int32
	snapshot atomic.Pointer[techdisc.Throw]
	cursor   atomic.Int64 // millis since epoch; -1 until first well-formed throw
	lastErr  atomic.Pointer[errBox]
}

type errBox struct{ err error }

// New creates a coordinator with immutable config.
func New(f Fetcher, cfg Config) (*Coordinator, error) {
	if f == nil {
		return nil, errors.New("coordinator: fetcher required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("coordinator: interval must be > 0")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	c := &Coordinator{cfg: cfg, fetcher: f, log: logger}
	c.cursor.Store(-1)
	c.setState(StateIdle)
	return c, nil
}

// Snapshot returns the current best-known throw, or nil before first success.
// Once populated it is never cleared by any failure.
func (c *Coordinator) Snapshot() *techdisc.Throw {
	return c.snapshot.Load()
}

// Cursor returns the timestamp of the last throw observed, if any.
func (c *Coordinator) Cursor() (int64, bool) {
	v := c.cursor.Load()
	return v, v >= 0
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// LastError returns the error from the most recent failed cycle, or nil if
// the most recent cycle succeeded.
func (c *Coordinator) LastError() error {
	if b := c.lastErr.Load(); b != nil {
		return b.err
	}
	return nil
}

// PollOnce performs exactly one poll cycle and applies its result.
// A cycle abandoned by cancellation never writes snapshot or cursor.
func (c *Coordinator) PollOnce(ctx context.Context) Outcome {
	prev := c.State()
	c.setState(StatePolling)

	throw, err := c.fetcher.FetchLatest(ctx, c.cursor.Load())

	if ctx.Err() != nil {
		c.setState(prev)
		return Outcome{Kind: OutcomeRecoverable, Err: ctx.Err()}
	}

	var out Outcome
	if err != nil {
		out = c.applyFailure(err)
	} else {
		out = c.applySuccess(throw)
	}
	metrics.PollCyclesTotal.WithLabelValues(out.Kind.String()).Inc()
	return out
}

func (c *Coordinator) applyFailure(err error) Outcome {
	metrics.FetchErrorsTotal.WithLabelValues(techdisc.KindOf(err).String()).Inc()
	c.lastErr.Store(&errBox{err: err})

	if c.snapshot.Load() != nil {
		// Previously delivered readings must never disappear.
		c.setState(StateDegraded)
	} else {
		c.setState(StateFailed)
	}

	var fe *techdisc.FetchError
	if errors.As(err, &fe) && fe.Recoverable() {
		return Outcome{Kind: OutcomeRecoverable, Err: err}
	}
	return Outcome{Kind: OutcomeFatal, Err: err}
}

func (c *Coordinator) applySuccess(throw *techdisc.Throw) Outcome {
	c.lastErr.Store(nil)

	millis, ok := throw.ThrowTime.Millis()
	cur := c.cursor.Load()

	// Absent or malformed timestamp is "no new data", as is a redelivery of
	// the throw the cursor already marks. The cursor never moves backward.
	if !ok || (cur >= 0 && millis <= cur) {
		c.setState(StateReady)
		return Outcome{Kind: OutcomeUnchanged}
	}

	c.cursor.Store(millis)
	c.snapshot.Store(throw)
	c.setState(StateReady)

	metrics.ThrowsTotal.Inc()
	if throw.ThrowTime != nil && throw.ThrowTime.Seconds != nil {
		metrics.LastThrowTimestamp.Set(float64(*throw.ThrowTime.Seconds))
	}
	if c.cfg.Publisher != nil {
		c.cfg.Publisher.Publish(throw)
	}
	return Outcome{Kind: OutcomeNewThrow, Throw: throw}
}

func (c *Coordinator) setState(s State) {
	c.state.Store(int32(s))
	metrics.CoordinatorState.Set(float64(s))
}
