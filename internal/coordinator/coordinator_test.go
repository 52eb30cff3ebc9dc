// internal/coordinator/coordinator_test.go
package coordinator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/techdisc-bridge/internal/techdisc"
)

type step struct {
	throw *techdisc.Throw
	err   error
}

type fakeFetcher struct {
	mu      sync.Mutex
	steps   []step
	idx     int
	cursors []int64
}

func (f *fakeFetcher) FetchLatest(ctx context.Context, cursor int64) (*techdisc.Throw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursors = append(f.cursors, cursor)
	s := f.steps[f.idx]
	if f.idx < len(f.steps)-1 {
		f.idx++
	}
	return s.throw, s.err
}

type countingPublisher struct {
	mu     sync.Mutex
	throws []*techdisc.Throw
}

func (p *countingPublisher) Publish(t *techdisc.Throw) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.throws = append(p.throws, t)
}

func (p *countingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.throws)
}

func throwAt(secs, nanos int64) *techdisc.Throw {
	return &techdisc.Throw{
		ThrowTime: &techdisc.ThrowTime{Seconds: &secs, Nanoseconds: &nanos},
		SpeedMph:  45.67,
	}
}

func newTestCoordinator(t *testing.T, f Fetcher, pub Publisher) *Coordinator {
	t.Helper()
	c, err := New(f, Config{Interval: time.Second, Publisher: pub})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return c
}

func TestPollOnce_NewThrow(t *testing.T) {
	f := &fakeFetcher{steps: []step{{throw: throwAt(1000, 500_000_000)}}}
	pub := &countingPublisher{}
	c := newTestCoordinator(t, f, pub)

	out := c.PollOnce(context.Background())
	if out.Kind != OutcomeNewThrow {
		t.Fatalf("kind=%v, want new_throw", out.Kind)
	}
	if cur, ok := c.Cursor(); !ok || cur != 1_000_500 {
		t.Fatalf("cursor=%d ok=%v, want 1000500 true", cur, ok)
	}
	if c.Snapshot() == nil {
		t.Fatalf("snapshot empty after success")
	}
	if c.State() != StateReady {
		t.Fatalf("state=%v, want ready", c.State())
	}
	if pub.count() != 1 {
		t.Fatalf("publish count=%d, want 1", pub.count())
	}
	// First request carries no cursor.
	if f.cursors[0] != -1 {
		t.Fatalf("first request cursor=%d, want -1", f.cursors[0])
	}
}

func TestPollOnce_DuplicateSuppressed(t *testing.T) {
	f := &fakeFetcher{steps: []step{
		{throw: throwAt(1000, 500_000_000)},
		{throw: throwAt(1000, 500_000_000)},
	}}
	pub := &countingPublisher{}
	c := newTestCoordinator(t, f, pub)

	c.PollOnce(context.Background())
	first := c.Snapshot()

	out := c.PollOnce(context.Background())
	if out.Kind != OutcomeUnchanged {
		t.Fatalf("kind=%v, want unchanged", out.Kind)
	}
	if c.Snapshot() != first {
		t.Fatalf("snapshot replaced on duplicate delivery")
	}
	if pub.count() != 1 {
		t.Fatalf("publish count=%d, want 1", pub.count())
	}
	// Second request carries the cursor from the first.
	if f.cursors[1] != 1_000_500 {
		t.Fatalf("second request cursor=%d, want 1000500", f.cursors[1])
	}
}

func TestPollOnce_CursorMonotonic(t *testing.T) {
	f := &fakeFetcher{steps: []step{
		{throw: throwAt(1000, 0)},
		{throw: throwAt(1001, 0)},
		{throw: throwAt(1002, 250_000_000)},
	}}
	c := newTestCoordinator(t, f, nil)

	var last int64 = -1
	for i := 0; i < 3; i++ {
		out := c.PollOnce(context.Background())
		if out.Kind != OutcomeNewThrow {
			t.Fatalf("cycle %d: kind=%v, want new_throw", i, out.Kind)
		}
		cur, _ := c.Cursor()
		if cur < last {
			t.Fatalf("cycle %d: cursor moved backward (%d < %d)", i, cur, last)
		}
		last = cur
	}

	if last != 1_002_250 {
		t.Fatalf("final cursor=%d, want 1002250", last)
	}
	if snap := c.Snapshot(); snap == nil || *snap.ThrowTime.Seconds != 1002 {
		t.Fatalf("snapshot does not reflect most recent fetch")
	}
}

func TestPollOnce_OlderTimestampIgnored(t *testing.T) {
	f := &fakeFetcher{steps: []step{
		{throw: throwAt(2000, 0)},
		{throw: throwAt(1000, 0)},
	}}
	c := newTestCoordinator(t, f, nil)

	c.PollOnce(context.Background())
	out := c.PollOnce(context.Background())
	if out.Kind != OutcomeUnchanged {
		t.Fatalf("kind=%v, want unchanged", out.Kind)
	}
	if cur, _ := c.Cursor(); cur != 2_000_000 {
		t.Fatalf("cursor=%d, want 2000000", cur)
	}
}

func TestPollOnce_TransientFailureAfterSuccess(t *testing.T) {
	f := &fakeFetcher{steps: []step{
		{throw: throwAt(1000, 0)},
		{err: &techdisc.FetchError{Kind: techdisc.ErrTimeout}},
	}}
	c := newTestCoordinator(t, f, nil)

	c.PollOnce(context.Background())
	snap := c.Snapshot()

	out := c.PollOnce(context.Background())
	if out.Kind != OutcomeRecoverable {
		t.Fatalf("kind=%v, want recoverable", out.Kind)
	}
	if c.State() != StateDegraded {
		t.Fatalf("state=%v, want degraded", c.State())
	}
	if c.Snapshot() != snap {
		t.Fatalf("snapshot lost on transient failure")
	}
	if cur, _ := c.Cursor(); cur != 1_000_000 {
		t.Fatalf("cursor changed on transient failure: %d", cur)
	}
}

func TestPollOnce_TransientFailureBeforeSuccess(t *testing.T) {
	f := &fakeFetcher{steps: []step{
		{err: &techdisc.FetchError{Kind: techdisc.ErrNetwork}},
	}}
	c := newTestCoordinator(t, f, nil)

	out := c.PollOnce(context.Background())
	if out.Kind != OutcomeRecoverable {
		t.Fatalf("kind=%v, want recoverable", out.Kind)
	}
	if c.State() != StateFailed {
		t.Fatalf("state=%v, want failed", c.State())
	}
	if c.Snapshot() != nil {
		t.Fatalf("snapshot set despite no success")
	}
	if out.Err == nil {
		t.Fatalf("expected error surfaced")
	}
}

func TestPollOnce_BadStatusAlwaysSurfaces(t *testing.T) {
	f := &fakeFetcher{steps: []step{
		{throw: throwAt(1000, 0)},
		{err: &techdisc.FetchError{Kind: techdisc.ErrBadStatus, Status: 500}},
	}}
	c := newTestCoordinator(t, f, nil)

	c.PollOnce(context.Background())
	snap := c.Snapshot()

	out := c.PollOnce(context.Background())
	if out.Kind != OutcomeFatal {
		t.Fatalf("kind=%v, want fatal", out.Kind)
	}
	if out.Err == nil {
		t.Fatalf("bad status must surface an error")
	}
	if c.Snapshot() != snap {
		t.Fatalf("snapshot destroyed by bad status")
	}
	if c.State() != StateDegraded {
		t.Fatalf("state=%v, want degraded", c.State())
	}
	if c.LastError() == nil {
		t.Fatalf("last error not recorded")
	}
}

func TestPollOnce_NoTimestampIsNoNewData(t *testing.T) {
	f := &fakeFetcher{steps: []step{
		{throw: &techdisc.Throw{SpeedMph: 12.3}},
	}}
	c := newTestCoordinator(t, f, nil)

	out := c.PollOnce(context.Background())
	if out.Kind != OutcomeUnchanged {
		t.Fatalf("kind=%v, want unchanged", out.Kind)
	}
	if c.Snapshot() != nil {
		t.Fatalf("snapshot must stay absent on malformed timestamp")
	}
	if c.State() != StateReady {
		t.Fatalf("state=%v, want ready", c.State())
	}
	if _, ok := c.Cursor(); ok {
		t.Fatalf("cursor must stay unset")
	}
}

func TestPollOnce_SuccessClearsLastError(t *testing.T) {
	f := &fakeFetcher{steps: []step{
		{err: &techdisc.FetchError{Kind: techdisc.ErrTimeout}},
		{throw: throwAt(1000, 0)},
	}}
	c := newTestCoordinator(t, f, nil)

	c.PollOnce(context.Background())
	if c.LastError() == nil {
		t.Fatalf("last error not recorded")
	}

	c.PollOnce(context.Background())
	if c.LastError() != nil {
		t.Fatalf("last error not cleared on success")
	}
}

type blockingFetcher struct {
	started chan struct{}
	throw   *techdisc.Throw
}

func (f *blockingFetcher) FetchLatest(ctx context.Context, cursor int64) (*techdisc.Throw, error) {
	close(f.started)
	<-ctx.Done()
	// Simulate a response that raced with cancellation.
	return f.throw, nil
}

func TestPollOnce_CancelledFetchNeverWrites(t *testing.T) {
	f := &blockingFetcher{started: make(chan struct{}), throw: throwAt(1000, 0)}
	c := newTestCoordinator(t, f, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Outcome, 1)
	go func() { done <- c.PollOnce(ctx) }()

	<-f.started
	cancel()
	out := <-done

	if out.Kind == OutcomeNewThrow {
		t.Fatalf("cancelled cycle applied a result")
	}
	if c.Snapshot() != nil {
		t.Fatalf("cancelled cycle wrote snapshot")
	}
	if _, ok := c.Cursor(); ok {
		t.Fatalf("cancelled cycle wrote cursor")
	}
	if c.State() != StateIdle {
		t.Fatalf("state=%v, want idle restored", c.State())
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, Config{Interval: time.Second}); err == nil {
		t.Fatalf("expected error for nil fetcher")
	}
	if _, err := New(&fakeFetcher{steps: []step{{}}}, Config{}); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}
