// internal/coordinator/types.go
package coordinator

import "github.com/techdisc-bridge/internal/techdisc"

// State is the coordinator's externally visible lifecycle state.
type State int32

const (
	StateIdle State = iota
	StatePolling
	StateReady
	StateDegraded // fetches failing transiently, last throw still served
	StateFailed   // only reachable before any success
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OutcomeKind tags the result of one poll cycle.
type OutcomeKind int

const (
	OutcomeNewThrow OutcomeKind = iota
	OutcomeUnchanged
	OutcomeRecoverable
	OutcomeFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNewThrow:
		return "new_throw"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeRecoverable:
		return "recoverable"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is the applied result of one poll cycle.
type Outcome struct {
	Kind  OutcomeKind
	Throw *techdisc.Throw // set for OutcomeNewThrow
	Err   error           // set for failure outcomes
}

// Publisher receives each newly observed throw, at most once per throw.
type Publisher interface {
	Publish(*techdisc.Throw)
}
