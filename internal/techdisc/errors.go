// internal/techdisc/errors.go
package techdisc

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fetch failure.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrNetwork
	ErrTimeout
	ErrBadStatus
	ErrDecode
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNetwork:
		return "network"
	case ErrTimeout:
		return "timeout"
	case ErrBadStatus:
		return "bad_status"
	case ErrDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is the typed failure of a single fetch.
type FetchError struct {
	Kind   ErrorKind
	Status int   // HTTP status, set for ErrBadStatus
	Err    error // underlying cause, may be nil
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ErrBadStatus:
		return fmt.Sprintf("techdisc: unexpected status %d", e.Status)
	case ErrTimeout:
		return fmt.Sprintf("techdisc: request timed out: %v", e.Err)
	case ErrDecode:
		return fmt.Sprintf("techdisc: malformed response body: %v", e.Err)
	default:
		return fmt.Sprintf("techdisc: request failed: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Recoverable reports whether the failure is an expected transient condition
// (timeout or transport) rather than a contract break.
func (e *FetchError) Recoverable() bool {
	return e.Kind == ErrTimeout || e.Kind == ErrNetwork
}

// KindOf extracts the fetch error kind from an error chain.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ErrUnknown
}
