// Package session orchestrates the vault lifecycle: login in its four
// flavors, the active session's in-memory bundle, backup, recovery and
// logout. The controller is the only writer of session state, and it writes
// by wholesale replacement so readers never observe a half-mutated bundle.
package session

import (
	"errors"

	"github.com/Jaziel8910/weaver-vault/internal/bundle"
)

type State int

const (
	StateLoggedOut State = iota
	StateActive
)

var (
	ErrNotLoggedIn     = errors.New("session: not logged in")
	ErrAlreadyLoggedIn = errors.New("session: already logged in")

	// ErrOperationInFlight enforces at-most-one in-flight vault mutation.
	ErrOperationInFlight = errors.New("session: another vault operation is in flight")

	// ErrStaleOperation means an operation finished after the session
	// changed state underneath it; its result was dropped.
	ErrStaleOperation = errors.New("session: operation outlived the session, result dropped")

	// ErrThrottled rejects a login or recovery attempt over the rate limit.
	ErrThrottled = errors.New("session: too many attempts")

	// ErrGuestSession rejects persistence operations for guest sessions;
	// nothing a guest does may survive logout.
	ErrGuestSession = errors.New("session: not available in a guest session")

	ErrCapabilityDisabled = errors.New("session: capability disabled in compatibility mode")
)

// Snapshot is a read-only copy of the live session handed to display logic.
type Snapshot struct {
	Bundle     bundle.VaultBundle
	Guest      bool
	Generation uint64
}
