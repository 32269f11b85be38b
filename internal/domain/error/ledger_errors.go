package error

import (
	"errors"

	"github.com/google/uuid"
)

// Ledger domain errors.
var (
	// ErrConcurrentModification is returned when a group changed since the caller's snapshot.
	ErrConcurrentModification = errors.New("group was modified concurrently")

	// ErrLedgerInconsistency is returned when balances violate conservation.
	ErrLedgerInconsistency = errors.New("ledger is inconsistent")
)

// LedgerErrorCode defines error codes for ledger errors.
// Format: LDG-XXYYYY where XX is category and YYYY is specific error.
type LedgerErrorCode string

const (
	ErrCodeConcurrentModification LedgerErrorCode = "LDG-040001"
	ErrCodeLedgerInconsistency    LedgerErrorCode = "LDG-050001"
)

// LedgerError represents a ledger-wide failure. Balances carries the snapshot
// that failed the check so it can be logged; it must never reach a client.
type LedgerError struct {
	Code     LedgerErrorCode
	Message  string
	Err      error
	Balances map[uuid.UUID]int64
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewConcurrentModificationError creates the error returned on a version mismatch.
func NewConcurrentModificationError() *LedgerError {
	return &LedgerError{
		Code:    ErrCodeConcurrentModification,
		Message: "group has changed, reload and retry",
		Err:     ErrConcurrentModification,
	}
}

// NewLedgerInconsistencyError creates the error returned when conservation fails.
func NewLedgerInconsistencyError(message string, balances map[uuid.UUID]int64) *LedgerError {
	snapshot := make(map[uuid.UUID]int64, len(balances))
	for id, v := range balances {
		snapshot[id] = v
	}
	return &LedgerError{
		Code:     ErrCodeLedgerInconsistency,
		Message:  message,
		Err:      ErrLedgerInconsistency,
		Balances: snapshot,
	}
}
