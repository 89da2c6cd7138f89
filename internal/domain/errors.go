package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery blocks a search submitted without query text.
	ErrEmptyQuery = errors.New("query text is empty")
	// ErrNoCollection blocks a search without a selected collection.
	ErrNoCollection = errors.New("no collection selected")
	// ErrNoCollections means the store is reachable but holds no collections.
	ErrNoCollections = errors.New("no collections available")
	// ErrInvalidTopK rejects a result count outside [1,10].
	ErrInvalidTopK = fmt.Errorf("top k must be between %d and %d", MinTopK, MaxTopK)
)

// StoreError wraps a failed store call (network, auth or store-side failure).
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// MalformedResultError reports a result property that failed to parse. It is
// surfaced per result and does not abort rendering of other results.
type MalformedResultError struct {
	Property string
	Value    string
}

func (e *MalformedResultError) Error() string {
	return fmt.Sprintf("malformed %s value %q", e.Property, e.Value)
}
