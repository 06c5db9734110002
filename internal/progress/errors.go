package progress

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCounter     = errors.New("unknown counter")
	ErrUnknownAchievement = errors.New("unknown achievement")
	ErrInvalidRating      = errors.New("rating must be between 0 and 5")
	ErrEmptyObjectID      = errors.New("object id is required")
)

// StorageError wraps a failure of the underlying key-value store or of the
// record encoding stored under Key.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("progress: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Key: key, Err: err}
}

// Policy decides what the tracker does with storage errors.
type Policy int

const (
	// BestEffort logs storage errors and carries on with zero values.
	BestEffort Policy = iota
	// Strict aborts the operation on the first storage error.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "best_effort"
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "best_effort", "best-effort", "besteffort":
		return BestEffort, nil
	case "strict":
		return Strict, nil
	}
	return BestEffort, fmt.Errorf("unknown storage policy %q", s)
}
