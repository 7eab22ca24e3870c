package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPayload marks a payload that cannot be normalized (missing
	// or malformed URL, no text). The article is dropped, not the batch.
	ErrInvalidPayload = errors.New("invalid article payload")

	// ErrInsufficientText marks an article whose text is empty after
	// trimming. The article is skipped, not failed.
	ErrInsufficientText = errors.New("insufficient text for scoring")

	// ErrConstraintViolated marks a result whose numeric bounds are broken.
	// Rejected before any SQL executes.
	ErrConstraintViolated = errors.New("constraint violated")

	// ErrConflict marks a unique-key race. Resolved inside the store layer
	// by re-reading the winner; never surfaces to the orchestrator.
	ErrConflict = errors.New("unique key conflict")

	// ErrEntityNotMatched marks an article no tracked entity claims.
	ErrEntityNotMatched = errors.New("no tracked entity matched")

	ErrEntityNotFound  = errors.New("entity not found")
	ErrArticleNotFound = errors.New("article not found")
)

// TransientStoreError wraps connection-level store failures that are safe
// to retry with backoff. Everything else from the store is permanent.
type TransientStoreError struct {
	Op  string
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("transient store error during %s: %v", e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error { return e.Err }

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var t *TransientStoreError
	return errors.As(err, &t)
}
