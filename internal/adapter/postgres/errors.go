package postgres

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/losthumanity/SentimentFinance/internal/domain"
)

// PostgreSQL error codes that indicate a retryable condition.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeAdminShutdown        = "57P01"
	codeCannotConnectNow     = "57P03"

	pgConnectionExceptionClass = "08"
)

// classify maps a store-level failure onto the pipeline's error taxonomy.
// Connection loss, timeouts, deadlocks, and serialization failures become
// TransientStoreError and are retried upstream; everything else, including
// constraint violations, is permanent. Context cancellation passes through
// untouched so the orchestrator can distinguish shutdown from failure.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if isTransient(err) {
		return &domain.TransientStoreError{Op: op, Err: err}
	}
	return err
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// A lost unique-key race whose winner rolled back; the next attempt
	// settles it.
	if errors.Is(err, domain.ErrConflict) {
		return true
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeAdminShutdown, codeCannotConnectNow:
			return true
		}
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == pgConnectionExceptionClass {
			return true
		}
	}

	return false
}
