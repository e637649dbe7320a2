package gateway

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a gateway failure.
type Kind int

const (
	// KindUnknown is an unclassified failure, treated as transient.
	KindUnknown Kind = iota
	// KindTransient covers network, timeout, and availability failures.
	// Callers degrade to local-only persistence.
	KindTransient
	// KindNotFound is a missing record on update or delete. Callers
	// treat it as an idempotent no-op.
	KindNotFound
	// KindValidation is a rejection before any write was attempted.
	KindValidation
	// KindSessionCorrupted is a malformed-request or malformed-payload
	// signature on the bulk-fetch path. The only correct reaction is
	// purging local state and restarting the session.
	KindSessionCorrupted
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindSessionCorrupted:
		return "session_corrupted"
	}
	return "unknown"
}

// Error is a gateway failure with a structural kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// wrap builds a classified gateway error.
func wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Classify returns the kind of a gateway failure. Context cancellation
// and deadline expiry rank as transient; anything unclassified does too,
// so an unexpected failure can never trigger the destructive recovery.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransient
	}
	return KindTransient
}

// IsNotFound reports whether err classifies as a missing record.
func IsNotFound(err error) bool {
	return Classify(err) == KindNotFound
}
