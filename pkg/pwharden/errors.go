package pwharden

import (
	"context"
	"errors"
	"fmt"

	"github.com/coinbase/pwharden-go/pkg/pwharden/curve"
	"github.com/coinbase/pwharden-go/pkg/pwharden/ksf"
	"github.com/coinbase/pwharden-go/pkg/pwharden/oprf"
)

var (
	// ErrConfiguration indicates invalid parameters, detected before any
	// randomness is consumed or any point arithmetic happens.
	ErrConfiguration = errors.New("pwharden: invalid configuration")

	// ErrArithmetic indicates a non-invertible scalar or an identity point.
	ErrArithmetic = errors.New("pwharden: arithmetic failure")

	// ErrRandomness indicates the random source failed or kept producing
	// zero scalars.
	ErrRandomness = errors.New("pwharden: randomness failure")

	// ErrResource indicates the key derivation could not get its memory.
	ErrResource = errors.New("pwharden: resource exhausted")

	// ErrProtocol indicates a malformed message or a transport failure
	// between the client and the evaluator.
	ErrProtocol = errors.New("pwharden: protocol failure")
)

// Error wraps an underlying error with the operation that failed and its
// category. errors.Is matches both the category and the cause.
type Error struct {
	Op   string // Operation that failed
	Kind error  // One of the Err* categories above
	Err  error  // Underlying error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pwharden.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// wrap attaches op and a category derived from err. Errors that are already
// an *Error pass through unchanged.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Op: op, Kind: classify(err), Err: err}
}

func errorf(op string, kind error, format string, args ...any) error {
	return &Error{
		Op:   op,
		Kind: kind,
		Err:  fmt.Errorf(format, args...),
	}
}

func classify(err error) error {
	switch {
	case errors.Is(err, ksf.ErrInvalidParams),
		errors.Is(err, ksf.ErrInvalidSalt),
		errors.Is(err, oprf.ErrEvaluatorKey),
		errors.Is(err, curve.ErrInvalidScalar):
		return ErrConfiguration
	case errors.Is(err, curve.ErrNotInvertible),
		errors.Is(err, curve.ErrIdentity):
		return ErrArithmetic
	case errors.Is(err, curve.ErrRandomness):
		return ErrRandomness
	case errors.Is(err, ksf.ErrResource):
		return ErrResource
	default:
		// Malformed messages, client misuse, transport and context errors.
		return ErrProtocol
	}
}

// isContextErr reports whether err stems from cancellation.
func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
