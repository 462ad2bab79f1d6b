package oprf

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/coinbase/pwharden-go/pkg/pwharden/curve"
)

// KeyPolicy selects how the evaluator obtains its secret scalar k.
type KeyPolicy uint8

const (
	// KeyPerCall samples a fresh k for every evaluation. Two hardening runs
	// with the same password produce different keys. This reproduces the
	// single-process demonstration behavior.
	KeyPerCall KeyPolicy = iota

	// KeyFixed uses one caller-supplied k for every evaluation, which is what
	// an OPRF deployment requires for outputs to be reproducible.
	KeyFixed
)

func (p KeyPolicy) String() string {
	switch p {
	case KeyPerCall:
		return "per-call"
	case KeyFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// ParseKeyPolicy maps the String form of a policy back to its value. The
// empty string selects KeyPerCall.
func ParseKeyPolicy(s string) (KeyPolicy, error) {
	switch s {
	case "", "per-call":
		return KeyPerCall, nil
	case "fixed":
		return KeyFixed, nil
	default:
		return 0, fmt.Errorf("%w: unknown key policy %q", ErrEvaluatorKey, s)
	}
}

// ErrEvaluatorKey indicates an unusable evaluator configuration.
var ErrEvaluatorKey = errors.New("oprf: invalid evaluator key")

// Evaluator is the key-holding role. It only ever sees blinded elements.
type Evaluator struct {
	policy KeyPolicy
	rand   io.Reader
	key    *curve.Scalar
}

// NewEvaluator returns an Evaluator that samples k from r for each request.
func NewEvaluator(r io.Reader) *Evaluator {
	return &Evaluator{policy: KeyPerCall, rand: r}
}

// NewFixedKeyEvaluator returns an Evaluator that applies key to every request.
// The key is copied.
func NewFixedKeyEvaluator(key *curve.Scalar) (*Evaluator, error) {
	if key.IsZero() {
		return nil, fmt.Errorf("%w: zero key", ErrEvaluatorKey)
	}
	return &Evaluator{policy: KeyFixed, key: key.Copy()}, nil
}

// Policy reports the key policy of e.
func (e *Evaluator) Policy() KeyPolicy { return e.policy }

// Evaluate returns the blinded element multiplied by the evaluator secret.
func (e *Evaluator) Evaluate(req *BlindedElement) (*EvaluatedElement, error) {
	if req == nil || req.point == nil || req.point.IsIdentity() {
		return nil, fmt.Errorf("%w: blinded element", ErrMalformedMessage)
	}

	switch e.policy {
	case KeyFixed:
		return &EvaluatedElement{point: req.point.Mul(e.key)}, nil
	case KeyPerCall:
		k, err := curve.RandomScalar(e.rand)
		if err != nil {
			return nil, err
		}
		defer k.Zeroize()
		return &EvaluatedElement{point: req.point.Mul(k)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown policy %d", ErrEvaluatorKey, e.policy)
	}
}

// Serve answers a single request from peer over t.
func (e *Evaluator) Serve(ctx context.Context, t Transport, peer RoleID) error {
	in, err := t.Receive(ctx, peer)
	if err != nil {
		return fmt.Errorf("receive blinded element: %w", err)
	}

	var req BlindedElement
	if err := req.UnmarshalBinary(in); err != nil {
		return err
	}

	ev, err := e.Evaluate(&req)
	if err != nil {
		return err
	}

	out, err := ev.MarshalBinary()
	if err != nil {
		return err
	}
	if err := t.Send(ctx, peer, out); err != nil {
		return fmt.Errorf("send evaluated element: %w", err)
	}
	return nil
}

// Zeroize clears a fixed key held by e.
func (e *Evaluator) Zeroize() {
	e.key.Zeroize()
}
