package pwharden

import (
	"context"
	"crypto/rand"
	"io"

	"github.com/coinbase/pwharden-go/pkg/pwharden/curve"
	"github.com/coinbase/pwharden-go/pkg/pwharden/ksf"
	"github.com/coinbase/pwharden-go/pkg/pwharden/logging"
	"github.com/coinbase/pwharden-go/pkg/pwharden/mocknet"
	"github.com/coinbase/pwharden-go/pkg/pwharden/oprf"
)

// Option customizes a Hardener.
type Option func(*Hardener)

// WithRand replaces crypto/rand.Reader as the source of blinding scalars and
// per-call evaluator keys. The reader must be safe for concurrent use if the
// Hardener is.
func WithRand(r io.Reader) Option {
	return func(h *Hardener) { h.rand = r }
}

// WithLogger sets the logger for stage transitions. Secrets are never logged.
func WithLogger(l logging.Logger) Option {
	return func(h *Hardener) { h.logger = l }
}

// WithObserver registers fn on the transport of every call so callers can
// inspect the messages exchanged between client and evaluator.
func WithObserver(fn mocknet.Observer) Option {
	return func(h *Hardener) { h.observers = append(h.observers, fn) }
}

// Hardener turns passwords into derived keys. It holds no per-call state and
// is safe for concurrent use.
type Hardener struct {
	params    ksf.Params
	salt      []byte
	stretcher *ksf.Stretcher
	evaluator *oprf.Evaluator // fixed-key evaluator; nil under KeyPerCall
	rand      io.Reader
	logger    logging.Logger
	observers []Observer
}

// Observer is the callback type accepted by WithObserver.
type Observer = mocknet.Observer

// New validates cfg and returns a Hardener. No randomness is read and no
// point arithmetic happens when cfg is invalid.
func New(cfg Config, opts ...Option) (*Hardener, error) {
	const op = "New"

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := &Hardener{
		params: cfg.KSF,
		salt:   append([]byte(nil), cfg.salt()...),
		rand:   rand.Reader,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.rand == nil {
		return nil, errorf(op, ErrConfiguration, "nil random source")
	}
	if h.logger == nil {
		h.logger = logging.New(nil)
	}

	stretcher, err := ksf.New(cfg.KSF, cfg.MaxMemoryKiB)
	if err != nil {
		return nil, wrap(op, err)
	}
	h.stretcher = stretcher

	if cfg.KeyPolicy == oprf.KeyFixed {
		k, err := curve.NewScalarFromBytes(cfg.EvaluatorKey)
		if err != nil {
			return nil, wrap(op, err)
		}
		defer k.Zeroize()

		ev, err := oprf.NewFixedKeyEvaluator(k)
		if err != nil {
			return nil, wrap(op, err)
		}
		h.evaluator = ev
	}
	return h, nil
}

// Params returns the Argon2i parameters in use.
func (h *Hardener) Params() ksf.Params { return h.params }

// KeyPolicy reports how the evaluator obtains its secret.
func (h *Hardener) KeyPolicy() oprf.KeyPolicy {
	if h.evaluator != nil {
		return h.evaluator.Policy()
	}
	return oprf.KeyPerCall
}

// Harden runs one protocol round for password and returns the derived key.
//
// The client blinds H(password), the evaluator multiplies the blinded point
// by its secret, the client removes the blind and stretches
// password ‖ H(password)·k with Argon2i. Client and evaluator exchange
// messages over an in-process transport; password is not modified.
//
// Under oprf.KeyPerCall two calls with the same password return different
// keys. Use oprf.KeyFixed when outputs must be reproducible.
func (h *Hardener) Harden(ctx context.Context, password []byte) ([]byte, error) {
	const op = "Harden"

	if err := ctx.Err(); err != nil {
		return nil, wrap(op, err)
	}

	net := mocknet.New()
	for _, fn := range h.observers {
		net.Observe(fn)
	}
	clientEp, evaluatorEp := net.Pair()

	evaluator := h.evaluator
	if evaluator == nil {
		evaluator = oprf.NewEvaluator(h.rand)
	}

	log := h.logger.With("op", op, "key_policy", evaluator.Policy().String())
	log.Debug(ctx, "hardening password", logging.Redacted("password"))

	client := oprf.NewClient(h.rand)
	defer client.Discard()

	req, err := client.Blind(password)
	if err != nil {
		return nil, h.fail(ctx, log, op, "blind", err)
	}
	msg, err := req.MarshalBinary()
	if err != nil {
		return nil, h.fail(ctx, log, op, "blind", err)
	}
	if err := clientEp.Send(ctx, oprf.RoleEvaluator.ID(), msg); err != nil {
		return nil, h.fail(ctx, log, op, "send", err)
	}
	log.Debug(ctx, "blinded element sent", "role", oprf.RoleClient.String())

	if err := evaluator.Serve(ctx, evaluatorEp, oprf.RoleClient.ID()); err != nil {
		return nil, h.fail(ctx, log, op, "evaluate", err)
	}
	log.Debug(ctx, "blinded element evaluated", "role", oprf.RoleEvaluator.String())

	in, err := clientEp.Receive(ctx, oprf.RoleEvaluator.ID())
	if err != nil {
		return nil, h.fail(ctx, log, op, "receive", err)
	}
	var resp oprf.EvaluatedElement
	if err := resp.UnmarshalBinary(in); err != nil {
		return nil, h.fail(ctx, log, op, "receive", err)
	}

	point, err := client.Finalize(&resp)
	if err != nil {
		return nil, h.fail(ctx, log, op, "unblind", err)
	}
	log.Debug(ctx, "evaluation unblinded")

	if err := ctx.Err(); err != nil {
		return nil, h.fail(ctx, log, op, "derive", err)
	}
	key, err := h.stretcher.Derive(password, point, h.salt)
	if err != nil {
		return nil, h.fail(ctx, log, op, "derive", err)
	}
	log.Debug(ctx, "key derived", logging.Redacted("key"), "key_length", len(key))
	return key, nil
}

func (h *Hardener) fail(ctx context.Context, log logging.Logger, op, stage string, err error) error {
	err = wrap(op, err)
	if isContextErr(err) {
		log.Debug(ctx, "hardening canceled", "stage", stage)
	} else {
		log.Warn(ctx, "hardening failed", "stage", stage, "error", err)
	}
	return err
}

// Close zeroizes the fixed evaluator key, if any. The Hardener must not be
// used afterwards.
func (h *Hardener) Close() {
	if h.evaluator != nil {
		h.evaluator.Zeroize()
	}
}

// GeneratePassword derives a 32-byte key from password with DefaultConfig.
// Each call uses a fresh evaluator secret, so repeated calls with the same
// password return different keys.
func GeneratePassword(password string) ([]byte, error) {
	h, err := New(DefaultConfig())
	if err != nil {
		return nil, err
	}

	pw := []byte(password)
	defer ZeroizeBytes(pw)
	return h.Harden(context.Background(), pw)
}
