package oprf

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/coinbase/pwharden-go/pkg/pwharden/curve"
)

// ErrClientState indicates Blind/Finalize were called out of order or twice.
var ErrClientState = errors.New("oprf: invalid client state")

// Blind returns p·b.
func Blind(p *curve.Point, b *curve.Scalar) *curve.Point {
	return p.Mul(b)
}

// Unblind returns p·b⁻¹. A zero blind cannot be inverted and yields
// curve.ErrNotInvertible.
func Unblind(p *curve.Point, b *curve.Scalar) (*curve.Point, error) {
	inv, err := b.Invert()
	if err != nil {
		return nil, err
	}
	defer inv.Zeroize()
	return p.Mul(inv), nil
}

// Client is the password-holding role. A Client runs exactly one
// Blind/Finalize pair; its blinding scalar is sampled in Blind, never leaves
// the Client, and is cleared by Finalize.
type Client struct {
	rand  io.Reader
	blind *curve.Scalar
	done  bool
}

// NewClient returns a Client drawing its blind from r.
func NewClient(r io.Reader) *Client {
	return &Client{rand: r}
}

// Blind maps password to the curve and masks it with a fresh blind.
func (c *Client) Blind(password []byte) (*BlindedElement, error) {
	if c.blind != nil || c.done {
		return nil, fmt.Errorf("%w: blind already sampled", ErrClientState)
	}

	p, err := curve.HashToCurve(password)
	if err != nil {
		return nil, err
	}

	b, err := curve.RandomScalar(c.rand)
	if err != nil {
		return nil, err
	}
	c.blind = b

	return &BlindedElement{point: Blind(p, b)}, nil
}

// Finalize strips the blind from the evaluator's response and returns
// H(pwd)·k. The blind is zeroized whether or not unblinding succeeds.
func (c *Client) Finalize(ev *EvaluatedElement) (*curve.Point, error) {
	if c.blind == nil {
		return nil, fmt.Errorf("%w: finalize before blind", ErrClientState)
	}
	defer c.Discard()

	if ev == nil || ev.point == nil {
		return nil, fmt.Errorf("%w: nil evaluation", ErrMalformedMessage)
	}
	return Unblind(ev.point, c.blind)
}

// Run drives the client side over t: blind, send to peer, wait for the
// evaluation, finalize.
func (c *Client) Run(ctx context.Context, t Transport, peer RoleID, password []byte) (*curve.Point, error) {
	req, err := c.Blind(password)
	if err != nil {
		return nil, err
	}

	out, err := req.MarshalBinary()
	if err != nil {
		c.Discard()
		return nil, err
	}
	if err := t.Send(ctx, peer, out); err != nil {
		c.Discard()
		return nil, fmt.Errorf("send blinded element: %w", err)
	}

	in, err := t.Receive(ctx, peer)
	if err != nil {
		c.Discard()
		return nil, fmt.Errorf("receive evaluated element: %w", err)
	}

	var ev EvaluatedElement
	if err := ev.UnmarshalBinary(in); err != nil {
		c.Discard()
		return nil, err
	}
	return c.Finalize(&ev)
}

// Discard zeroizes any outstanding blind and retires c. It is safe to call
// at any point, including more than once.
func (c *Client) Discard() {
	if c.blind != nil {
		c.blind.Zeroize()
		c.blind = nil
	}
	c.done = true
}
