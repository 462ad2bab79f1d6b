package oprf

import (
	"errors"
	"fmt"

	"github.com/coinbase/pwharden-go/pkg/pwharden/curve"
)

// ErrMalformedMessage indicates a protocol message that does not carry a
// valid non-identity group element.
var ErrMalformedMessage = errors.New("oprf: malformed message")

// BlindedElement is the only message the client sends: H(pwd)·b.
type BlindedElement struct {
	point *curve.Point
}

// EvaluatedElement is the only message the evaluator sends: H(pwd)·b·k.
type EvaluatedElement struct {
	point *curve.Point
}

func marshalPoint(p *curve.Point) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil element", ErrMalformedMessage)
	}
	b, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return b, nil
}

func unmarshalPoint(data []byte) (*curve.Point, error) {
	if len(data) != curve.CompressedPointSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedMessage, curve.CompressedPointSize, len(data))
	}
	p, err := curve.NewPointFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if p.IsIdentity() {
		return nil, fmt.Errorf("%w: identity element", ErrMalformedMessage)
	}
	return p, nil
}

// Element returns the carried group element.
func (m *BlindedElement) Element() *curve.Point { return m.point }

// MarshalBinary encodes the element in SEC1 compressed form.
func (m *BlindedElement) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil message", ErrMalformedMessage)
	}
	return marshalPoint(m.point)
}

// UnmarshalBinary decodes and validates a compressed element.
func (m *BlindedElement) UnmarshalBinary(data []byte) error {
	p, err := unmarshalPoint(data)
	if err != nil {
		return err
	}
	m.point = p
	return nil
}

// Element returns the carried group element.
func (m *EvaluatedElement) Element() *curve.Point { return m.point }

// MarshalBinary encodes the element in SEC1 compressed form.
func (m *EvaluatedElement) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil message", ErrMalformedMessage)
	}
	return marshalPoint(m.point)
}

// UnmarshalBinary decodes and validates a compressed element.
func (m *EvaluatedElement) UnmarshalBinary(data []byte) error {
	p, err := unmarshalPoint(data)
	if err != nil {
		return err
	}
	m.point = p
	return nil
}
