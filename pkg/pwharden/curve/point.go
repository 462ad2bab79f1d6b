package curve

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

var (
	// ErrIdentity is returned when the point at infinity shows up where a
	// proper group element is required.
	ErrIdentity = errors.New("curve: point at infinity")

	// ErrInvalidPoint indicates bytes that do not decode to a curve point.
	ErrInvalidPoint = errors.New("curve: invalid point encoding")
)

// Point is an element of the secp256k1 group, kept in Jacobian coordinates.
// Points are immutable: every operation returns a new Point.
type Point struct {
	p btcec.JacobianPoint
}

// Generator returns the fixed base point G.
func Generator() *Point {
	var one btcec.ModNScalar
	one.SetInt(1)

	out := new(Point)
	btcec.ScalarBaseMultNonConst(&one, &out.p)
	return out
}

// MulGenerator returns s·G.
func MulGenerator(s *Scalar) *Point {
	out := new(Point)
	btcec.ScalarBaseMultNonConst(&s.s, &out.p)
	return out
}

// NewPointFromBytes decodes a SEC1 compressed or uncompressed point. The
// bytes must describe a point on the curve; the identity has no encoding.
func NewPointFromBytes(b []byte) (*Point, error) {
	pub, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}

	out := new(Point)
	pub.AsJacobian(&out.p)
	return out, nil
}

// Mul returns s·p.
func (p *Point) Mul(s *Scalar) *Point {
	out := new(Point)
	btcec.ScalarMultNonConst(&s.s, &p.p, &out.p)
	return out
}

// Add returns p+q.
func (p *Point) Add(q *Point) *Point {
	out := new(Point)
	btcec.AddNonConst(&p.p, &q.p, &out.p)
	return out
}

// IsIdentity reports whether p is the point at infinity.
func (p *Point) IsIdentity() bool {
	return (p.p.X.IsZero() && p.p.Y.IsZero()) || p.p.Z.IsZero()
}

func (p *Point) affine() (*btcec.PublicKey, error) {
	if p == nil || p.IsIdentity() {
		return nil, ErrIdentity
	}

	var a btcec.JacobianPoint
	a.Set(&p.p)
	a.ToAffine()
	return btcec.NewPublicKey(&a.X, &a.Y), nil
}

// Bytes returns the 33-byte SEC1 compressed encoding. This is the wire format
// between client and evaluator.
func (p *Point) Bytes() ([]byte, error) {
	pub, err := p.affine()
	if err != nil {
		return nil, err
	}
	return pub.SerializeCompressed(), nil
}

// BytesUncompressed returns the 65-byte SEC1 uncompressed encoding.
func (p *Point) BytesUncompressed() ([]byte, error) {
	pub, err := p.affine()
	if err != nil {
		return nil, err
	}
	return pub.SerializeUncompressed(), nil
}

// Equal reports whether p and q are the same group element. The comparison
// runs on encodings with crypto/subtle.
func (p *Point) Equal(q *Point) bool {
	if p == nil || q == nil {
		return p == q
	}
	if p.IsIdentity() || q.IsIdentity() {
		return p.IsIdentity() && q.IsIdentity()
	}

	pb, err := p.Bytes()
	if err != nil {
		return false
	}
	qb, err := q.Bytes()
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(pb, qb) == 1
}
