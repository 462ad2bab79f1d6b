package curve

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"runtime"

	"github.com/btcsuite/btcd/btcec/v2"
)

var (
	// ErrNotInvertible is returned when the inverse of the zero scalar is requested.
	ErrNotInvertible = errors.New("curve: scalar is not invertible")

	// ErrRandomness indicates the random source failed or kept producing zero scalars.
	ErrRandomness = errors.New("curve: random source failure")

	// ErrInvalidScalar indicates an encoding that is not a canonical non-zero scalar.
	ErrInvalidScalar = errors.New("curve: invalid scalar encoding")
)

// maxSampleAttempts bounds the rejection loop in RandomScalar. A zero sample
// has probability ~2^-256, so hitting the bound means the reader is broken.
const maxSampleAttempts = 8

// Scalar is an integer modulo the secp256k1 group order.
//
// Scalars returned by this package are never shared: every operation allocates
// a new value, so callers may Zeroize a scalar they own without affecting others.
type Scalar struct {
	s btcec.ModNScalar
}

// zeroizeBytes overwrites the provided slice with zeros and prevents compiler
// dead store elimination using runtime.KeepAlive.
// Local duplicate to avoid an import cycle with the top-level pwharden package.
func zeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

// NewScalarFromBytes decodes a 32-byte big-endian scalar. Values that are not
// reduced modulo the group order, and the zero value, are rejected.
func NewScalarFromBytes(b []byte) (*Scalar, error) {
	if len(b) != ScalarSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidScalar, ScalarSize, len(b))
	}

	out := new(Scalar)
	if overflow := out.s.SetByteSlice(b); overflow {
		out.Zeroize()
		return nil, fmt.Errorf("%w: value exceeds group order", ErrInvalidScalar)
	}
	if out.s.IsZero() {
		return nil, fmt.Errorf("%w: zero scalar", ErrInvalidScalar)
	}
	return out, nil
}

// ScalarFromDigest reads digest as a little-endian unsigned integer and reduces
// it modulo the group order. Only the first 32 bytes are used.
func ScalarFromDigest(digest []byte) *Scalar {
	n := len(digest)
	if n > ScalarSize {
		n = ScalarSize
	}

	var be [ScalarSize]byte
	for i := 0; i < n; i++ {
		be[ScalarSize-1-i] = digest[i]
	}

	out := new(Scalar)
	out.s.SetByteSlice(be[:])
	zeroizeBytes(be[:])
	return out
}

// RandomScalar draws 32 bytes from r and reduces them modulo the group order.
// Zero results are rejected and resampled; if the reader keeps producing
// zero scalars (or fails) ErrRandomness is returned instead of a zero value.
func RandomScalar(r io.Reader) (*Scalar, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", ErrRandomness)
	}

	var buf [ScalarSize]byte
	defer zeroizeBytes(buf[:])

	for attempt := 0; attempt < maxSampleAttempts; attempt++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRandomness, err)
		}

		s := ScalarFromDigest(buf[:])
		if !s.IsZero() {
			return s, nil
		}
	}

	return nil, fmt.Errorf("%w: sampled zero scalar %d times", ErrRandomness, maxSampleAttempts)
}

// Bytes returns the 32-byte big-endian encoding of the scalar.
func (s *Scalar) Bytes() []byte {
	if s == nil {
		return nil
	}
	b := s.s.Bytes()
	return b[:]
}

// BigInt returns the Scalar as a big.Int.
// WARNING: big.Int operations are NOT constant-time and should not be used
// for cryptographic operations. This is provided for tests and debugging only.
func (s *Scalar) BigInt() *big.Int {
	if s == nil {
		return big.NewInt(0)
	}
	b := s.s.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// IsZero reports whether s is the zero scalar. A nil scalar is zero.
func (s *Scalar) IsZero() bool {
	return s == nil || s.s.IsZero()
}

// Equal reports whether s and other encode the same value.
func (s *Scalar) Equal(other *Scalar) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.s.Equals(&other.s)
}

// Mul returns s·other mod n.
func (s *Scalar) Mul(other *Scalar) *Scalar {
	out := new(Scalar)
	out.s.Mul2(&s.s, &other.s)
	return out
}

// Invert returns s⁻¹ mod n. The zero scalar has no inverse and yields
// ErrNotInvertible; callers must treat that as an unrecoverable protocol defect.
func (s *Scalar) Invert() (*Scalar, error) {
	if s.IsZero() {
		return nil, ErrNotInvertible
	}
	out := new(Scalar)
	out.s.InverseValNonConst(&s.s)
	return out, nil
}

// Copy returns an independent copy of s.
func (s *Scalar) Copy() *Scalar {
	out := new(Scalar)
	out.s.Set(&s.s)
	return out
}

// Zeroize clears the scalar in place.
func (s *Scalar) Zeroize() {
	if s == nil {
		return
	}
	s.s.Zero()
	runtime.KeepAlive(s)
}
