package curve_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinbase/pwharden-go/pkg/pwharden/curve"
)

type zeroReader struct{ reads int }

func (z *zeroReader) Read(p []byte) (int, error) {
	z.reads++
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestRandomScalarRejectsZero(t *testing.T) {
	r := &zeroReader{}
	s, err := curve.RandomScalar(r)
	require.ErrorIs(t, err, curve.ErrRandomness)
	assert.Nil(t, s)
	assert.Greater(t, r.reads, 1, "zero samples must be resampled before failing")
}

func TestRandomScalarOrderReducesToZero(t *testing.T) {
	// n encoded little-endian reduces to zero and must be rejected too.
	be := curve.Secp256k1.Order().FillBytes(make([]byte, curve.ScalarSize))
	le := make([]byte, len(be))
	for i := range be {
		le[len(be)-1-i] = be[i]
	}

	s, err := curve.RandomScalar(bytes.NewReader(bytes.Repeat(le, 16)))
	require.ErrorIs(t, err, curve.ErrRandomness)
	assert.Nil(t, s)
}

func TestRandomScalarReaderFailure(t *testing.T) {
	_, err := curve.RandomScalar(failingReader{})
	require.ErrorIs(t, err, curve.ErrRandomness)

	_, err = curve.RandomScalar(nil)
	require.ErrorIs(t, err, curve.ErrRandomness)
}

func TestRandomScalarFresh(t *testing.T) {
	a, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	b, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)

	assert.False(t, a.IsZero())
	assert.False(t, a.Equal(b), "two samples from crypto/rand should differ")
}

func TestScalarFromDigestLittleEndian(t *testing.T) {
	digest := make([]byte, 32)
	digest[0] = 0x01
	digest[1] = 0x02

	s := curve.ScalarFromDigest(digest)
	assert.Zero(t, big.NewInt(0x0201).Cmp(s.BigInt()))
}

func TestScalarFromDigestReducesModOrder(t *testing.T) {
	n := curve.Secp256k1.Order()
	v := new(big.Int).Add(n, big.NewInt(5))

	be := v.FillBytes(make([]byte, 32))
	le := make([]byte, 32)
	for i := range be {
		le[31-i] = be[i]
	}

	assert.Zero(t, big.NewInt(5).Cmp(curve.ScalarFromDigest(le).BigInt()))
}

func TestScalarInvert(t *testing.T) {
	s, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)

	inv, err := s.Invert()
	require.NoError(t, err)

	one, err := curve.NewScalarFromBytes(append(make([]byte, 31), 1))
	require.NoError(t, err)
	assert.True(t, s.Mul(inv).Equal(one))
}

func TestScalarInvertZero(t *testing.T) {
	zero := curve.ScalarFromDigest(make([]byte, 32))
	require.True(t, zero.IsZero())

	inv, err := zero.Invert()
	require.ErrorIs(t, err, curve.ErrNotInvertible)
	assert.Nil(t, inv)
}

func TestNewScalarFromBytes(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		ok    bool
	}{
		{"short", []byte{0x01}, false},
		{"zero", make([]byte, 32), false},
		{"order", curve.Secp256k1.Order().FillBytes(make([]byte, 32)), false},
		{"one", append(make([]byte, 31), 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := curve.NewScalarFromBytes(tt.input)
			if !tt.ok {
				require.ErrorIs(t, err, curve.ErrInvalidScalar)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, s.Bytes())
		})
	}
}

func TestScalarZeroize(t *testing.T) {
	s, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	c := s.Copy()

	s.Zeroize()
	assert.True(t, s.IsZero())
	assert.False(t, c.IsZero(), "Copy must not alias the original")
}
