package curve

import (
	"golang.org/x/crypto/sha3"
)

// HashToCurve maps input to a point of the prime-order group: the SHA3-256
// digest of input, read little-endian and reduced modulo n, multiplies G.
//
// This is a hash-then-multiply construction. The discrete log of the output
// with respect to G is public, and the mapping is neither constant-time nor
// indistinguishable from random. Deployments that need those properties must
// switch to an RFC 9380 suite.
func HashToCurve(input []byte) (*Point, error) {
	digest := sha3.Sum256(input)
	defer zeroizeBytes(digest[:])

	s := ScalarFromDigest(digest[:])
	defer s.Zeroize()

	if s.IsZero() {
		return nil, ErrIdentity
	}
	return MulGenerator(s), nil
}
