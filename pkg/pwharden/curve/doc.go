// Package curve provides the secp256k1 group operations used by the
// password-hardening protocol.
//
// The package wraps github.com/btcsuite/btcd/btcec/v2 behind a small API:
// Scalar (an integer modulo the group order) and Point (a group element).
// Both are immutable from the caller's point of view; every operation returns
// a fresh value.
//
// # Key Types
//
//   - Scalar: blinding factors, evaluator keys and hash-derived exponents
//   - Point: hash-to-curve outputs and the messages exchanged by the roles
//
// # Common Operations
//
//	// Map a password to a group element
//	p, err := curve.HashToCurve([]byte("correct horse"))
//
//	// Sample an ephemeral blind from a caller-provided source
//	b, err := curve.RandomScalar(rand.Reader)
//	defer b.Zeroize()
//
//	// Blind and unblind
//	blinded := p.Mul(b)
//	inv, err := b.Invert()
//	recovered := blinded.Mul(inv)
//
// # Encodings
//
// Points travel between roles in SEC1 compressed form (33 bytes). The key
// derivation step consumes the SEC1 uncompressed form (65 bytes). Scalars are
// 32-byte big-endian values.
//
// # Limitations
//
// HashToCurve is a hash-then-multiply map, not an RFC 9380 hash-to-curve
// suite. Arithmetic uses the variable-time ("NonConst") routines of btcec.
package curve
