package curve

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Curve represents the prime-order group the hardening protocol runs over.
type Curve struct {
	nid int
}

// Secp256k1 is the only group currently wired to an implementation.
var Secp256k1 = Curve{nid: 714} // NID_secp256k1

const (
	// ScalarSize is the fixed big-endian encoding length of a scalar.
	ScalarSize = 32

	// CompressedPointSize is the SEC1 compressed encoding length of a point.
	CompressedPointSize = 33

	// UncompressedPointSize is the SEC1 uncompressed encoding length of a point.
	UncompressedPointSize = 65
)

// NID returns the OpenSSL NID (numeric identifier) for the curve.
func (c Curve) NID() int {
	return c.nid
}

// String returns a human-readable name for the curve.
func (c Curve) String() string {
	switch c.nid {
	case 714:
		return "secp256k1"
	default:
		return "Unknown"
	}
}

// Order returns a copy of the group order n.
// big.Int is not constant-time; use it for display and tests only.
func (c Curve) Order() *big.Int {
	return new(big.Int).Set(btcec.S256().N)
}
