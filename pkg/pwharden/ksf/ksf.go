// Package ksf provides the memory-hard key stretching step: Argon2i over the
// password concatenated with the unblinded OPRF point.
package ksf

import (
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/sha3"

	"github.com/coinbase/pwharden-go/pkg/pwharden/curve"
)

var (
	// ErrInvalidParams indicates Argon2 parameters outside the algorithm's constraints.
	ErrInvalidParams = errors.New("ksf: invalid parameters")

	// ErrInvalidSalt indicates a salt that Argon2 does not accept.
	ErrInvalidSalt = errors.New("ksf: invalid salt")

	// ErrResource indicates the derivation could not obtain the memory it needs.
	ErrResource = errors.New("ksf: resource exhausted")
)

const (
	// DefaultMemoryKiB is the default memory cost.
	DefaultMemoryKiB = 1024

	// DefaultIterations is the default number of passes.
	DefaultIterations = 1

	// DefaultParallelism is the default number of lanes.
	DefaultParallelism = 1

	// KeyLength is the size of a derived key.
	KeyLength = 32

	// MinSaltLength is the shortest salt Argon2 accepts.
	MinSaltLength = 8

	minKeyLength   = 4
	maxParallelism = math.MaxUint8
)

// Params are the Argon2i cost parameters.
type Params struct {
	MemoryKiB   uint32 `yaml:"memory_kib" json:"memory_kib"`
	Iterations  uint32 `yaml:"iterations" json:"iterations"`
	Parallelism uint32 `yaml:"parallelism" json:"parallelism"`
	KeyLength   uint32 `yaml:"key_length" json:"key_length"`
}

// DefaultParams returns 1024 KiB, 1 iteration, 1 lane, 32-byte output.
func DefaultParams() Params {
	return Params{
		MemoryKiB:   DefaultMemoryKiB,
		Iterations:  DefaultIterations,
		Parallelism: DefaultParallelism,
		KeyLength:   KeyLength,
	}
}

// Validate checks p against the Argon2 constraints.
func (p Params) Validate() error {
	if p.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1", ErrInvalidParams)
	}
	if p.Parallelism < 1 || p.Parallelism > maxParallelism {
		return fmt.Errorf("%w: parallelism must be in [1, %d], got %d", ErrInvalidParams, maxParallelism, p.Parallelism)
	}
	if p.MemoryKiB < 8*p.Parallelism {
		return fmt.Errorf("%w: memory must be at least 8*parallelism KiB (%d), got %d",
			ErrInvalidParams, 8*p.Parallelism, p.MemoryKiB)
	}
	if p.KeyLength < minKeyLength {
		return fmt.Errorf("%w: key length must be at least %d bytes, got %d", ErrInvalidParams, minKeyLength, p.KeyLength)
	}
	return nil
}

// FixedSalt returns SHA3-256 of the empty string.
//
// The value is identical for every user, so precomputation against one
// deployment applies to all of its users. Callers that persist state should
// use NewSalt and store the result next to the derived key.
func FixedSalt() []byte {
	s := sha3.Sum256(nil)
	return s[:]
}

// NewSalt draws a 32-byte per-user salt from r.
func NewSalt(r io.Reader) ([]byte, error) {
	salt := make([]byte, 32)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSalt, err)
	}
	return salt, nil
}

// ValidateSalt checks the Argon2 salt length bounds.
func ValidateSalt(salt []byte) error {
	if len(salt) < MinSaltLength {
		return fmt.Errorf("%w: need at least %d bytes, got %d", ErrInvalidSalt, MinSaltLength, len(salt))
	}
	if uint64(len(salt)) > math.MaxUint32 {
		return fmt.Errorf("%w: salt too long", ErrInvalidSalt)
	}
	return nil
}

// Stretcher runs Argon2i with fixed parameters.
type Stretcher struct {
	params       Params
	maxMemoryKiB uint32
}

// New validates params and returns a Stretcher. maxMemoryKiB caps the memory
// a single derivation may request; zero disables the cap.
func New(params Params, maxMemoryKiB uint32) (*Stretcher, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Stretcher{params: params, maxMemoryKiB: maxMemoryKiB}, nil
}

// Params returns the configured cost parameters.
func (s *Stretcher) Params() Params { return s.params }

// Derive computes Argon2i(password ‖ SEC1-uncompressed(point), salt).
func (s *Stretcher) Derive(password []byte, point *curve.Point, salt []byte) ([]byte, error) {
	if err := ValidateSalt(salt); err != nil {
		return nil, err
	}
	if s.maxMemoryKiB != 0 && s.params.MemoryKiB > s.maxMemoryKiB {
		return nil, fmt.Errorf("%w: %d KiB requested, limit is %d KiB", ErrResource, s.params.MemoryKiB, s.maxMemoryKiB)
	}

	encoded, err := point.BytesUncompressed()
	if err != nil {
		return nil, err
	}

	input := make([]byte, 0, len(password)+len(encoded))
	input = append(input, password...)
	input = append(input, encoded...)
	defer zeroize(input)

	return s.hash(input, salt)
}

func (s *Stretcher) hash(input, salt []byte) (key []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			key = nil
			err = fmt.Errorf("%w: %v", ErrResource, r)
		}
	}()

	p := s.params
	return argon2.Key(input, salt, p.Iterations, p.MemoryKiB, uint8(p.Parallelism), p.KeyLength), nil
}

func zeroize(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}
