package pwharden

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coinbase/pwharden-go/pkg/pwharden/curve"
	"github.com/coinbase/pwharden-go/pkg/pwharden/ksf"
	"github.com/coinbase/pwharden-go/pkg/pwharden/oprf"
)

// Config expresses every choice the pipeline makes. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// KSF holds the Argon2i cost parameters.
	KSF ksf.Params

	// Salt is the Argon2i salt. Nil selects ksf.FixedSalt, which is shared by
	// every user of a deployment.
	Salt []byte

	// KeyPolicy selects whether the evaluator samples a new secret for every
	// call (default) or applies EvaluatorKey to all of them.
	KeyPolicy oprf.KeyPolicy

	// EvaluatorKey is the 32-byte big-endian evaluator secret. Required with
	// oprf.KeyFixed and rejected otherwise.
	EvaluatorKey []byte

	// MaxMemoryKiB caps the memory one derivation may request; larger
	// KSF.MemoryKiB values fail with ErrResource before Argon2 allocates.
	// Zero disables the cap.
	MaxMemoryKiB uint32
}

// DefaultMaxMemoryKiB is the default per-derivation memory ceiling (1 GiB).
const DefaultMaxMemoryKiB = 1 << 20

// DefaultConfig returns the configuration GeneratePassword uses.
func DefaultConfig() Config {
	return Config{
		KSF:          ksf.DefaultParams(),
		KeyPolicy:    oprf.KeyPerCall,
		MaxMemoryKiB: DefaultMaxMemoryKiB,
	}
}

// Validate checks c without touching randomness or curve arithmetic beyond
// decoding the evaluator key.
func (c Config) Validate() error {
	const op = "Config.Validate"

	if err := c.KSF.Validate(); err != nil {
		return &Error{Op: op, Kind: ErrConfiguration, Err: err}
	}
	if c.Salt != nil {
		if err := ksf.ValidateSalt(c.Salt); err != nil {
			return &Error{Op: op, Kind: ErrConfiguration, Err: err}
		}
	}

	switch c.KeyPolicy {
	case oprf.KeyPerCall:
		if len(c.EvaluatorKey) != 0 {
			return errorf(op, ErrConfiguration, "evaluator key set with %s policy", c.KeyPolicy)
		}
	case oprf.KeyFixed:
		k, err := curve.NewScalarFromBytes(c.EvaluatorKey)
		if err != nil {
			return &Error{Op: op, Kind: ErrConfiguration, Err: fmt.Errorf("%w: %v", oprf.ErrEvaluatorKey, err)}
		}
		k.Zeroize()
	default:
		return errorf(op, ErrConfiguration, "unknown key policy %d", c.KeyPolicy)
	}
	return nil
}

func (c Config) salt() []byte {
	if c.Salt == nil {
		return ksf.FixedSalt()
	}
	return c.Salt
}

// fileConfig is the on-disk layout read by LoadConfigFile. Binary values are
// hex encoded.
type fileConfig struct {
	KSF          ksf.Params `yaml:"ksf"`
	Salt         string     `yaml:"salt"`
	MaxMemoryKiB uint32     `yaml:"max_memory_kib"`
	Evaluator    struct {
		KeyPolicy string `yaml:"key_policy"`
		Key       string `yaml:"key"`
	} `yaml:"evaluator"`
}

// LoadConfigFile reads a YAML configuration. Fields left out keep their
// DefaultConfig values. The result is validated.
//
//	ksf:
//	  memory_kib: 1024
//	  iterations: 1
//	  parallelism: 1
//	  key_length: 32
//	salt: 0123456789abcdef
//	max_memory_kib: 1048576
//	evaluator:
//	  key_policy: fixed
//	  key: <64 hex digits>
func LoadConfigFile(path string) (Config, error) {
	const op = "LoadConfigFile"

	absPath, err := SecurePath(path)
	if err != nil {
		return Config{}, errorf(op, ErrConfiguration, "secure path: %w", err)
	}
	data, err := os.ReadFile(absPath) // #nosec G304 -- absPath validated by SecurePath
	if err != nil {
		return Config{}, errorf(op, ErrConfiguration, "read file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration bytes. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	const op = "ParseConfig"

	cfg := DefaultConfig()

	// Decode over the defaults so omitted keys keep their default values.
	fc := fileConfig{KSF: cfg.KSF, MaxMemoryKiB: cfg.MaxMemoryKiB}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errorf(op, ErrConfiguration, "unmarshal YAML: %w", err)
	}

	cfg.KSF = fc.KSF
	cfg.MaxMemoryKiB = fc.MaxMemoryKiB

	if fc.Salt != "" {
		salt, err := hex.DecodeString(fc.Salt)
		if err != nil {
			return Config{}, errorf(op, ErrConfiguration, "salt: %w", err)
		}
		cfg.Salt = salt
	}

	policy, err := oprf.ParseKeyPolicy(fc.Evaluator.KeyPolicy)
	if err != nil {
		return Config{}, &Error{Op: op, Kind: ErrConfiguration, Err: err}
	}
	cfg.KeyPolicy = policy

	if fc.Evaluator.Key != "" {
		key, err := hex.DecodeString(fc.Evaluator.Key)
		if err != nil {
			return Config{}, errorf(op, ErrConfiguration, "evaluator key: %w", err)
		}
		cfg.EvaluatorKey = key
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SecurePath validates that a file path doesn't escape the working directory.
func SecurePath(path string) (string, error) {
	clean := filepath.Clean(path)
	absPath, err := filepath.Abs(clean)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}
	base, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	rel, err := filepath.Rel(base, absPath)
	if err != nil {
		return "", fmt.Errorf("relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes working directory", path)
	}
	return absPath, nil
}
