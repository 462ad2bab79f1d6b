// Package pwharden derives a 32-byte key from a low-entropy password through
// one round of an oblivious pseudo-random function on secp256k1 followed by
// Argon2i.
//
// # Pipeline
//
//	password ─► HashToCurve ─► ·b (blind) ─► ·k (evaluator) ─► ·b⁻¹ ─► Argon2i ─► key
//
// The client and the evaluator run in one process but only talk through a
// message transport (see package mocknet). The evaluator receives H(pwd)·b and
// returns H(pwd)·b·k; it never sees the password or the blind b.
//
// # Usage
//
//	key, err := pwharden.GeneratePassword("correct horse battery staple")
//
// GeneratePassword samples a new evaluator secret on every call, so its
// output is not reproducible. Deployments that need the same key for the
// same password configure a fixed evaluator key:
//
//	cfg := pwharden.DefaultConfig()
//	cfg.KeyPolicy = oprf.KeyFixed
//	cfg.EvaluatorKey = k // 32 bytes, big-endian, non-zero mod n
//	cfg.Salt = perUserSalt
//
//	h, err := pwharden.New(cfg, pwharden.WithLogger(logging.New(nil)))
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//	key, err := h.Harden(ctx, []byte(password))
//
// # Errors
//
// Errors returned by New, Harden and the config loaders are *Error values
// whose Kind is ErrConfiguration, ErrArithmetic, ErrRandomness, ErrResource
// or ErrProtocol.
// Use errors.Is against the kind, or against the sentinel of the package
// that raised it (curve, oprf, ksf).
//
// # Limitations
//
// HashToCurve multiplies the generator by a digest-derived scalar, so the
// discrete log of H(pwd) is publicly computable. This is not a hash-to-curve
// in the sense of RFC 9380. The default salt is the same for every user.
package pwharden
