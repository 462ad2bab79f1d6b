// Package oprf implements the two roles of the blinded password-hardening
// exchange over secp256k1.
//
// The Client holds the password and an ephemeral blinding scalar b. The
// Evaluator holds a secret scalar k. They exchange exactly two messages:
//
//	Client    -> Evaluator : BlindedElement   = H(pwd)·b
//	Evaluator -> Client    : EvaluatedElement = H(pwd)·b·k
//
// and the client recovers H(pwd)·k by multiplying with b⁻¹. The roles share no
// state; everything that crosses between them goes through a Transport as a
// SEC1 compressed point, so the evaluator cannot observe the password or b.
//
// # Evaluator key policy
//
// KeyPerCall samples k per evaluation, matching a single-process
// demonstration where the evaluator is simulated. KeyFixed uses a stable k,
// which a real deployment needs: within one registration or login ceremony
// the same k must be applied, otherwise outputs cannot be reproduced.
//
// # Usage
//
//	client := oprf.NewClient(rand.Reader)
//	evaluator := oprf.NewEvaluator(rand.Reader)
//
//	req, err := client.Blind(password)
//	ev, err := evaluator.Evaluate(req)
//	point, err := client.Finalize(ev)
package oprf
