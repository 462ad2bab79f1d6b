package oprf

import "context"

// RoleID identifies a party on a Transport.
type RoleID uint32

// Role enumerates the two fixed positions of the protocol.
type Role uint8

const (
	RoleClient Role = iota
	RoleEvaluator
)

// ID returns the transport address of the role.
func (r Role) ID() RoleID { return RoleID(r) }

// Peer returns the address of the opposite role.
func (r Role) Peer() RoleID {
	if r == RoleClient {
		return RoleID(RoleEvaluator)
	}
	return RoleID(RoleClient)
}

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleEvaluator:
		return "evaluator"
	default:
		return "unknown"
	}
}

// Transport carries the two protocol messages between the roles.
//
// Only encoded BlindedElement and EvaluatedElement values cross a Transport;
// the password and the blinding scalar never do.
//
// Concurrency: implementations MUST be safe for concurrent use by multiple
// goroutines. Cancellation is signalled through ctx.
type Transport interface {
	Send(ctx context.Context, to RoleID, msg []byte) error
	Receive(ctx context.Context, from RoleID) ([]byte, error)
}
