// Package mocknet provides an in-memory oprf.Transport for tests, examples and
// the single-process hardening pipeline.
//
// Messages are sequenced per direction and delivered through buffered slots,
// so a Send never blocks on an idle receiver. That lets one goroutine drive
// both roles in order: client send, evaluator receive and reply, client
// receive.
//
// # Usage
//
//	net := mocknet.New()
//	clientEp, evaluatorEp := net.Pair()
//
//	// or explicitly
//	clientEp = net.Endpoint(oprf.RoleClient.ID(), oprf.RoleEvaluator.ID())
//
// # Observing traffic
//
// Observe registers a callback that receives a copy of every delivered
// message. Tests use it to check that nothing but blinded and evaluated
// elements crosses the role boundary.
//
// # Limitations
//
// Mocknet is designed for in-process use only:
//   - No encryption or authentication
//   - No network latency simulation
//   - Not a substitute for a real client/evaluator transport
package mocknet
