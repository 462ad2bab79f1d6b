package mocknet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coinbase/pwharden-go/pkg/pwharden/oprf"
)

// Observer is called with a copy of every message the Net delivers, after it
// has been queued for the receiver.
type Observer func(from, to oprf.RoleID, msg []byte)

type Net struct {
	mu        sync.Mutex
	q         map[queueKey]chan []byte
	observers []Observer
}

func New() *Net { return &Net{q: make(map[queueKey]chan []byte)} }

// Observe registers fn to see all traffic. Intended for tests that assert
// what crosses the role boundary.
func (n *Net) Observe(fn Observer) {
	n.mu.Lock()
	n.observers = append(n.observers, fn)
	n.mu.Unlock()
}

type queueKey struct {
	from oprf.RoleID
	to   oprf.RoleID
	seq  uint64
}

func (n *Net) slot(key queueKey) chan []byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := n.q[key]
	if ch == nil {
		ch = make(chan []byte, 1)
		n.q[key] = ch
	}
	return ch
}

func (n *Net) deliver(ctx context.Context, key queueKey, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch := n.slot(key)
	msg := append([]byte(nil), payload...)

	select {
	case ch <- msg:
	case <-ctx.Done():
		return ctx.Err()
	}

	n.mu.Lock()
	observers := append([]Observer(nil), n.observers...)
	n.mu.Unlock()
	for _, fn := range observers {
		fn(key.from, key.to, append([]byte(nil), msg...))
	}
	return nil
}

func (n *Net) await(ctx context.Context, key queueKey) ([]byte, error) {
	ch := n.slot(key)
	select {
	case msg := <-ch:
		n.mu.Lock()
		delete(n.q, key)
		n.mu.Unlock()
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Endpoint is one side of a two-party link.
type Endpoint struct {
	net  *Net
	self oprf.RoleID
	peer oprf.RoleID

	sendMu  sync.Mutex
	recvMu  sync.Mutex
	sendSeq uint64
	recvSeq uint64
}

// Endpoint returns the transport for self talking to peer.
func (n *Net) Endpoint(self, peer oprf.RoleID) *Endpoint {
	return &Endpoint{net: n, self: self, peer: peer}
}

// Pair returns connected client and evaluator endpoints.
func (n *Net) Pair() (client, evaluator *Endpoint) {
	client = n.Endpoint(oprf.RoleClient.ID(), oprf.RoleClient.Peer())
	evaluator = n.Endpoint(oprf.RoleEvaluator.ID(), oprf.RoleEvaluator.Peer())
	return client, evaluator
}

func (e *Endpoint) check(other oprf.RoleID) error {
	if other == e.self {
		return errors.New("mocknet: self addressed")
	}
	if other != e.peer {
		return fmt.Errorf("mocknet: unknown peer %d", other)
	}
	return nil
}

func (e *Endpoint) Send(ctx context.Context, to oprf.RoleID, msg []byte) error {
	if err := e.check(to); err != nil {
		return err
	}
	e.sendMu.Lock()
	defer e.sendMu.Unlock()

	if err := e.net.deliver(ctx, queueKey{from: e.self, to: to, seq: e.sendSeq}, msg); err != nil {
		return err
	}
	e.sendSeq++
	return nil
}

func (e *Endpoint) Receive(ctx context.Context, from oprf.RoleID) ([]byte, error) {
	if err := e.check(from); err != nil {
		return nil, err
	}
	e.recvMu.Lock()
	defer e.recvMu.Unlock()

	msg, err := e.net.await(ctx, queueKey{from: from, to: e.self, seq: e.recvSeq})
	if err != nil {
		return nil, err
	}
	e.recvSeq++
	return msg, nil
}

var _ oprf.Transport = (*Endpoint)(nil)
