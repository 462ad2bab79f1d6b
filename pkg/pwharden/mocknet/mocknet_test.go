package mocknet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinbase/pwharden-go/pkg/pwharden/oprf"
)

func TestPairSequence(t *testing.T) {
	net := New()
	c, e := net.Pair()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	const rounds = 5
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := c.Send(ctx, oprf.RoleEvaluator.ID(), []byte{byte(i)}); err != nil {
				t.Errorf("client send %d: %v", i, err)
				return
			}
			got, err := c.Receive(ctx, oprf.RoleEvaluator.ID())
			if err != nil {
				t.Errorf("client receive %d: %v", i, err)
				return
			}
			if len(got) != 1 || got[0] != byte(i+1) {
				t.Errorf("client receive %d got %v", i, got)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			got, err := e.Receive(ctx, oprf.RoleClient.ID())
			if err != nil {
				t.Errorf("evaluator receive %d: %v", i, err)
				return
			}
			if len(got) != 1 || got[0] != byte(i) {
				t.Errorf("evaluator receive %d got %v", i, got)
				return
			}
			if err := e.Send(ctx, oprf.RoleClient.ID(), []byte{byte(i + 1)}); err != nil {
				t.Errorf("evaluator send %d: %v", i, err)
				return
			}
		}
	}()

	wg.Wait()
}

func TestSendDoesNotBlockSingleGoroutine(t *testing.T) {
	net := New()
	c, e := net.Pair()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, c.Send(ctx, oprf.RoleEvaluator.ID(), []byte("req")))
	got, err := e.Receive(ctx, oprf.RoleClient.ID())
	require.NoError(t, err)
	assert.Equal(t, []byte("req"), got)
}

func TestSendCopiesPayload(t *testing.T) {
	net := New()
	c, e := net.Pair()
	ctx := context.Background()

	msg := []byte{1, 2, 3}
	require.NoError(t, c.Send(ctx, oprf.RoleEvaluator.ID(), msg))
	msg[0] = 0xFF

	got, err := e.Receive(ctx, oprf.RoleClient.ID())
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestObserve(t *testing.T) {
	net := New()
	c, _ := net.Pair()

	type seen struct {
		from, to oprf.RoleID
		msg      []byte
	}
	var log []seen
	net.Observe(func(from, to oprf.RoleID, msg []byte) {
		log = append(log, seen{from, to, msg})
	})

	require.NoError(t, c.Send(context.Background(), oprf.RoleEvaluator.ID(), []byte("x")))
	require.Len(t, log, 1)
	assert.Equal(t, oprf.RoleClient.ID(), log[0].from)
	assert.Equal(t, oprf.RoleEvaluator.ID(), log[0].to)
	assert.Equal(t, []byte("x"), log[0].msg)
}

func TestObserveSkipsUndeliveredMessages(t *testing.T) {
	net := New()
	c, e := net.Pair()

	var observed int
	net.Observe(func(oprf.RoleID, oprf.RoleID, []byte) { observed++ })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, c.Send(ctx, oprf.RoleEvaluator.ID(), []byte("dropped")), context.Canceled)
	assert.Zero(t, observed, "a message that was never queued must not be observed")

	// The failed send does not consume a sequence number.
	require.NoError(t, c.Send(context.Background(), oprf.RoleEvaluator.ID(), []byte("kept")))
	assert.Equal(t, 1, observed)

	recvCtx, recvCancel := context.WithTimeout(context.Background(), time.Second)
	defer recvCancel()
	got, err := e.Receive(recvCtx, oprf.RoleClient.ID())
	require.NoError(t, err)
	assert.Equal(t, []byte("kept"), got)
}

func TestAddressingErrors(t *testing.T) {
	net := New()
	c, _ := net.Pair()
	ctx := context.Background()

	assert.Error(t, c.Send(ctx, oprf.RoleClient.ID(), nil), "send to self")
	_, err := c.Receive(ctx, oprf.RoleClient.ID())
	assert.Error(t, err, "receive from self")
	assert.Error(t, c.Send(ctx, oprf.RoleID(7), nil), "unknown peer")
}

func TestReceiveHonoursContext(t *testing.T) {
	net := New()
	_, e := net.Pair()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := e.Receive(ctx, oprf.RoleClient.ID())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
