package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockbill-api/internal/application/ports"
)

type fakeConn struct {
	mu     sync.Mutex
	msgs   [][]byte
	closed bool
	fail   bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.msgs = append(c.msgs, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.msgs...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

// ────────────────────────────────────────────────────────────────────────────
// Aislamiento por usuario
// ────────────────────────────────────────────────────────────────────────────

func TestHub_SoloEntregaAlUsuarioDelEvento(t *testing.T) {
	h, _ := startHub(t)
	alice, bob := &fakeConn{}, &fakeConn{}
	h.Register(Client{UserID: "alice", Conn: alice})
	h.Register(Client{UserID: "bob", Conn: bob})

	h.PublishStockUpdated(context.Background(), []ports.StockEvent{{
		Type: ports.EventStockUpdated, UserID: "alice", ProductID: "p-1", StockQuantity: 7, Delta: -3,
	}})

	require.Eventually(t, func() bool { return len(alice.received()) == 1 }, time.Second, 5*time.Millisecond)

	var ev ports.StockEvent
	require.NoError(t, json.Unmarshal(alice.received()[0], &ev))
	assert.Equal(t, "p-1", ev.ProductID)
	assert.Equal(t, 7, ev.StockQuantity)
	assert.Empty(t, bob.received(), "bob no debe ver eventos de alice")
}

func TestHub_DescartaConexionRota(t *testing.T) {
	h, _ := startHub(t)
	broken := &fakeConn{fail: true}
	h.Register(Client{UserID: "u", Conn: broken})
	require.Equal(t, 1, h.Connections("u"))

	h.PublishStockUpdated(context.Background(), []ports.StockEvent{{UserID: "u"}})

	require.Eventually(t, func() bool { return h.Connections("u") == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, broken.isClosed(), "la conexión rota debe cerrarse")
}

func TestHub_UnregisterCierra(t *testing.T) {
	h, _ := startHub(t)
	c := &fakeConn{}
	h.Register(Client{UserID: "u", Conn: c})
	h.Unregister(Client{UserID: "u", Conn: c})

	assert.Eventually(t, func() bool { return h.Connections("u") == 0 && c.isClosed() }, time.Second, 5*time.Millisecond)
}

func TestHub_RunCierraTodoAlCancelar(t *testing.T) {
	h, cancel := startHub(t)
	c := &fakeConn{}
	h.Register(Client{UserID: "u", Conn: c})

	cancel()
	assert.Eventually(t, c.isClosed, time.Second, 5*time.Millisecond)
}

func TestHub_AltasYBajasNoBloqueanTrasApagado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	c := &fakeConn{}
	require.True(t, h.Register(Client{UserID: "u", Conn: c}))

	cancel()
	<-stopped

	returned := make(chan bool, 1)
	late := &fakeConn{}
	go func() {
		h.Unregister(Client{UserID: "u", Conn: c})
		returned <- h.Register(Client{UserID: "u", Conn: late})
	}()
	select {
	case ok := <-returned:
		assert.False(t, ok, "el hub detenido no acepta conexiones")
	case <-time.After(time.Second):
		t.Fatal("Register/Unregister bloqueados con el hub detenido")
	}
	assert.True(t, late.isClosed(), "la conexión rechazada se cierra")
	assert.Zero(t, h.Connections("u"))
}

// ────────────────────────────────────────────────────────────────────────────
// Fanout
// ────────────────────────────────────────────────────────────────────────────

type recorder struct{ got []ports.StockEvent }

func (r *recorder) PublishStockUpdated(_ context.Context, evs []ports.StockEvent) {
	r.got = append(r.got, evs...)
}

func TestFanout_ReenviaATodosEIgnoraNil(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	f := NewFanout(a, nil, b)
	require.Len(t, f, 2)

	f.PublishStockUpdated(context.Background(), []ports.StockEvent{{ProductID: "x"}})
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
}
