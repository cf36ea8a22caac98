package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

// fakeSocketIO serves the Socket.IO endpoint; script runs once per
// connection with the connection number (starting at 1).
func fakeSocketIO(t *testing.T, script func(n int, ws *websocket.Conn)) *httptest.Server {
	t.Helper()

	var conns atomic.Int32
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", websocket.Handler(func(ws *websocket.Conn) {
		script(int(conns.Add(1)), ws)
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// serverHandshake plays the server side of the Engine.IO + namespace
// handshake.
func serverHandshake(t *testing.T, ws *websocket.Conn) {
	t.Helper()

	require.NoError(t, websocket.Message.Send(ws, `0{"sid":"s1","upgrades":[],"pingInterval":25000,"pingTimeout":20000}`))

	var msg string
	require.NoError(t, websocket.Message.Receive(ws, &msg))
	require.Equal(t, "40", msg)

	require.NoError(t, websocket.Message.Send(ws, `40{"sid":"n1"}`))
}

// drain blocks until the client goes away.
func drain(ws *websocket.Conn) {
	var msg string
	for websocket.Message.Receive(ws, &msg) == nil {
	}
}

func TestNewClient_Endpoint(t *testing.T) {
	c, err := NewClient("https://mailnest.example.com/")
	require.NoError(t, err)
	require.Equal(t, "wss://mailnest.example.com/socket.io/?EIO=4&transport=websocket", c.Endpoint())

	_, err = NewClient("ftp://x")
	require.Error(t, err)
}

func TestOn_OneSubscriptionPerEvent(t *testing.T) {
	c, err := NewClient("http://localhost:5000")
	require.NoError(t, err)

	require.NoError(t, c.On("log", func(json.RawMessage) {}))
	require.ErrorIs(t, c.On("log", func(json.RawMessage) {}), ErrAlreadySubscribed)
	require.NoError(t, c.On("erro", func(json.RawMessage) {}))
}

func TestRun_DeliversEventsInOrder(t *testing.T) {
	var gotCookie, gotPong atomic.Value

	srv := fakeSocketIO(t, func(_ int, ws *websocket.Conn) {
		gotCookie.Store(ws.Request().Header.Get("Cookie"))
		serverHandshake(t, ws)

		_ = websocket.Message.Send(ws, "2")
		var pong string
		_ = websocket.Message.Receive(ws, &pong)
		gotPong.Store(pong)

		_ = websocket.Message.Send(ws, `42["log",{"message":"first"}]`)
		_ = websocket.Message.Send(ws, `42["progresso",{"progresso":0.5,"texto":"half"}]`)
		_ = websocket.Message.Send(ws, `42["nobody_listens",{}]`)
		_ = websocket.Message.Send(ws, `42["log",{"message":"second"}]`)
		_ = websocket.Message.Send(ws, `42["conclusao",{"total":1,"categorias":{"Work":1}}]`)
		drain(ws)
	})

	c, err := NewClient(srv.URL, WithCookie(func() string { return "session=abc" }))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) Handler {
		return func(data json.RawMessage) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name+":"+string(data))
			if name == "conclusao" {
				cancel()
			}
		}
	}
	require.NoError(t, c.On("log", record("log")))
	require.NoError(t, c.On("progresso", record("progresso")))
	require.NoError(t, c.On("conclusao", record("conclusao")))

	require.NoError(t, c.Run(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		`log:{"message":"first"}`,
		`progresso:{"progresso":0.5,"texto":"half"}`,
		`log:{"message":"second"}`,
		`conclusao:{"total":1,"categorias":{"Work":1}}`,
	}, order)
	assert.Equal(t, "session=abc", gotCookie.Load())
	assert.Equal(t, "3", gotPong.Load())
}

func TestRun_ReconnectsAfterServerClose(t *testing.T) {
	srv := fakeSocketIO(t, func(n int, ws *websocket.Conn) {
		serverHandshake(t, ws)
		if n == 1 {
			_ = websocket.Message.Send(ws, "1")
			return
		}
		_ = websocket.Message.Send(ws, `42["erro",{"message":"boom"}]`)
		drain(ws)
	})

	var (
		mu     sync.Mutex
		states []ConnState
	)
	c, err := NewClient(srv.URL,
		WithBackoff(10*time.Millisecond, 20*time.Millisecond),
		WithStateFunc(func(s ConnState, _ error) {
			mu.Lock()
			defer mu.Unlock()
			states = append(states, s)
		}),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan string, 1)
	require.NoError(t, c.On("erro", func(data json.RawMessage) {
		got <- string(data)
		cancel()
	}))

	require.NoError(t, c.Run(ctx))
	require.JSONEq(t, `{"message":"boom"}`, <-got)

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(states), 5)
	assert.Equal(t, []ConnState{StateConnecting, StateConnected, StateDisconnected, StateConnecting, StateConnected}, states[:5])
}

func TestRun_ReturnsOnCancelWhileDisconnected(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1", WithBackoff(time.Hour, time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
