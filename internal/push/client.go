// Package push subscribes to the backend's Socket.IO event channel.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/websocket"
	"golang.org/x/time/rate"
)

// ErrAlreadySubscribed is returned when a second handler is registered
// for the same event name.
var ErrAlreadySubscribed = errors.New("event already has a subscriber")

var errServerClosed = errors.New("server closed the connection")

// Handler receives the first argument of a named event.
type Handler func(data json.RawMessage)

// ConnState describes the push connection.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// StateFunc is notified of connection changes. err is set when a
// connection ends abnormally.
type StateFunc func(state ConnState, err error)

const (
	defaultMinBackoff = time.Second
	defaultMaxBackoff = 30 * time.Second

	// Used until the server's open packet says otherwise.
	defaultPingInterval = 25 * time.Second
	defaultPingTimeout  = 20 * time.Second
)

// Client is a Socket.IO v4 client on the WebSocket transport. It holds a
// single subscription per event name for its whole lifetime and
// reconnects on its own.
type Client struct {
	endpoint   *url.URL
	origin     string
	cookie     func() string
	onState    StateFunc
	log        zerolog.Logger
	minBackoff time.Duration
	maxBackoff time.Duration

	mu       sync.RWMutex
	handlers map[string]Handler
}

// Option customizes a Client.
type Option func(*Client)

// WithCookie supplies the Cookie header sent on every handshake.
func WithCookie(fn func() string) Option {
	return func(c *Client) { c.cookie = fn }
}

// WithStateFunc registers a connection state observer.
func WithStateFunc(fn StateFunc) Option {
	return func(c *Client) { c.onState = fn }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithBackoff bounds the delay between reconnect attempts.
func WithBackoff(min, max time.Duration) Option {
	return func(c *Client) {
		c.minBackoff = min
		c.maxBackoff = max
	}
}

// NewClient creates a client for the Socket.IO endpoint of the backend
// at baseURL (http or https).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}

	endpoint := *base
	switch base.Scheme {
	case "http":
		endpoint.Scheme = "ws"
	case "https":
		endpoint.Scheme = "wss"
	default:
		return nil, fmt.Errorf("base URL %q must use http or https", baseURL)
	}
	endpoint.Path = base.Path + "/socket.io/"
	endpoint.RawQuery = url.Values{"EIO": {"4"}, "transport": {"websocket"}}.Encode()

	c := &Client{
		endpoint:   &endpoint,
		origin:     base.Scheme + "://" + base.Host,
		cookie:     func() string { return "" },
		onState:    func(ConnState, error) {},
		log:        zerolog.Nop(),
		minBackoff: defaultMinBackoff,
		maxBackoff: defaultMaxBackoff,
		handlers:   make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxBackoff < c.minBackoff {
		c.maxBackoff = c.minBackoff
	}
	return c, nil
}

// Endpoint returns the WebSocket URL the client dials.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// On registers the handler for an event name. Each name accepts exactly
// one handler and there is no unsubscribe. Handlers run on the read
// loop, in the order events arrive.
func (c *Client) On(name string, h Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.handlers[name]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadySubscribed, name)
	}
	c.handlers[name] = h
	return nil
}

// Run keeps the connection open until ctx is cancelled, reconnecting
// with exponential backoff. It returns nil on cancellation.
func (c *Client) Run(ctx context.Context) error {
	backoff := c.minBackoff
	limiter := rate.NewLimiter(rate.Every(backoff), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil
		}

		c.onState(StateConnecting, nil)
		connected, err := c.session(ctx)
		if ctx.Err() != nil {
			c.onState(StateDisconnected, nil)
			return nil
		}

		if connected {
			backoff = c.minBackoff
		} else {
			backoff = min(backoff*2, c.maxBackoff)
		}
		limiter.SetLimit(rate.Every(backoff))

		c.log.Warn().Err(err).Dur("backoff", backoff).Msg("push channel disconnected")
		c.onState(StateDisconnected, err)
	}
}

// session runs one connection from handshake to failure. connected is
// true once the namespace handshake completed.
func (c *Client) session(ctx context.Context) (connected bool, err error) {
	cfg, err := websocket.NewConfig(c.endpoint.String(), c.origin)
	if err != nil {
		return false, fmt.Errorf("building websocket config: %w", err)
	}
	if cookie := c.cookie(); cookie != "" {
		cfg.Header.Set("Cookie", cookie)
	}

	ws, err := cfg.DialContext(ctx)
	if err != nil {
		return false, fmt.Errorf("dialing %s: %w", c.endpoint.Redacted(), err)
	}
	defer ws.Close()

	stop := context.AfterFunc(ctx, func() { ws.Close() })
	defer stop()

	open, err := c.handshake(ws)
	if err != nil {
		return false, err
	}

	deadline := time.Duration(open.PingInterval+open.PingTimeout) * time.Millisecond
	if deadline <= 0 {
		deadline = defaultPingInterval + defaultPingTimeout
	}

	for {
		if err := ws.SetReadDeadline(time.Now().Add(deadline)); err != nil {
			return connected, fmt.Errorf("setting read deadline: %w", err)
		}

		var raw string
		if err := websocket.Message.Receive(ws, &raw); err != nil {
			return connected, fmt.Errorf("reading frame: %w", err)
		}

		typ, data, err := parseEngine(raw)
		if err != nil {
			continue
		}

		switch typ {
		case enginePing:
			if err := websocket.Message.Send(ws, encodePong()); err != nil {
				return connected, fmt.Errorf("sending pong: %w", err)
			}
		case engineClose:
			return connected, errServerClosed
		case engineMessage:
			done, err := c.handleSocket(data, &connected)
			if err != nil || done {
				return connected, err
			}
		case engineNoop:
		default:
			c.log.Debug().Str("frame", raw).Msg("ignoring engine packet")
		}
	}
}

// handshake reads the Engine.IO open packet and joins the default
// namespace.
func (c *Client) handshake(ws *websocket.Conn) (openPacket, error) {
	var raw string
	if err := websocket.Message.Receive(ws, &raw); err != nil {
		return openPacket{}, fmt.Errorf("reading open packet: %w", err)
	}

	typ, data, err := parseEngine(raw)
	if err != nil || typ != engineOpen {
		return openPacket{}, fmt.Errorf("expected open packet, got %q", raw)
	}

	var open openPacket
	if err := json.Unmarshal([]byte(data), &open); err != nil {
		return openPacket{}, fmt.Errorf("decoding open packet: %w", err)
	}

	if err := websocket.Message.Send(ws, encodeConnect()); err != nil {
		return openPacket{}, fmt.Errorf("joining namespace: %w", err)
	}

	c.log.Debug().Str("sid", open.SID).Msg("push channel open")
	return open, nil
}

// handleSocket processes one Socket.IO packet. done is true when the
// server ended the session.
func (c *Client) handleSocket(data string, connected *bool) (done bool, err error) {
	pkt, err := parseSocket(data)
	if err != nil {
		return false, nil
	}
	if pkt.Namespace != "/" {
		return false, nil
	}

	switch pkt.Type {
	case socketConnect:
		*connected = true
		c.onState(StateConnected, nil)
	case socketDisconnect:
		return true, errServerClosed
	case socketConnectError:
		return true, fmt.Errorf("namespace connect refused: %s", pkt.Payload)
	case socketEvent:
		name, arg, err := decodeEventPayload(pkt.Payload)
		if err != nil {
			c.log.Warn().Err(err).Msg("dropping malformed event")
			return false, nil
		}
		c.dispatch(name, arg)
	}
	return false, nil
}

func (c *Client) dispatch(name string, arg json.RawMessage) {
	c.mu.RLock()
	h, ok := c.handlers[name]
	c.mu.RUnlock()

	if !ok {
		c.log.Debug().Str("event", name).Msg("no subscriber")
		return
	}
	h(arg)
}
