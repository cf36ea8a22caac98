// Package sync carries push events from the background connection into
// the Bubble Tea runtime.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	gosync "sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/push"
)

// ErrAlreadyStarted is returned by Subscribe once the relay is running.
var ErrAlreadyStarted = errors.New("relay already started")

// EventMsg is a tea.Msg carrying one decoded push event.
type EventMsg struct {
	Event model.Event
}

// ConnStateMsg is a tea.Msg sent when the push connection changes state.
type ConnStateMsg struct {
	State push.ConnState
	Err   error
}

// Subscriber is the part of the push client the relay needs.
type Subscriber interface {
	On(name string, h push.Handler) error
	Run(ctx context.Context) error
}

// msgBuffer bounds how far the push connection can run ahead of the UI
// before handlers block.
const msgBuffer = 64

// Relay owns the single subscription per event kind and forwards events,
// in arrival order, to whoever waits on it.
type Relay struct {
	log zerolog.Logger
	sub Subscriber

	msgCh  chan tea.Msg
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc

	mu      gosync.Mutex
	running bool
}

// New creates a relay. Pass OnState to the push client as its state
// callback, then call Subscribe with that client.
func New(log zerolog.Logger) *Relay {
	ctx, cancel := context.WithCancel(context.Background())
	return &Relay{
		log:    log,
		msgCh:  make(chan tea.Msg, msgBuffer),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Subscribe registers one handler for every event kind the backend
// emits.
func (r *Relay) Subscribe(sub Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return ErrAlreadyStarted
	}
	for _, name := range model.EventNames {
		if err := sub.On(name, r.handler(name)); err != nil {
			return err
		}
	}
	r.sub = sub
	return nil
}

// OnState forwards connection changes as ConnStateMsg.
func (r *Relay) OnState(state push.ConnState, err error) {
	r.send(ConnStateMsg{State: state, Err: err})
}

// Start runs the push connection in the background and returns a command
// waiting for the first message. It returns nil if the relay has no
// subscriber or is already running.
func (r *Relay) Start() tea.Cmd {
	r.mu.Lock()
	if r.running || r.sub == nil {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	sub := r.sub
	r.mu.Unlock()

	go func() {
		defer close(r.done)
		if err := sub.Run(r.ctx); err != nil {
			r.log.Error().Err(err).Msg("push channel stopped")
		}
	}()

	return r.WaitForNext()
}

// Stop closes the push connection and waits for it to shut down. Pending
// waits return nil.
func (r *Relay) Stop() {
	r.cancel()

	r.mu.Lock()
	running := r.running
	r.mu.Unlock()
	if running {
		<-r.done
	}
}

// WaitForNext returns a tea.Cmd that waits for the next message. Call it
// again after handling each EventMsg or ConnStateMsg.
func (r *Relay) WaitForNext() tea.Cmd {
	return func() tea.Msg {
		msg, ok := r.Next(context.Background())
		if !ok {
			return nil
		}
		return msg
	}
}

// Next blocks until a message arrives, the relay stops or ctx ends.
func (r *Relay) Next(ctx context.Context) (tea.Msg, bool) {
	select {
	case msg := <-r.msgCh:
		return msg, true
	case <-r.ctx.Done():
		return nil, false
	case <-ctx.Done():
		return nil, false
	}
}

func (r *Relay) handler(name string) push.Handler {
	return func(data json.RawMessage) {
		evt, err := push.Decode(name, data)
		if err != nil {
			r.log.Warn().Err(err).Str("event", name).Msg("dropping push event")
			return
		}
		r.send(EventMsg{Event: evt})
	}
}

// send blocks rather than drops so that no event is lost or reordered.
func (r *Relay) send(msg tea.Msg) {
	select {
	case r.msgCh <- msg:
	case <-r.ctx.Done():
	}
}
