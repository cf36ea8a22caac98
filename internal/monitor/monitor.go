// Package monitor turns the backend's push events into the state shown by
// the live operation view: a classified log, a progress bar and summary
// metrics.
package monitor

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/validate"
)

// Labels shown while an operation starts and when the history is empty.
const (
	ConnectingLabel    = "🔌 Connecting to server..."
	HistoryPlaceholder = "No logs available"
	ClearHistoryPrompt = "Are you sure you want to clear all logs?"
)

var credentialMessages = validate.Messages{
	"required": "Please fill in the e-mail and the password!",
}

// Backend is the part of the API client the monitor drives.
type Backend interface {
	Organize(ctx context.Context, req model.OrganizeRequest) (string, error)
	FindDuplicates(ctx context.Context, creds model.Credentials) (string, error)
	Logs(ctx context.Context) ([]string, error)
	ClearLogs(ctx context.Context) error
}

// Recorder journals operations locally.
type Recorder interface {
	CreateRun(ctx context.Context, run *model.Run) error
	FinishRun(ctx context.Context, id string, res model.RunResult, finishedAt time.Time) error
}

// Monitor owns the ClientState. Methods are safe to call from Bubble Tea
// commands running on other goroutines.
type Monitor struct {
	backend    Backend
	log        zerolog.Logger
	classifier model.Classifier
	recorder   Recorder
	now        func() time.Time

	mu    sync.Mutex
	state model.ClientState
	runID string
}

// Option customizes a Monitor.
type Option func(*Monitor)

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Monitor) { m.log = l }
}

// WithClassifier replaces the default severity markers.
func WithClassifier(c model.Classifier) Option {
	return func(m *Monitor) { m.classifier = c }
}

// WithRecorder journals every accepted operation.
func WithRecorder(r Recorder) Option {
	return func(m *Monitor) { m.recorder = r }
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// New creates an idle monitor.
func New(b Backend, opts ...Option) *Monitor {
	m := &Monitor{
		backend:    b,
		log:        zerolog.Nop(),
		classifier: model.NewClassifier(model.DefaultMarkers()),
		now:        time.Now,
		state:      model.ClientState{Status: model.StatusIdle},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartOption adjusts the request sent by StartOperation.
type StartOption func(*model.OrganizeRequest)

// KeepInbox leaves organised messages in the inbox instead of moving
// them out. Only inbox organisation honours it.
func KeepInbox() StartOption {
	return func(r *model.OrganizeRequest) { r.DeleteFromInbox = false }
}

// StartOperation validates creds, resets the live view and asks the
// backend to start kind. Validation failures return a *validate.Error
// and change nothing. Request failures put the monitor in the error
// state and are returned for display (see ErrorNotice).
func (m *Monitor) StartOperation(
	ctx context.Context,
	kind model.OperationKind,
	creds model.Credentials,
	opts ...StartOption,
) error {
	if _, err := model.ParseOperationKind(string(kind)); err != nil {
		return err
	}
	if err := validate.Struct(creds, credentialMessages); err != nil {
		return err
	}

	req := model.OrganizeRequest{Credentials: creds, DeleteFromInbox: true}
	for _, opt := range opts {
		opt(&req)
	}

	m.mu.Lock()
	if m.state.InFlight {
		m.mu.Unlock()
		return ErrBusy
	}
	m.state.Live = nil
	m.state.Progress = model.Progress{Fraction: 0, Label: ConnectingLabel}
	m.state.Summary = model.Summary{}
	m.state.Status = model.StatusRunning
	m.state.Operation = kind
	m.state.InFlight = true
	m.appendLive(model.LogEntry{
		Text:     m.stamp(startingText(kind)),
		Severity: model.SeverityInfo,
	})
	m.mu.Unlock()

	m.startRun(ctx, kind, creds.Email)

	var err error
	switch kind {
	case model.OperationOrganize:
		_, err = m.backend.Organize(ctx, req)
	case model.OperationDuplicates:
		_, err = m.backend.FindDuplicates(ctx, creds)
	}

	if err != nil {
		m.log.Warn().Err(err).Str("operation", string(kind)).Msg("start request failed")

		m.mu.Lock()
		m.state.Status = model.StatusError
		m.state.InFlight = false
		runID := m.takeRun()
		m.mu.Unlock()

		m.finishRun(runID, model.RunResult{Status: model.RunStatusFailed, Error: Message(err)})
		return err
	}

	m.mu.Lock()
	m.appendLive(model.LogEntry{
		Text:     m.stamp("✅ Request sent, waiting for the server..."),
		Severity: model.SeveritySuccess,
	})
	m.mu.Unlock()

	m.log.Info().Str("operation", string(kind)).Str("account", creds.Email).Msg("operation started")
	return nil
}

// HandleEvent applies one push event. Terminal events return the notice
// to show; other events return an empty Notice.
func (m *Monitor) HandleEvent(evt model.Event) Notice {
	m.mu.Lock()

	var (
		notice Notice
		runID  string
		result model.RunResult
	)

	switch e := evt.(type) {
	case model.LogEvent:
		m.appendLive(m.classifier.Entry(e.Message))

	case model.ProgressEvent:
		m.state.Progress = model.Progress{Fraction: e.Fraction, Label: e.Label}

	case model.CompletionEvent:
		m.state.Summary = model.Summary{
			Total:      e.TotalProcessed,
			Categories: maps.Clone(e.CategoryCounts),
			Duplicates: e.DuplicatesRemoved,
			Valid:      true,
		}
		m.finish(model.StatusDone)
		runID = m.takeRun()
		result = model.RunResult{
			Status:     model.RunStatusDone,
			Total:      e.TotalProcessed,
			Duplicates: e.DuplicatesRemoved,
			Categories: e.CategoryCounts,
		}
		notice = completionNotice(e)

	case model.DuplicatesEvent:
		m.state.Summary.Duplicates += e.Removed
		m.state.Summary.Valid = true
		m.finish(model.StatusDone)
		runID = m.takeRun()
		result = model.RunResult{
			Status:     model.RunStatusDone,
			Duplicates: m.state.Summary.Duplicates,
		}
		notice = duplicatesNotice(e)

	case model.FailureEvent:
		m.finish(model.StatusError)
		runID = m.takeRun()
		result = model.RunResult{Status: model.RunStatusFailed, Error: e.Message}
		notice = failureNotice(e)

	default:
		m.log.Debug().Str("event", fmt.Sprintf("%T", evt)).Msg("ignoring event")
	}

	m.mu.Unlock()

	if evt != nil && evt.Terminal() {
		m.log.Info().Str("event", evt.Name()).Msg("operation finished")
	}
	m.finishRun(runID, result)
	return notice
}

// Interrupt abandons the operation in flight after the push connection
// dropped. The backend does not replay events, so the run is recorded as
// failed and a new operation may start. It returns an empty Notice when
// nothing was running.
func (m *Monitor) Interrupt() Notice {
	m.mu.Lock()
	if !m.state.InFlight {
		m.mu.Unlock()
		return Notice{}
	}
	kind := m.state.Operation
	m.appendLive(model.LogEntry{
		Text:     m.stamp("❌ " + ErrConnectionLost.Error()),
		Severity: model.SeverityError,
	})
	m.finish(model.StatusError)
	runID := m.takeRun()
	m.mu.Unlock()

	m.log.Warn().Str("operation", string(kind)).Msg("push connection lost mid-operation")
	m.finishRun(runID, model.RunResult{Status: model.RunStatusFailed, Error: ErrConnectionLost.Error()})
	return ErrorNotice(ErrConnectionLost)
}

// LoadHistory replaces the history panel with the backend's persisted
// log. The panel scrolls to its end even when the log is empty.
func (m *Monitor) LoadHistory(ctx context.Context) error {
	lines, err := m.backend.Logs(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("loading history failed")
		return err
	}

	entries := make([]model.LogEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, m.classifier.Entry(line))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.History = entries
	m.state.HistoryLoaded = true
	m.state.HistoryRevision++
	return nil
}

// ClearHistory deletes the backend's persisted log after confirm agrees.
// It reports whether the history was cleared. A declined confirmation
// sends nothing and changes nothing.
func (m *Monitor) ClearHistory(ctx context.Context, confirm model.ConfirmFunc) (bool, error) {
	if confirm == nil || !confirm(ClearHistoryPrompt) {
		return false, nil
	}

	if err := m.backend.ClearLogs(ctx); err != nil {
		m.log.Warn().Err(err).Msg("clearing history failed")

		m.mu.Lock()
		m.state.Status = model.StatusError
		m.mu.Unlock()
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.History = nil
	m.state.HistoryLoaded = true
	m.state.HistoryRevision++
	return true, nil
}

// Snapshot returns a copy of the current state.
func (m *Monitor) Snapshot() model.ClientState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// appendLive must be called with mu held.
func (m *Monitor) appendLive(e model.LogEntry) {
	m.state.Live = append(m.state.Live, e)
	m.state.Revision++
}

// finish must be called with mu held.
func (m *Monitor) finish(status model.Status) {
	m.state.Status = status
	m.state.InFlight = false
}

// takeRun must be called with mu held.
func (m *Monitor) takeRun() string {
	id := m.runID
	m.runID = ""
	return id
}

func (m *Monitor) stamp(text string) string {
	return fmt.Sprintf("[%s] %s", m.now().Format(time.TimeOnly), text)
}

func (m *Monitor) startRun(ctx context.Context, kind model.OperationKind, account string) {
	if m.recorder == nil {
		return
	}

	run := &model.Run{Kind: kind, Account: account, StartedAt: m.now()}
	if err := m.recorder.CreateRun(ctx, run); err != nil {
		m.log.Error().Err(err).Msg("recording run start")
		return
	}

	m.mu.Lock()
	m.runID = run.ID
	m.mu.Unlock()
}

func (m *Monitor) finishRun(id string, res model.RunResult) {
	if m.recorder == nil || id == "" {
		return
	}
	if err := m.recorder.FinishRun(context.Background(), id, res, m.now()); err != nil {
		m.log.Error().Err(err).Str("run", id).Msg("recording run result")
	}
}

func startingText(kind model.OperationKind) string {
	if kind == model.OperationDuplicates {
		return "🔍 Starting duplicate scan..."
	}
	return "🚀 Starting inbox organisation..."
}
