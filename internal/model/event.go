package model

// Push event names emitted by the backend's Socket.IO channel.
const (
	EventLog        = "log"
	EventProgress   = "progresso"
	EventCompletion = "conclusao"
	EventDuplicates = "duplicatas_resultado"
	EventFailure    = "erro"
)

// EventNames lists every push event the client subscribes to.
var EventNames = []string{
	EventLog,
	EventProgress,
	EventCompletion,
	EventDuplicates,
	EventFailure,
}

// Event is a single message pushed by the backend while an operation runs.
// The concrete types below form a closed set.
type Event interface {
	// Name returns the push event name the variant arrives under.
	Name() string

	// Terminal reports whether the event ends live tracking of the
	// current operation.
	Terminal() bool
}

// LogEvent carries one human-readable log line.
type LogEvent struct {
	Message string `json:"message"`
}

// ProgressEvent reports how far the running operation is.
// Fraction is expected in [0, 1] but is not clamped or checked for
// monotonicity.
type ProgressEvent struct {
	Fraction float64 `json:"progresso"`
	Label    string  `json:"texto"`
}

// CompletionEvent ends a successful inbox organisation.
type CompletionEvent struct {
	TotalProcessed    int            `json:"total"`
	CategoryCounts    map[string]int `json:"categorias"`
	DuplicatesRemoved int            `json:"duplicatas"`
}

// DuplicatesEvent ends a successful duplicate scan.
type DuplicatesEvent struct {
	Removed int `json:"duplicatas"`
}

// FailureEvent ends an operation with an error.
type FailureEvent struct {
	Message string `json:"message"`
}

func (LogEvent) Name() string        { return EventLog }
func (ProgressEvent) Name() string   { return EventProgress }
func (CompletionEvent) Name() string { return EventCompletion }
func (DuplicatesEvent) Name() string { return EventDuplicates }
func (FailureEvent) Name() string    { return EventFailure }

func (LogEvent) Terminal() bool        { return false }
func (ProgressEvent) Terminal() bool   { return false }
func (CompletionEvent) Terminal() bool { return true }
func (DuplicatesEvent) Terminal() bool { return true }
func (FailureEvent) Terminal() bool    { return true }
