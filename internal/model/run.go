package model

import "time"

// Run status values stored in the local run journal.
const (
	RunStatusRunning = "running"
	RunStatusDone    = "done"
	RunStatusFailed  = "failed"
)

// Run is one operation started from this client, as recorded in the
// local journal.
type Run struct {
	ID         string         `db:"id" json:"id" yaml:"id"`
	Kind       OperationKind  `db:"kind" json:"kind" yaml:"kind"`
	Account    string         `db:"account" json:"account" yaml:"account"`
	Status     string         `db:"status" json:"status" yaml:"status"`
	Total      int            `db:"total" json:"total" yaml:"total"`
	Duplicates int            `db:"duplicates" json:"duplicates" yaml:"duplicates"`
	Categories map[string]int `db:"-" json:"categories,omitempty" yaml:"categories,omitempty"`
	Error      string         `db:"error" json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt  time.Time      `db:"started_at" json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time     `db:"finished_at" json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
}

// RunResult is what a terminal event contributes to a Run.
type RunResult struct {
	Status     string
	Total      int
	Duplicates int
	Categories map[string]int
	Error      string
}

// State maps the journal status to the live indicator status.
func (r Run) State() Status {
	switch r.Status {
	case RunStatusRunning:
		return StatusRunning
	case RunStatusDone:
		return StatusDone
	case RunStatusFailed:
		return StatusError
	}
	return StatusIdle
}
