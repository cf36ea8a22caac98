package model

import (
	"maps"
	"math"
	"slices"
)

// Status is the coarse state of the live operation indicator.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Progress is the last progress report seen for the current operation.
type Progress struct {
	Fraction float64 `json:"fraction"`
	Label    string  `json:"label"`
}

// Percent returns the fraction as a rounded whole percentage.
func (p Progress) Percent() int {
	return int(math.Round(p.Fraction * 100))
}

// Summary holds the metrics reported by a terminal success event.
// Valid is false until one has been received.
type Summary struct {
	Total      int            `json:"total"`
	Categories map[string]int `json:"categories"`
	Duplicates int            `json:"duplicates"`
	Valid      bool           `json:"valid"`
}

// CategoryCount returns the number of distinct categories.
func (s Summary) CategoryCount() int {
	return len(s.Categories)
}

// SortedCategories returns the category names in lexical order.
func (s Summary) SortedCategories() []string {
	return slices.Sorted(maps.Keys(s.Categories))
}

// ClientState is everything the monitor renders. Live is the current
// operation's log panel and History the persisted backend log.
type ClientState struct {
	Live            []LogEntry
	History         []LogEntry
	HistoryLoaded   bool
	Progress        Progress
	Summary         Summary
	Status          Status
	Operation       OperationKind
	InFlight        bool
	Revision        uint64
	HistoryRevision uint64
}

// Clone returns a deep copy of the state.
func (s ClientState) Clone() ClientState {
	out := s
	out.Live = slices.Clone(s.Live)
	out.History = slices.Clone(s.History)
	out.Summary.Categories = maps.Clone(s.Summary.Categories)
	return out
}
