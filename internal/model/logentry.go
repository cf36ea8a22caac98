package model

import "strings"

// Severity is the display class of a log line.
type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// LogEntry is one classified line in a log panel.
type LogEntry struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// Markers holds the substrings that select a severity. The backend does
// not tag its log lines, so the class is sniffed from the text.
type Markers struct {
	Error   []string `mapstructure:"error" yaml:"error"`
	Success []string `mapstructure:"success" yaml:"success"`
	Warning []string `mapstructure:"warning" yaml:"warning"`
}

// DefaultMarkers returns the markers matching the backend's log vocabulary.
func DefaultMarkers() Markers {
	return Markers{
		Error:   []string{"❌", "Erro"},
		Success: []string{"✅", "sucesso"},
		Warning: []string{"⚠️"},
	}
}

// Classifier assigns a Severity to log text.
type Classifier struct {
	markers Markers
}

// NewClassifier creates a classifier. Empty marker groups fall back to
// the defaults for that group.
func NewClassifier(m Markers) Classifier {
	def := DefaultMarkers()
	if len(m.Error) == 0 {
		m.Error = def.Error
	}
	if len(m.Success) == 0 {
		m.Success = def.Success
	}
	if len(m.Warning) == 0 {
		m.Warning = def.Warning
	}
	return Classifier{markers: m}
}

// Classify returns the severity of text. Error wins over success, success
// over warning; anything else is info.
func (c Classifier) Classify(text string) Severity {
	switch {
	case containsAny(text, c.markers.Error):
		return SeverityError
	case containsAny(text, c.markers.Success):
		return SeveritySuccess
	case containsAny(text, c.markers.Warning):
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Entry classifies text into a LogEntry.
func (c Classifier) Entry(text string) LogEntry {
	return LogEntry{Text: text, Severity: c.Classify(text)}
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}
