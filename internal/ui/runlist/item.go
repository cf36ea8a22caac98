package runlist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/theme"
)

// RunItem wraps a model.Run so it can be used in a bubbles/list.
type RunItem struct {
	Run model.Run
}

// FilterValue returns the string used for fuzzy filtering.
func (i RunItem) FilterValue() string { return i.Run.Account }

// Title returns the operation name for the list.
func (i RunItem) Title() string { return i.Run.Kind.Label() }

// Description returns a short summary line for the list.
func (i RunItem) Description() string {
	parts := []string{
		i.Run.Account,
		i.Run.Status,
		relativeTime(i.Run.StartedAt),
	}
	return strings.Join(parts, " | ")
}

// RunDelegate implements list.ItemDelegate for rendering journal rows.
type RunDelegate struct{}

// Height returns the number of lines each item takes.
func (d RunDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d RunDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d RunDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single run line.
func (d RunDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(RunItem)
	if !ok {
		return
	}
	r := ri.Run

	status := theme.StatusStyle(r.State()).Render(theme.StatusIcon(r.State()) + " " + r.Status)

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(r.StartedAt))

	line := fmt.Sprintf("%s %-18s %s  %s  %s", status, r.Kind.Label(), r.Account, summary(r), timeStr)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// summary gives the headline count of a finished run.
func summary(r model.Run) string {
	switch {
	case r.Status == model.RunStatusRunning:
		return ""
	case r.Status == model.RunStatusFailed:
		return theme.ErrorTextStyle.Render(r.Error)
	case r.Kind == model.OperationDuplicates:
		return fmt.Sprintf("%d duplicates", r.Duplicates)
	default:
		return fmt.Sprintf("%d e-mails", r.Total)
	}
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
