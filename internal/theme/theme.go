package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailnest/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps a bordered content area.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TitleStyle is used for view titles.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// TabStyle and ActiveTabStyle render the view switcher.
var (
	TabStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue).
			Underline(true).
			Padding(0, 1)
)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// EmptyStyle renders placeholders for empty panels.
var EmptyStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// MetricValueStyle and MetricLabelStyle render the summary metrics.
var (
	MetricValueStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)
	MetricLabelStyle = lipgloss.NewStyle().Foreground(ColorGray)
)

// ErrorTextStyle is used for inline validation messages.
var ErrorTextStyle = lipgloss.NewStyle().Foreground(ColorRed)

// SeverityStyle returns the style for a classified log line.
func SeverityStyle(s model.Severity) lipgloss.Style {
	base := lipgloss.NewStyle()

	switch s {
	case model.SeverityError:
		return base.Foreground(ColorRed)
	case model.SeveritySuccess:
		return base.Foreground(ColorGreen)
	case model.SeverityWarning:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorWhite)
	}
}

// StatusStyle returns a color-coded style for the operation status.
func StatusStyle(status model.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.StatusRunning:
		return base.Foreground(ColorYellow)
	case model.StatusDone:
		return base.Foreground(ColorGreen)
	case model.StatusError:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// StatusIcon returns the indicator shown in the status metric.
func StatusIcon(status model.Status) string {
	switch status {
	case model.StatusRunning:
		return "⚙️"
	case model.StatusDone:
		return "✅"
	case model.StatusError:
		return "❌"
	default:
		return "⏸"
	}
}

// BadgeStyle returns the style for an invite status badge.
func BadgeStyle(used bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if used {
		return base.Foreground(ColorGray)
	}
	return base.Foreground(ColorGreen)
}

// NoticeBorder returns the border color for a dialog of the given tone.
func NoticeBorder(isError bool) lipgloss.AdaptiveColor {
	if isError {
		return ColorRed
	}
	return ColorGreen
}

// ConnStyle returns the style for the push connection indicator.
func ConnStyle(connected bool) lipgloss.Style {
	if connected {
		return lipgloss.NewStyle().Foreground(ColorGreen)
	}
	return lipgloss.NewStyle().Foreground(ColorMagenta)
}
