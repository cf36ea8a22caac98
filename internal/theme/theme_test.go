package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/mailnest/internal/model"
)

func TestSeverityStyle_DistinctPerClass(t *testing.T) {
	seen := map[string]model.Severity{}
	for _, s := range []model.Severity{
		model.SeverityError,
		model.SeveritySuccess,
		model.SeverityWarning,
		model.SeverityInfo,
	} {
		fg := SeverityStyle(s).GetForeground()
		c, ok := fg.(lipgloss.AdaptiveColor)
		if assert.True(t, ok, "severity %s", s) {
			prev, dup := seen[c.Dark]
			assert.False(t, dup, "%s shares a color with %s", s, prev)
			seen[c.Dark] = s
		}
	}
}

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, "✅", StatusIcon(model.StatusDone))
	assert.Equal(t, "❌", StatusIcon(model.StatusError))
	assert.Equal(t, "⚙️", StatusIcon(model.StatusRunning))
}
