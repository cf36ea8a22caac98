package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout_ContentHeight(t *testing.T) {
	assert.Equal(t, 21, NewLayout(80, 24).ContentHeight())
	assert.Equal(t, 0, NewLayout(80, 2).ContentHeight())
}

func TestLayout_RenderWithFrame_FillsHeight(t *testing.T) {
	l := NewLayout(40, 10)
	out := l.RenderWithFrame(
		l.RenderHeader("MailNest", "connected"),
		l.RenderTabs([]string{"Monitor", "History"}, 0),
		"body",
		l.RenderStatusBar("q quit"),
	)
	assert.Equal(t, 10, len(strings.Split(out, "\n")))
	assert.Contains(t, out, "MailNest")
	assert.Contains(t, out, "History")
}
