package help

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/mailnest/internal/keys"
)

func TestView_ListsBindingsAndCommands(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 160, 60)
	m.SetSize(160, 60)

	view := m.View()
	assert.Contains(t, view, "organise inbox")
	assert.Contains(t, view, "settings")
	assert.Contains(t, view, "show runs started from this machine")
	assert.Contains(t, view, "failures")
}
