package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestEnterEmitsCommand(t *testing.T) {
	m := typeText(New(80, 24), " Organize ")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg("organize"), cmd())
	assert.Empty(t, m.input.Value())
}

func TestEnterOnEmptyInputDoesNothing(t *testing.T) {
	_, cmd := New(80, 24).Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestMatching(t *testing.T) {
	names := func(cs []Command) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}

	assert.Equal(t, []string{"runs", "register"}, names(Matching("r")))
	assert.Equal(t, []string{"login", "logout"}, names(Matching(" LOG")))
	assert.Len(t, Matching(""), len(Commands))
	assert.Empty(t, Matching("zzz"))
}

func TestViewListsMatches(t *testing.T) {
	m := typeText(New(80, 24), "se")

	view := m.View()
	assert.Contains(t, view, "settings")
	assert.NotContains(t, view, "organize")

	m = typeText(m, "x")
	assert.Contains(t, m.View(), "no such command")
}
