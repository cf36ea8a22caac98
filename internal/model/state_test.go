package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_Percent(t *testing.T) {
	cases := map[float64]int{
		0:     0,
		0.5:   50,
		0.999: 100,
		1:     100,
		0.054: 5,
	}
	for fraction, want := range cases {
		assert.Equal(t, want, Progress{Fraction: fraction}.Percent(), "fraction %v", fraction)
	}
}

func TestSummary_Categories(t *testing.T) {
	s := Summary{Categories: map[string]int{"Work": 30, "Personal": 12, "Faturas": 1}}

	require.Equal(t, 3, s.CategoryCount())
	require.Equal(t, []string{"Faturas", "Personal", "Work"}, s.SortedCategories())
	require.Equal(t, 0, Summary{}.CategoryCount())
}

func TestClientState_CloneIsDeep(t *testing.T) {
	orig := ClientState{
		Live:    []LogEntry{{Text: "a", Severity: SeverityInfo}},
		History: []LogEntry{{Text: "b", Severity: SeverityInfo}},
		Summary: Summary{Categories: map[string]int{"Work": 1}},
	}

	cp := orig.Clone()
	cp.Live[0].Text = "changed"
	cp.History = append(cp.History, LogEntry{Text: "c"})
	cp.Summary.Categories["Work"] = 99

	require.Equal(t, "a", orig.Live[0].Text)
	require.Len(t, orig.History, 1)
	require.Equal(t, 1, orig.Summary.Categories["Work"])
}

func TestParseOperationKind(t *testing.T) {
	k, err := ParseOperationKind("organize")
	require.NoError(t, err)
	require.Equal(t, OperationOrganize, k)

	k, err = ParseOperationKind("duplicates")
	require.NoError(t, err)
	require.Equal(t, OperationDuplicates, k)

	_, err = ParseOperationKind("purge")
	require.Error(t, err)
}

func TestRunState(t *testing.T) {
	assert.Equal(t, StatusDone, Run{Status: RunStatusDone}.State())
	assert.Equal(t, StatusError, Run{Status: RunStatusFailed}.State())
	assert.Equal(t, StatusRunning, Run{Status: RunStatusRunning}.State())
	assert.Equal(t, StatusIdle, Run{Status: "other"}.State())
}
