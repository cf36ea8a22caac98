// Package testutil holds helpers shared by tests that need a run journal.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/store"
)

// NewTestStore opens an in-memory journal with all migrations applied and
// closes it when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening test journal: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test journal: %v", err)
		}
	})

	return s
}

// RecordRun inserts run and, when res is non-nil, finishes it one minute
// after it started. The stored run (with its generated ID) is returned.
func RecordRun(t *testing.T, s store.Store, run model.Run, res *model.RunResult) model.Run {
	t.Helper()
	ctx := context.Background()

	if err := s.CreateRun(ctx, &run); err != nil {
		t.Fatalf("recording run: %v", err)
	}
	if res == nil {
		return run
	}

	if err := s.FinishRun(ctx, run.ID, *res, run.StartedAt.Add(time.Minute)); err != nil {
		t.Fatalf("finishing run %s: %v", run.ID, err)
	}
	stored, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("reading run %s: %v", run.ID, err)
	}
	return *stored
}
