package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/mailnest/internal/model"
)

// ErrRunNotFound is returned when no run matches the requested ID.
var ErrRunNotFound = errors.New("run not found")

// RunFilter controls filtering and pagination for run queries.
type RunFilter struct {
	Kind   *model.OperationKind // organize, duplicates or nil (all)
	Status *string              // running, done, failed or nil (all)
	Limit  int
	Offset int
}

// Store defines the persistence interface for the local run journal.
type Store interface {
	CreateRun(ctx context.Context, run *model.Run) error
	FinishRun(ctx context.Context, id string, res model.RunResult, finishedAt time.Time) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	DeleteRunsBefore(ctx context.Context, before time.Time) (int64, error)
	Close() error
}
