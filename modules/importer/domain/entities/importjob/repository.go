package importjob

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the job record store: the only component that mutates job
// state. All mutation is increment/append style; history is never rewritten.
// Get returns a fully consistent snapshot regardless of concurrent writes.
type Repository interface {
	Create(ctx context.Context, kind EntityKind) (Snapshot, error)
	Get(ctx context.Context, id uuid.UUID) (Snapshot, error)
	Start(ctx context.Context, id uuid.UUID) error
	SetTotal(ctx context.Context, id uuid.UUID, total int) error
	ApplyRow(ctx context.Context, id uuid.UUID, r RowResult) error
	Finish(ctx context.Context, id uuid.UUID, status Status, topError string) error
}
