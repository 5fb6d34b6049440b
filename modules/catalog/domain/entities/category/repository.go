package category

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetAll(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (Category, error)
	GetByCode(ctx context.Context, code string) (Category, error)
	// Upsert inserts or updates atomically keyed by the category code.
	Upsert(ctx context.Context, c Category) (Category, bool, error)
}
