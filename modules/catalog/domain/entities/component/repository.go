package component

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Component, error)
	GetByCode(ctx context.Context, code string) (Component, error)
	GetByProduct(ctx context.Context, productID uuid.UUID) ([]Component, error)
	// Upsert inserts or updates atomically keyed by the component code.
	Upsert(ctx context.Context, c Component) (Component, bool, error)
}
