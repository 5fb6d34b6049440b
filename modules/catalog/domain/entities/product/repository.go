package product

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (Product, error)
	GetBySKU(ctx context.Context, sku string) (Product, error)
	// Upsert inserts or updates atomically keyed by the SKU.
	Upsert(ctx context.Context, p Product) (Product, bool, error)
}
