package client

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
	GetPaginated(ctx context.Context, params *FindParams) ([]Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (Client, error)
	GetByTaxCode(ctx context.Context, taxCode string) (Client, error)
	// Upsert inserts or updates atomically keyed by the tax code and reports
	// whether a new row was created. Concurrent upserts of the same new tax
	// code never produce two rows.
	Upsert(ctx context.Context, c Client) (Client, bool, error)
}
