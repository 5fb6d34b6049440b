package order

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Order, error)
	GetByNumber(ctx context.Context, number string) (Order, error)
	Create(ctx context.Context, o Order) (Order, error)
}

type ItemRepository interface {
	GetByOrderLine(ctx context.Context, orderID uuid.UUID, lineNo int) (Item, error)
	GetByOrder(ctx context.Context, orderID uuid.UUID) ([]Item, error)
	// Upsert inserts or updates atomically keyed by (order_id, line_no).
	Upsert(ctx context.Context, i Item) (Item, bool, error)
}
