package contact

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Contact, error)
	GetByEmail(ctx context.Context, email string) (Contact, error)
	GetByClient(ctx context.Context, clientID uuid.UUID) ([]Contact, error)
	// Upsert inserts or updates atomically keyed by the e-mail address.
	Upsert(ctx context.Context, c Contact) (Contact, bool, error)
}
