package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/component"
	"github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence/models"
	"github.com/meridianhq/meridian-erp/pkg/composables"
	"github.com/meridianhq/meridian-erp/pkg/repo"
)

var (
	ErrComponentNotFound = errors.New("component not found")
)

const (
	componentFindQuery = `
        SELECT
            c.id,
            c.code,
            c.product_id,
            c.name,
            c.quantity,
            c.unit,
            c.created_at,
            c.updated_at
        FROM components c`

	componentCountQuery = `SELECT COUNT(c.id) FROM components c`

	componentUpsertQuery = `
        INSERT INTO components (code, product_id, name, quantity, unit)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (code) DO UPDATE SET
            product_id = EXCLUDED.product_id,
            name = EXCLUDED.name,
            quantity = EXCLUDED.quantity,
            unit = EXCLUDED.unit,
            updated_at = now()
        RETURNING
            id, code, product_id, name, quantity, unit,
            created_at, updated_at, (xmax = 0) AS created`
)

type PgComponentRepository struct{}

func NewComponentRepository() component.Repository {
	return &PgComponentRepository{}
}

func (g *PgComponentRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, componentCountQuery).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (g *PgComponentRepository) GetByID(ctx context.Context, id uuid.UUID) (component.Component, error) {
	components, err := g.queryComponents(ctx, repo.Join(componentFindQuery, "WHERE c.id = $1"), id)
	if err != nil {
		return component.Component{}, err
	}
	if len(components) == 0 {
		return component.Component{}, ErrComponentNotFound
	}
	return components[0], nil
}

func (g *PgComponentRepository) GetByCode(ctx context.Context, code string) (component.Component, error) {
	components, err := g.queryComponents(ctx, repo.Join(componentFindQuery, "WHERE c.code = $1"), code)
	if err != nil {
		return component.Component{}, err
	}
	if len(components) == 0 {
		return component.Component{}, ErrComponentNotFound
	}
	return components[0], nil
}

func (g *PgComponentRepository) GetByProduct(ctx context.Context, productID uuid.UUID) ([]component.Component, error) {
	return g.queryComponents(ctx, repo.Join(componentFindQuery, "WHERE c.product_id = $1 ORDER BY c.code"), productID)
}

func (g *PgComponentRepository) Upsert(ctx context.Context, c component.Component) (component.Component, bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return component.Component{}, false, err
	}

	var m models.Component
	var created bool
	err = tx.QueryRow(
		ctx,
		componentUpsertQuery,
		c.Code(),
		c.ProductID(),
		c.Name(),
		c.Quantity(),
		c.Unit(),
	).Scan(
		&m.ID,
		&m.Code,
		&m.ProductID,
		&m.Name,
		&m.Quantity,
		&m.Unit,
		&m.CreatedAt,
		&m.UpdatedAt,
		&created,
	)
	if err != nil {
		return component.Component{}, false, errors.Wrap(err, "failed to upsert component")
	}
	return toDomainComponent(m), created, nil
}

func (g *PgComponentRepository) queryComponents(ctx context.Context, query string, args ...interface{}) ([]component.Component, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query components")
	}
	defer rows.Close()

	components := make([]component.Component, 0)
	for rows.Next() {
		var m models.Component
		if err := rows.Scan(
			&m.ID,
			&m.Code,
			&m.ProductID,
			&m.Name,
			&m.Quantity,
			&m.Unit,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan component row")
		}
		components = append(components, toDomainComponent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return components, nil
}
