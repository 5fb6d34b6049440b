package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/product"
	"github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence/models"
	"github.com/meridianhq/meridian-erp/pkg/composables"
	"github.com/meridianhq/meridian-erp/pkg/repo"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

const (
	productFindQuery = `
        SELECT
            p.id,
            p.sku,
            p.name,
            p.description,
            p.price,
            p.unit,
            p.weight,
            p.active,
            p.category_id,
            p.created_at,
            p.updated_at
        FROM products p`

	productCountQuery = `SELECT COUNT(p.id) FROM products p`

	productUpsertQuery = `
        INSERT INTO products (sku, name, description, price, unit, weight, active, category_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (sku) DO UPDATE SET
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            price = EXCLUDED.price,
            unit = EXCLUDED.unit,
            weight = EXCLUDED.weight,
            active = EXCLUDED.active,
            category_id = EXCLUDED.category_id,
            updated_at = now()
        RETURNING
            id, sku, name, description, price, unit, weight, active, category_id,
            created_at, updated_at, (xmax = 0) AS created`
)

type PgProductRepository struct{}

func NewProductRepository() product.Repository {
	return &PgProductRepository{}
}

func (g *PgProductRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, productCountQuery).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (g *PgProductRepository) GetPaginated(ctx context.Context, params *product.FindParams) ([]product.Product, error) {
	if params == nil {
		params = &product.FindParams{}
	}

	var where []string
	var args []interface{}
	if params.Q != "" {
		where = append(where, "(p.name ILIKE $1 OR p.sku ILIKE $1)")
		args = append(args, "%"+params.Q+"%")
	}

	query := repo.Join(
		productFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY p.sku",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return g.queryProducts(ctx, query, args...)
}

func (g *PgProductRepository) GetByID(ctx context.Context, id uuid.UUID) (product.Product, error) {
	products, err := g.queryProducts(ctx, repo.Join(productFindQuery, "WHERE p.id = $1"), id)
	if err != nil {
		return product.Product{}, err
	}
	if len(products) == 0 {
		return product.Product{}, ErrProductNotFound
	}
	return products[0], nil
}

func (g *PgProductRepository) GetBySKU(ctx context.Context, sku string) (product.Product, error) {
	products, err := g.queryProducts(ctx, repo.Join(productFindQuery, "WHERE p.sku = $1"), sku)
	if err != nil {
		return product.Product{}, err
	}
	if len(products) == 0 {
		return product.Product{}, ErrProductNotFound
	}
	return products[0], nil
}

func (g *PgProductRepository) Upsert(ctx context.Context, p product.Product) (product.Product, bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return product.Product{}, false, err
	}

	var m models.Product
	var created bool
	err = tx.QueryRow(
		ctx,
		productUpsertQuery,
		p.SKU(),
		p.Name(),
		p.Description(),
		p.Price(),
		p.Unit(),
		p.Weight(),
		p.Active(),
		p.CategoryID(),
	).Scan(
		&m.ID,
		&m.SKU,
		&m.Name,
		&m.Description,
		&m.Price,
		&m.Unit,
		&m.Weight,
		&m.Active,
		&m.CategoryID,
		&m.CreatedAt,
		&m.UpdatedAt,
		&created,
	)
	if err != nil {
		return product.Product{}, false, errors.Wrap(err, "failed to upsert product")
	}
	return toDomainProduct(m), created, nil
}

func (g *PgProductRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]product.Product, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query products")
	}
	defer rows.Close()

	products := make([]product.Product, 0)
	for rows.Next() {
		var m models.Product
		if err := rows.Scan(
			&m.ID,
			&m.SKU,
			&m.Name,
			&m.Description,
			&m.Price,
			&m.Unit,
			&m.Weight,
			&m.Active,
			&m.CategoryID,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan product row")
		}
		products = append(products, toDomainProduct(m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
