package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/category"
	"github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence/models"
	"github.com/meridianhq/meridian-erp/pkg/composables"
	"github.com/meridianhq/meridian-erp/pkg/repo"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

const (
	categoryFindQuery = `
        SELECT
            c.id,
            c.code,
            c.name,
            c.description,
            c.parent_id,
            c.created_at,
            c.updated_at
        FROM categories c`

	categoryCountQuery = `SELECT COUNT(c.id) FROM categories c`

	categoryUpsertQuery = `
        INSERT INTO categories (code, name, description, parent_id)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (code) DO UPDATE SET
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            parent_id = EXCLUDED.parent_id,
            updated_at = now()
        RETURNING id, code, name, description, parent_id, created_at, updated_at, (xmax = 0) AS created`
)

type PgCategoryRepository struct{}

func NewCategoryRepository() category.Repository {
	return &PgCategoryRepository{}
}

func (g *PgCategoryRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, categoryCountQuery).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (g *PgCategoryRepository) GetAll(ctx context.Context) ([]category.Category, error) {
	return g.queryCategories(ctx, repo.Join(categoryFindQuery, "ORDER BY c.code"))
}

func (g *PgCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (category.Category, error) {
	categories, err := g.queryCategories(ctx, repo.Join(categoryFindQuery, "WHERE c.id = $1"), id)
	if err != nil {
		return category.Category{}, err
	}
	if len(categories) == 0 {
		return category.Category{}, ErrCategoryNotFound
	}
	return categories[0], nil
}

func (g *PgCategoryRepository) GetByCode(ctx context.Context, code string) (category.Category, error) {
	categories, err := g.queryCategories(ctx, repo.Join(categoryFindQuery, "WHERE c.code = $1"), code)
	if err != nil {
		return category.Category{}, err
	}
	if len(categories) == 0 {
		return category.Category{}, ErrCategoryNotFound
	}
	return categories[0], nil
}

func (g *PgCategoryRepository) Upsert(ctx context.Context, c category.Category) (category.Category, bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return category.Category{}, false, err
	}

	var m models.Category
	var created bool
	err = tx.QueryRow(
		ctx,
		categoryUpsertQuery,
		c.Code(),
		c.Name(),
		c.Description(),
		c.ParentID(),
	).Scan(
		&m.ID,
		&m.Code,
		&m.Name,
		&m.Description,
		&m.ParentID,
		&m.CreatedAt,
		&m.UpdatedAt,
		&created,
	)
	if err != nil {
		return category.Category{}, false, errors.Wrap(err, "failed to upsert category")
	}
	return toDomainCategory(m), created, nil
}

func (g *PgCategoryRepository) queryCategories(ctx context.Context, query string, args ...interface{}) ([]category.Category, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query categories")
	}
	defer rows.Close()

	categories := make([]category.Category, 0)
	for rows.Next() {
		var m models.Category
		if err := rows.Scan(
			&m.ID,
			&m.Code,
			&m.Name,
			&m.Description,
			&m.ParentID,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan category row")
		}
		categories = append(categories, toDomainCategory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}
