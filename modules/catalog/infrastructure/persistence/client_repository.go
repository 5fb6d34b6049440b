package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/client"
	"github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence/models"
	"github.com/meridianhq/meridian-erp/pkg/composables"
	"github.com/meridianhq/meridian-erp/pkg/repo"
)

var (
	ErrClientNotFound = errors.New("client not found")
)

const (
	clientFindQuery = `
        SELECT
            c.id,
            c.tax_code,
            c.name,
            c.email,
            c.phone,
            c.address,
            c.city,
            c.country,
            c.credit_limit,
            c.created_at,
            c.updated_at
        FROM clients c`

	clientCountQuery = `SELECT COUNT(c.id) FROM clients c`

	clientUpsertQuery = `
        INSERT INTO clients (tax_code, name, email, phone, address, city, country, credit_limit)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (tax_code) DO UPDATE SET
            name = EXCLUDED.name,
            email = EXCLUDED.email,
            phone = EXCLUDED.phone,
            address = EXCLUDED.address,
            city = EXCLUDED.city,
            country = EXCLUDED.country,
            credit_limit = EXCLUDED.credit_limit,
            updated_at = now()
        RETURNING
            id, tax_code, name, email, phone, address, city, country, credit_limit,
            created_at, updated_at, (xmax = 0) AS created`
)

type PgClientRepository struct{}

func NewClientRepository() client.Repository {
	return &PgClientRepository{}
}

func (g *PgClientRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, clientCountQuery).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (g *PgClientRepository) GetPaginated(ctx context.Context, params *client.FindParams) ([]client.Client, error) {
	if params == nil {
		params = &client.FindParams{}
	}

	var where []string
	var args []interface{}
	if params.Q != "" {
		where = append(where, "(c.name ILIKE $1 OR c.tax_code ILIKE $1 OR c.email ILIKE $1)")
		args = append(args, "%"+params.Q+"%")
	}

	query := repo.Join(
		clientFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY c.name",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return g.queryClients(ctx, query, args...)
}

func (g *PgClientRepository) GetByID(ctx context.Context, id uuid.UUID) (client.Client, error) {
	clients, err := g.queryClients(ctx, repo.Join(clientFindQuery, "WHERE c.id = $1"), id)
	if err != nil {
		return client.Client{}, err
	}
	if len(clients) == 0 {
		return client.Client{}, ErrClientNotFound
	}
	return clients[0], nil
}

func (g *PgClientRepository) GetByTaxCode(ctx context.Context, taxCode string) (client.Client, error) {
	clients, err := g.queryClients(ctx, repo.Join(clientFindQuery, "WHERE c.tax_code = $1"), taxCode)
	if err != nil {
		return client.Client{}, err
	}
	if len(clients) == 0 {
		return client.Client{}, ErrClientNotFound
	}
	return clients[0], nil
}

func (g *PgClientRepository) Upsert(ctx context.Context, c client.Client) (client.Client, bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return client.Client{}, false, err
	}

	var m models.Client
	var created bool
	err = tx.QueryRow(
		ctx,
		clientUpsertQuery,
		c.TaxCode(),
		c.Name(),
		c.Email(),
		c.Phone(),
		c.Address(),
		c.City(),
		c.Country(),
		c.CreditLimit(),
	).Scan(
		&m.ID,
		&m.TaxCode,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.Address,
		&m.City,
		&m.Country,
		&m.CreditLimit,
		&m.CreatedAt,
		&m.UpdatedAt,
		&created,
	)
	if err != nil {
		return client.Client{}, false, errors.Wrap(err, "failed to upsert client")
	}
	return toDomainClient(m), created, nil
}

func (g *PgClientRepository) queryClients(ctx context.Context, query string, args ...interface{}) ([]client.Client, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to query clients: %s", query))
	}
	defer rows.Close()

	clients := make([]client.Client, 0)
	for rows.Next() {
		var m models.Client
		if err := rows.Scan(
			&m.ID,
			&m.TaxCode,
			&m.Name,
			&m.Email,
			&m.Phone,
			&m.Address,
			&m.City,
			&m.Country,
			&m.CreditLimit,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan client row")
		}
		clients = append(clients, toDomainClient(m))
	}
	if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return clients, nil
}
