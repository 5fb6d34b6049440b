package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/contact"
	"github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence/models"
	"github.com/meridianhq/meridian-erp/pkg/composables"
	"github.com/meridianhq/meridian-erp/pkg/repo"
)

var (
	ErrContactNotFound = errors.New("contact not found")
)

const (
	contactFindQuery = `
        SELECT
            c.id,
            c.client_id,
            c.email,
            c.first_name,
            c.last_name,
            c.phone,
            c.role,
            c.created_at,
            c.updated_at
        FROM contacts c`

	contactCountQuery = `SELECT COUNT(c.id) FROM contacts c`

	contactUpsertQuery = `
        INSERT INTO contacts (client_id, email, first_name, last_name, phone, role)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (email) DO UPDATE SET
            client_id = EXCLUDED.client_id,
            first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            phone = EXCLUDED.phone,
            role = EXCLUDED.role,
            updated_at = now()
        RETURNING
            id, client_id, email, first_name, last_name, phone, role,
            created_at, updated_at, (xmax = 0) AS created`
)

type PgContactRepository struct{}

func NewContactRepository() contact.Repository {
	return &PgContactRepository{}
}

func (g *PgContactRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, contactCountQuery).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (g *PgContactRepository) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	contacts, err := g.queryContacts(ctx, repo.Join(contactFindQuery, "WHERE c.id = $1"), id)
	if err != nil {
		return contact.Contact{}, err
	}
	if len(contacts) == 0 {
		return contact.Contact{}, ErrContactNotFound
	}
	return contacts[0], nil
}

func (g *PgContactRepository) GetByEmail(ctx context.Context, email string) (contact.Contact, error) {
	contacts, err := g.queryContacts(ctx, repo.Join(contactFindQuery, "WHERE c.email = $1"), email)
	if err != nil {
		return contact.Contact{}, err
	}
	if len(contacts) == 0 {
		return contact.Contact{}, ErrContactNotFound
	}
	return contacts[0], nil
}

func (g *PgContactRepository) GetByClient(ctx context.Context, clientID uuid.UUID) ([]contact.Contact, error) {
	return g.queryContacts(ctx, repo.Join(contactFindQuery, "WHERE c.client_id = $1 ORDER BY c.email"), clientID)
}

func (g *PgContactRepository) Upsert(ctx context.Context, c contact.Contact) (contact.Contact, bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return contact.Contact{}, false, err
	}

	var m models.Contact
	var created bool
	err = tx.QueryRow(
		ctx,
		contactUpsertQuery,
		c.ClientID(),
		c.Email(),
		c.FirstName(),
		c.LastName(),
		c.Phone(),
		c.Role(),
	).Scan(
		&m.ID,
		&m.ClientID,
		&m.Email,
		&m.FirstName,
		&m.LastName,
		&m.Phone,
		&m.Role,
		&m.CreatedAt,
		&m.UpdatedAt,
		&created,
	)
	if err != nil {
		return contact.Contact{}, false, errors.Wrap(err, "failed to upsert contact")
	}
	return toDomainContact(m), created, nil
}

func (g *PgContactRepository) queryContacts(ctx context.Context, query string, args ...interface{}) ([]contact.Contact, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query contacts")
	}
	defer rows.Close()

	contacts := make([]contact.Contact, 0)
	for rows.Next() {
		var m models.Contact
		if err := rows.Scan(
			&m.ID,
			&m.ClientID,
			&m.Email,
			&m.FirstName,
			&m.LastName,
			&m.Phone,
			&m.Role,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan contact row")
		}
		contacts = append(contacts, toDomainContact(m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return contacts, nil
}
