package importers

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/client"
	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/contact"
	catalogpersistence "github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
)

var contactRules = []importer.FieldRule{
	{Name: "email", Type: importer.TypeString, Required: true},
	{Name: "client_tax_code", Type: importer.TypeString, Required: true},
	{Name: "first_name", Type: importer.TypeString},
	{Name: "last_name", Type: importer.TypeString},
	{Name: "phone", Type: importer.TypeString},
	{Name: "role", Type: importer.TypeString},
}

type ContactImporter struct {
	contacts contact.Repository
	clients  client.Repository
}

func NewContactImporter(contacts contact.Repository, clients client.Repository) *ContactImporter {
	return &ContactImporter{contacts: contacts, clients: clients}
}

func (im *ContactImporter) Kind() importjob.EntityKind {
	return importjob.KindContacts
}

func (im *ContactImporter) Map(rec importer.Record) (importer.Fields, error) {
	return importer.MapRecord(rec, contactRules)
}

func (im *ContactImporter) Key(f importer.Fields) string {
	v, _ := f.String("email")
	return strings.ToLower(v)
}

func (im *ContactImporter) Reconcile(ctx context.Context, f importer.Fields) (importer.Outcome, error) {
	key := im.Key(f)
	if key == "" {
		return importer.Skipped("missing business key email"), nil
	}

	taxCode, _ := f.String("client_tax_code")
	owner, err := im.clients.GetByTaxCode(ctx, strings.ToUpper(taxCode))
	if err != nil {
		if errors.Is(err, catalogpersistence.ErrClientNotFound) {
			depErr := &importer.DependencyNotFoundError{Kind: "client", Key: taxCode}
			return importer.Skipped(depErr.Error()), nil
		}
		return classifyStoreError(err), nil
	}

	existing, err := im.contacts.GetByEmail(ctx, key)
	if err != nil && !errors.Is(err, catalogpersistence.ErrContactNotFound) {
		return classifyStoreError(err), nil
	}

	merged := contact.Hydrate(
		existing.ID(),
		owner.ID(),
		key,
		f.StringOr("first_name", existing.FirstName()),
		f.StringOr("last_name", existing.LastName()),
		f.StringOr("phone", existing.Phone()),
		f.StringOr("role", existing.Role()),
		existing.CreatedAt(),
		existing.UpdatedAt(),
	)

	saved, created, err := im.contacts.Upsert(ctx, merged)
	if err != nil {
		return classifyStoreError(err), nil
	}
	return saveOutcome(saved.ID(), created), nil
}
