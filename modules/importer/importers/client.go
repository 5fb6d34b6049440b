package importers

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/client"
	catalogpersistence "github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
)

var clientRules = []importer.FieldRule{
	{Name: "tax_code", Type: importer.TypeString, Required: true},
	{Name: "name", Type: importer.TypeString},
	{Name: "email", Type: importer.TypeString},
	{Name: "phone", Type: importer.TypeString},
	{Name: "address", Type: importer.TypeString},
	{Name: "city", Type: importer.TypeString},
	{Name: "country", Type: importer.TypeString},
	{Name: "credit_limit", Type: importer.TypeDecimal},
}

type ClientImporter struct {
	clients client.Repository
}

func NewClientImporter(clients client.Repository) *ClientImporter {
	return &ClientImporter{clients: clients}
}

func (im *ClientImporter) Kind() importjob.EntityKind {
	return importjob.KindClients
}

func (im *ClientImporter) Map(rec importer.Record) (importer.Fields, error) {
	return importer.MapRecord(rec, clientRules)
}

func (im *ClientImporter) Key(f importer.Fields) string {
	v, _ := f.String("tax_code")
	return strings.ToUpper(v)
}

func (im *ClientImporter) Reconcile(ctx context.Context, f importer.Fields) (importer.Outcome, error) {
	key := im.Key(f)
	if key == "" {
		return importer.Skipped("missing business key tax_code"), nil
	}

	existing, err := im.clients.GetByTaxCode(ctx, key)
	if err != nil && !errors.Is(err, catalogpersistence.ErrClientNotFound) {
		return classifyStoreError(err), nil
	}

	merged := client.Hydrate(
		existing.ID(),
		key,
		f.StringOr("name", existing.Name()),
		f.StringOr("email", existing.Email()),
		f.StringOr("phone", existing.Phone()),
		f.StringOr("address", existing.Address()),
		f.StringOr("city", existing.City()),
		f.StringOr("country", existing.Country()),
		f.DecimalOr("credit_limit", existing.CreditLimit()),
		existing.CreatedAt(),
		existing.UpdatedAt(),
	)

	saved, created, err := im.clients.Upsert(ctx, merged)
	if err != nil {
		return classifyStoreError(err), nil
	}
	return saveOutcome(saved.ID(), created), nil
}
