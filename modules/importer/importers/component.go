package importers

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/component"
	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/product"
	catalogpersistence "github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
)

var componentRules = []importer.FieldRule{
	{Name: "code", Type: importer.TypeString, Required: true},
	{Name: "product_sku", Type: importer.TypeString, Required: true},
	{Name: "name", Type: importer.TypeString},
	{Name: "quantity", Type: importer.TypeDecimal},
	{Name: "unit", Type: importer.TypeString},
}

type ComponentImporter struct {
	components component.Repository
	products   product.Repository
}

func NewComponentImporter(components component.Repository, products product.Repository) *ComponentImporter {
	return &ComponentImporter{components: components, products: products}
}

func (im *ComponentImporter) Kind() importjob.EntityKind {
	return importjob.KindComponents
}

func (im *ComponentImporter) Map(rec importer.Record) (importer.Fields, error) {
	return importer.MapRecord(rec, componentRules)
}

func (im *ComponentImporter) Key(f importer.Fields) string {
	v, _ := f.String("code")
	return strings.ToUpper(v)
}

func (im *ComponentImporter) Reconcile(ctx context.Context, f importer.Fields) (importer.Outcome, error) {
	key := im.Key(f)
	if key == "" {
		return importer.Skipped("missing business key code"), nil
	}

	sku, _ := f.String("product_sku")
	owner, err := im.products.GetBySKU(ctx, strings.ToUpper(sku))
	if err != nil {
		if errors.Is(err, catalogpersistence.ErrProductNotFound) {
			depErr := &importer.DependencyNotFoundError{Kind: "product", Key: sku}
			return importer.Skipped(depErr.Error()), nil
		}
		return classifyStoreError(err), nil
	}

	existing, err := im.components.GetByCode(ctx, key)
	if err != nil && !errors.Is(err, catalogpersistence.ErrComponentNotFound) {
		return classifyStoreError(err), nil
	}

	merged := component.Hydrate(
		existing.ID(),
		key,
		owner.ID(),
		f.StringOr("name", existing.Name()),
		f.DecimalOr("quantity", existing.Quantity()),
		f.StringOr("unit", existing.Unit()),
		existing.CreatedAt(),
		existing.UpdatedAt(),
	)

	saved, created, err := im.components.Upsert(ctx, merged)
	if err != nil {
		return classifyStoreError(err), nil
	}
	return saveOutcome(saved.ID(), created), nil
}
