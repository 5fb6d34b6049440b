package importers

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/category"
	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/product"
	catalogpersistence "github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
)

var productRules = []importer.FieldRule{
	{Name: "sku", Type: importer.TypeString, Required: true},
	{Name: "name", Type: importer.TypeString},
	{Name: "description", Type: importer.TypeString},
	{Name: "price", Type: importer.TypeDecimal},
	{Name: "unit", Type: importer.TypeString},
	{Name: "weight", Type: importer.TypeDecimal},
	{Name: "active", Type: importer.TypeBool},
	{Name: "category_code", Type: importer.TypeString},
}

type ProductImporter struct {
	products   product.Repository
	categories category.Repository
}

func NewProductImporter(products product.Repository, categories category.Repository) *ProductImporter {
	return &ProductImporter{products: products, categories: categories}
}

func (im *ProductImporter) Kind() importjob.EntityKind {
	return importjob.KindProducts
}

func (im *ProductImporter) Map(rec importer.Record) (importer.Fields, error) {
	return importer.MapRecord(rec, productRules)
}

func (im *ProductImporter) Key(f importer.Fields) string {
	v, _ := f.String("sku")
	return strings.ToUpper(v)
}

func (im *ProductImporter) Reconcile(ctx context.Context, f importer.Fields) (importer.Outcome, error) {
	key := im.Key(f)
	if key == "" {
		return importer.Skipped("missing business key sku"), nil
	}

	existing, err := im.products.GetBySKU(ctx, key)
	if err != nil && !errors.Is(err, catalogpersistence.ErrProductNotFound) {
		return classifyStoreError(err), nil
	}

	active := true
	if !existing.IsZero() {
		active = existing.Active()
	}

	categoryID := existing.CategoryID()
	if code, ok := f.String("category_code"); ok {
		cat, err := im.categories.GetByCode(ctx, strings.ToUpper(code))
		if err != nil {
			if errors.Is(err, catalogpersistence.ErrCategoryNotFound) {
				depErr := &importer.DependencyNotFoundError{Kind: "category", Key: code}
				return importer.Skipped(depErr.Error()), nil
			}
			return classifyStoreError(err), nil
		}
		id := cat.ID()
		categoryID = &id
	}

	merged := product.Hydrate(
		existing.ID(),
		key,
		f.StringOr("name", existing.Name()),
		f.StringOr("description", existing.Description()),
		f.DecimalOr("price", existing.Price()),
		f.StringOr("unit", existing.Unit()),
		f.DecimalOr("weight", existing.Weight()),
		f.BoolOr("active", active),
		categoryID,
		existing.CreatedAt(),
		existing.UpdatedAt(),
	)

	saved, created, err := im.products.Upsert(ctx, merged)
	if err != nil {
		return classifyStoreError(err), nil
	}
	return saveOutcome(saved.ID(), created), nil
}
