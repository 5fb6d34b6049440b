package importers

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/category"
	catalogpersistence "github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
)

var categoryRules = []importer.FieldRule{
	{Name: "code", Type: importer.TypeString, Required: true},
	{Name: "name", Type: importer.TypeString},
	{Name: "description", Type: importer.TypeString},
	{Name: "parent_code", Type: importer.TypeString},
}

type CategoryImporter struct {
	categories category.Repository
}

func NewCategoryImporter(categories category.Repository) *CategoryImporter {
	return &CategoryImporter{categories: categories}
}

func (im *CategoryImporter) Kind() importjob.EntityKind {
	return importjob.KindCategories
}

func (im *CategoryImporter) Map(rec importer.Record) (importer.Fields, error) {
	return importer.MapRecord(rec, categoryRules)
}

func (im *CategoryImporter) Key(f importer.Fields) string {
	v, _ := f.String("code")
	return strings.ToUpper(v)
}

func (im *CategoryImporter) Reconcile(ctx context.Context, f importer.Fields) (importer.Outcome, error) {
	key := im.Key(f)
	if key == "" {
		return importer.Skipped("missing business key code"), nil
	}

	existing, err := im.categories.GetByCode(ctx, key)
	if err != nil && !errors.Is(err, catalogpersistence.ErrCategoryNotFound) {
		return classifyStoreError(err), nil
	}

	parentID := existing.ParentID()
	if parentCode, ok := f.String("parent_code"); ok {
		parent, err := im.categories.GetByCode(ctx, strings.ToUpper(parentCode))
		if err != nil {
			if errors.Is(err, catalogpersistence.ErrCategoryNotFound) {
				depErr := &importer.DependencyNotFoundError{Kind: "category", Key: parentCode}
				return importer.Skipped(depErr.Error()), nil
			}
			return classifyStoreError(err), nil
		}
		id := parent.ID()
		parentID = &id
	}

	merged := category.Hydrate(
		existing.ID(),
		key,
		f.StringOr("name", existing.Name()),
		f.StringOr("description", existing.Description()),
		parentID,
		existing.CreatedAt(),
		existing.UpdatedAt(),
	)

	saved, created, err := im.categories.Upsert(ctx, merged)
	if err != nil {
		return classifyStoreError(err), nil
	}
	return saveOutcome(saved.ID(), created), nil
}
