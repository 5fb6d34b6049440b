package importers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/category"
	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/product"
	catalogpersistence "github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
)

type stubProductRepo struct {
	bySKU     map[string]product.Product
	upsertErr error
	lastSaved product.Product
}

func (s *stubProductRepo) Count(context.Context) (int64, error) { return 0, nil }

func (s *stubProductRepo) GetPaginated(context.Context, *product.FindParams) ([]product.Product, error) {
	return nil, nil
}

func (s *stubProductRepo) GetByID(context.Context, uuid.UUID) (product.Product, error) {
	return product.Product{}, catalogpersistence.ErrProductNotFound
}

func (s *stubProductRepo) GetBySKU(_ context.Context, sku string) (product.Product, error) {
	p, ok := s.bySKU[sku]
	if !ok {
		return product.Product{}, catalogpersistence.ErrProductNotFound
	}
	return p, nil
}

func (s *stubProductRepo) Upsert(_ context.Context, p product.Product) (product.Product, bool, error) {
	if s.upsertErr != nil {
		return product.Product{}, false, s.upsertErr
	}
	s.lastSaved = p
	if existing, ok := s.bySKU[p.SKU()]; ok {
		merged := product.Hydrate(
			existing.ID(), p.SKU(), p.Name(), p.Description(), p.Price(),
			p.Unit(), p.Weight(), p.Active(), p.CategoryID(),
			existing.CreatedAt(), time.Now(),
		)
		s.bySKU[p.SKU()] = merged
		return merged, false, nil
	}
	created := product.Hydrate(
		uuid.New(), p.SKU(), p.Name(), p.Description(), p.Price(),
		p.Unit(), p.Weight(), p.Active(), p.CategoryID(),
		time.Now(), time.Now(),
	)
	s.bySKU[p.SKU()] = created
	return created, true, nil
}

type stubCategoryRepo struct {
	byCode map[string]category.Category
}

func (s *stubCategoryRepo) Count(context.Context) (int64, error) { return 0, nil }

func (s *stubCategoryRepo) GetAll(context.Context) ([]category.Category, error) { return nil, nil }

func (s *stubCategoryRepo) GetByID(context.Context, uuid.UUID) (category.Category, error) {
	return category.Category{}, catalogpersistence.ErrCategoryNotFound
}

func (s *stubCategoryRepo) GetByCode(_ context.Context, code string) (category.Category, error) {
	c, ok := s.byCode[code]
	if !ok {
		return category.Category{}, catalogpersistence.ErrCategoryNotFound
	}
	return c, nil
}

func (s *stubCategoryRepo) Upsert(_ context.Context, c category.Category) (category.Category, bool, error) {
	return c, false, nil
}

func mapFields(t *testing.T, imp importer.Importer, rec importer.Record) importer.Fields {
	t.Helper()
	f, err := imp.Map(rec)
	require.NoError(t, err)
	return f
}

func TestProductImporter_CreatesNewProduct(t *testing.T) {
	products := &stubProductRepo{bySKU: map[string]product.Product{}}
	imp := NewProductImporter(products, &stubCategoryRepo{byCode: map[string]category.Category{}})

	f := mapFields(t, imp, importer.Record{"sku": "sku-1", "name": "Widget", "price": "9.90"})
	out, err := imp.Reconcile(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, importjob.OutcomeImported, out.Result)
	assert.NotEqual(t, uuid.Nil, out.EntityID)
	assert.Equal(t, "SKU-1", products.lastSaved.SKU(), "key is normalized")
	assert.True(t, products.lastSaved.Active(), "new products default to active")
}

func TestProductImporter_MergesOverExisting(t *testing.T) {
	catID := uuid.New()
	existing := product.Hydrate(
		uuid.New(), "SKU-1", "Widget", "A fine widget",
		decimal.NewFromInt(10), "pcs", decimal.NewFromInt(2), false, &catID,
		time.Now(), time.Now(),
	)
	products := &stubProductRepo{bySKU: map[string]product.Product{"SKU-1": existing}}
	imp := NewProductImporter(products, &stubCategoryRepo{byCode: map[string]category.Category{}})

	f := mapFields(t, imp, importer.Record{"sku": "SKU-1", "price": "12.50"})
	out, err := imp.Reconcile(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, importjob.OutcomeUpdated, out.Result)
	saved := products.lastSaved
	assert.True(t, saved.Price().Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, "Widget", saved.Name(), "absent fields keep stored values")
	assert.Equal(t, "A fine widget", saved.Description())
	assert.False(t, saved.Active(), "stored active flag survives when the file omits it")
	require.NotNil(t, saved.CategoryID())
	assert.Equal(t, catID, *saved.CategoryID())
}

func TestProductImporter_UnknownCategorySkips(t *testing.T) {
	products := &stubProductRepo{bySKU: map[string]product.Product{}}
	imp := NewProductImporter(products, &stubCategoryRepo{byCode: map[string]category.Category{}})

	f := mapFields(t, imp, importer.Record{"sku": "SKU-1", "category_code": "MISSING"})
	out, err := imp.Reconcile(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, importjob.OutcomeSkipped, out.Result)
	assert.Contains(t, out.Message, "not found")
}

func TestProductImporter_UniqueViolationIsRowError(t *testing.T) {
	products := &stubProductRepo{
		bySKU:     map[string]product.Product{},
		upsertErr: &pgconn.PgError{Code: "23505", ConstraintName: "products_barcode_key"},
	}
	imp := NewProductImporter(products, &stubCategoryRepo{byCode: map[string]category.Category{}})

	f := mapFields(t, imp, importer.Record{"sku": "SKU-1"})
	out, err := imp.Reconcile(context.Background(), f)
	require.NoError(t, err, "store conflicts stay at row level")

	assert.Equal(t, importjob.OutcomeError, out.Result)
	assert.Contains(t, out.Message, "storage conflict")
}
