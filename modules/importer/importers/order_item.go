package importers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/order"
	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/product"
	catalogpersistence "github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
)

var orderItemRules = []importer.FieldRule{
	{Name: "order_number", Type: importer.TypeString, Required: true},
	{Name: "line_no", Type: importer.TypeInt, Required: true},
	{Name: "product_sku", Type: importer.TypeString},
	{Name: "description", Type: importer.TypeString},
	{Name: "quantity", Type: importer.TypeDecimal},
	{Name: "unit_price", Type: importer.TypeDecimal},
}

// OrderItemImporter reconciles order lines. The business key is composite:
// order number plus line number. The parent order must already exist; the
// product reference is optional.
type OrderItemImporter struct {
	orders   order.Repository
	items    order.ItemRepository
	products product.Repository
}

func NewOrderItemImporter(
	orders order.Repository,
	items order.ItemRepository,
	products product.Repository,
) *OrderItemImporter {
	return &OrderItemImporter{orders: orders, items: items, products: products}
}

func (im *OrderItemImporter) Kind() importjob.EntityKind {
	return importjob.KindOrderItems
}

func (im *OrderItemImporter) Map(rec importer.Record) (importer.Fields, error) {
	return importer.MapRecord(rec, orderItemRules)
}

func (im *OrderItemImporter) Key(f importer.Fields) string {
	number, _ := f.String("order_number")
	if number == "" {
		return ""
	}
	lineNo, _ := f.Int("line_no")
	return fmt.Sprintf("%s:%d", strings.ToUpper(number), lineNo)
}

func (im *OrderItemImporter) Reconcile(ctx context.Context, f importer.Fields) (importer.Outcome, error) {
	number, _ := f.String("order_number")
	number = strings.ToUpper(number)
	lineNo, hasLine := f.Int("line_no")
	if number == "" || !hasLine {
		return importer.Skipped("missing business key order_number+line_no"), nil
	}

	parent, err := im.orders.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, catalogpersistence.ErrOrderNotFound) {
			depErr := &importer.DependencyNotFoundError{Kind: "order", Key: number}
			return importer.Skipped(depErr.Error()), nil
		}
		return classifyStoreError(err), nil
	}

	existing, err := im.items.GetByOrderLine(ctx, parent.ID(), lineNo)
	if err != nil && !errors.Is(err, catalogpersistence.ErrOrderItemNotFound) {
		return classifyStoreError(err), nil
	}

	productID := existing.ProductID()
	if sku, ok := f.String("product_sku"); ok {
		p, err := im.products.GetBySKU(ctx, strings.ToUpper(sku))
		if err != nil {
			if errors.Is(err, catalogpersistence.ErrProductNotFound) {
				depErr := &importer.DependencyNotFoundError{Kind: "product", Key: sku}
				return importer.Skipped(depErr.Error()), nil
			}
			return classifyStoreError(err), nil
		}
		id := p.ID()
		productID = &id
	}

	merged := order.HydrateItem(
		existing.ID(),
		parent.ID(),
		lineNo,
		productID,
		f.StringOr("description", existing.Description()),
		f.DecimalOr("quantity", existing.Quantity()),
		f.DecimalOr("unit_price", existing.UnitPrice()),
		existing.CreatedAt(),
		existing.UpdatedAt(),
	)

	saved, created, err := im.items.Upsert(ctx, merged)
	if err != nil {
		return classifyStoreError(err), nil
	}
	return saveOutcome(saved.ID(), created), nil
}
