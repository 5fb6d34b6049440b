package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/client"
	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/order"
	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/product"
	catalogpersistence "github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
)

// fakeClientRepo mirrors the Postgres repository contract: upserts are
// atomic with respect to the business key, so concurrent imports of the
// same new tax code produce exactly one created row.
type fakeClientRepo struct {
	mu      sync.Mutex
	clients map[string]client.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[string]client.Client)}
}

func (f *fakeClientRepo) seed(c client.Client) client.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := client.Hydrate(
		uuid.New(), c.TaxCode(), c.Name(), c.Email(), c.Phone(),
		c.Address(), c.City(), c.Country(), c.CreditLimit(),
		time.Now(), time.Now(),
	)
	f.clients[stored.TaxCode()] = stored
	return stored
}

func (f *fakeClientRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.clients)), nil
}

func (f *fakeClientRepo) GetPaginated(context.Context, *client.FindParams) ([]client.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]client.Client, 0, len(f.clients))
	for _, c := range f.clients {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeClientRepo) GetByID(_ context.Context, id uuid.UUID) (client.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		if c.ID() == id {
			return c, nil
		}
	}
	return client.Client{}, catalogpersistence.ErrClientNotFound
}

func (f *fakeClientRepo) GetByTaxCode(_ context.Context, taxCode string) (client.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[taxCode]
	if !ok {
		return client.Client{}, catalogpersistence.ErrClientNotFound
	}
	return c, nil
}

func (f *fakeClientRepo) Upsert(_ context.Context, c client.Client) (client.Client, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.clients[c.TaxCode()]
	if ok {
		merged := client.Hydrate(
			existing.ID(), c.TaxCode(), c.Name(), c.Email(), c.Phone(),
			c.Address(), c.City(), c.Country(), c.CreditLimit(),
			existing.CreatedAt(), time.Now(),
		)
		f.clients[c.TaxCode()] = merged
		return merged, false, nil
	}

	created := client.Hydrate(
		uuid.New(), c.TaxCode(), c.Name(), c.Email(), c.Phone(),
		c.Address(), c.City(), c.Country(), c.CreditLimit(),
		time.Now(), time.Now(),
	)
	f.clients[c.TaxCode()] = created
	return created, true, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]order.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]order.Order)}
}

func (f *fakeOrderRepo) seed(number string) order.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := order.Hydrate(uuid.New(), number, nil, time.Now(), time.Now(), time.Now())
	f.orders[o.Number()] = o
	return o
}

func (f *fakeOrderRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.orders)), nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID() == id {
			return o, nil
		}
	}
	return order.Order{}, catalogpersistence.ErrOrderNotFound
}

func (f *fakeOrderRepo) GetByNumber(_ context.Context, number string) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[number]
	if !ok {
		return order.Order{}, catalogpersistence.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) Create(_ context.Context, o order.Order) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := order.Hydrate(uuid.New(), o.Number(), o.ClientID(), o.OrderDate(), time.Now(), time.Now())
	f.orders[created.Number()] = created
	return created, nil
}

type orderLineKey struct {
	orderID uuid.UUID
	lineNo  int
}

type fakeOrderItemRepo struct {
	mu    sync.Mutex
	items map[orderLineKey]order.Item
}

func newFakeOrderItemRepo() *fakeOrderItemRepo {
	return &fakeOrderItemRepo{items: make(map[orderLineKey]order.Item)}
}

func (f *fakeOrderItemRepo) GetByOrderLine(_ context.Context, orderID uuid.UUID, lineNo int) (order.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.items[orderLineKey{orderID: orderID, lineNo: lineNo}]
	if !ok {
		return order.Item{}, catalogpersistence.ErrOrderItemNotFound
	}
	return i, nil
}

func (f *fakeOrderItemRepo) GetByOrder(_ context.Context, orderID uuid.UUID) ([]order.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]order.Item, 0)
	for k, i := range f.items {
		if k.orderID == orderID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeOrderItemRepo) Upsert(_ context.Context, i order.Item) (order.Item, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := orderLineKey{orderID: i.OrderID(), lineNo: i.LineNo()}
	existing, ok := f.items[key]
	if ok {
		merged := order.HydrateItem(
			existing.ID(), i.OrderID(), i.LineNo(), i.ProductID(),
			i.Description(), i.Quantity(), i.UnitPrice(),
			existing.CreatedAt(), time.Now(),
		)
		f.items[key] = merged
		return merged, false, nil
	}

	created := order.HydrateItem(
		uuid.New(), i.OrderID(), i.LineNo(), i.ProductID(),
		i.Description(), i.Quantity(), i.UnitPrice(),
		time.Now(), time.Now(),
	)
	f.items[key] = created
	return created, true, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]product.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]product.Product)}
}

func (f *fakeProductRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.products)), nil
}

func (f *fakeProductRepo) GetPaginated(context.Context, *product.FindParams) ([]product.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]product.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (product.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID() == id {
			return p, nil
		}
	}
	return product.Product{}, catalogpersistence.ErrProductNotFound
}

func (f *fakeProductRepo) GetBySKU(_ context.Context, sku string) (product.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[sku]
	if !ok {
		return product.Product{}, catalogpersistence.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) Upsert(_ context.Context, p product.Product) (product.Product, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.products[p.SKU()]
	if ok {
		merged := product.Hydrate(
			existing.ID(), p.SKU(), p.Name(), p.Description(), p.Price(),
			p.Unit(), p.Weight(), p.Active(), p.CategoryID(),
			existing.CreatedAt(), time.Now(),
		)
		f.products[p.SKU()] = merged
		return merged, false, nil
	}

	created := product.Hydrate(
		uuid.New(), p.SKU(), p.Name(), p.Description(), p.Price(),
		p.Unit(), p.Weight(), p.Active(), p.CategoryID(),
		time.Now(), time.Now(),
	)
	f.products[p.SKU()] = created
	return created, true, nil
}

var gateRules = []importer.FieldRule{
	{Name: "code", Type: importer.TypeString, Required: true},
}

// gateImporter lets a test hold a job inside Reconcile: each row announces
// itself on entered, then blocks until release is closed or the job context
// is canceled.
type gateImporter struct {
	entered chan int
	release chan struct{}
}

func newGateImporter() *gateImporter {
	return &gateImporter{
		entered: make(chan int, 64),
		release: make(chan struct{}),
	}
}

func (g *gateImporter) Kind() importjob.EntityKind {
	return importjob.KindClients
}

func (g *gateImporter) Map(rec importer.Record) (importer.Fields, error) {
	return importer.MapRecord(rec, gateRules)
}

func (g *gateImporter) Key(f importer.Fields) string {
	v, _ := f.String("code")
	return v
}

func (g *gateImporter) Reconcile(ctx context.Context, f importer.Fields) (importer.Outcome, error) {
	g.entered <- 1
	select {
	case <-g.release:
		return importer.Created(uuid.New()), nil
	case <-ctx.Done():
		return importer.Skipped("canceled before reconciliation"), nil
	}
}
