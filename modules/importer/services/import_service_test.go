package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/client"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
	"github.com/meridianhq/meridian-erp/modules/importer/importers"
	"github.com/meridianhq/meridian-erp/modules/importer/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/pkg/application"
	"github.com/meridianhq/meridian-erp/pkg/composables"
	"github.com/meridianhq/meridian-erp/pkg/eventbus"
)

func TestMain(m *testing.M) {
	_ = os.Setenv("LOG_PATH", filepath.Join(os.TempDir(), "meridian-import-test.log"))
	os.Exit(m.Run())
}

func testContext() context.Context {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return composables.WithLogger(context.Background(), logrus.NewEntry(logger))
}

func testPublisher() eventbus.EventBus {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return eventbus.NewEventPublisher(logger)
}

func newClientImportService(clients *fakeClientRepo, cfg Config) *ImportService {
	registry := importer.NewRegistry(importers.NewClientImporter(clients))
	return NewImportService(registry, persistence.NewInMemoryJobRepository(0), testPublisher(), cfg)
}

func waitTerminal(t *testing.T, svc *ImportService, id uuid.UUID) importjob.Snapshot {
	t.Helper()
	var snapshot importjob.Snapshot
	require.Eventually(t, func() bool {
		s, err := svc.Status(testContext(), id)
		if err != nil {
			return false
		}
		snapshot = s
		return s.Status.IsTerminal()
	}, 5*time.Second, 5*time.Millisecond)
	return snapshot
}

// Three client rows: a brand-new tax code, a tax code matching a seeded
// client, and a row with the required field blank.
func TestImportService_ClientFile(t *testing.T) {
	clients := newFakeClientRepo()
	clients.seed(client.New("EXIST1", "Old Name"))
	svc := newClientImportService(clients, Config{})

	csv := "tax_code,name\nNEW01,Fresh Co\nEXIST1,Renamed Co\n,No Key Co\n"
	jobID, err := svc.Submit(testContext(), importjob.KindClients, "clients.csv", []byte(csv))
	require.NoError(t, err)

	s := waitTerminal(t, svc, jobID)
	assert.Equal(t, importjob.StatusCompleted, s.Status)
	assert.Equal(t, 100, s.Progress())
	assert.Equal(t, 3, s.TotalRows)
	assert.Equal(t, 3, s.ProcessedRows)
	assert.Equal(t, 1, s.ImportedCount)
	assert.Equal(t, 1, s.UpdatedCount)
	assert.Equal(t, 1, s.SkippedCount)
	require.Len(t, s.Errors, 1)
	assert.Equal(t, 3, s.Errors[0].Row)
	require.NotNil(t, s.FinishedAt)

	renamed, err := clients.GetByTaxCode(testContext(), "EXIST1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed Co", renamed.Name())
}

func TestImportService_MergeKeepsAbsentFields(t *testing.T) {
	clients := newFakeClientRepo()
	clients.seed(client.Hydrate(
		uuid.Nil, "AB123", "Acme", "billing@acme.test", "555-0100",
		"", "", "", decimal.NewFromInt(500), time.Time{}, time.Time{},
	))
	svc := newClientImportService(clients, Config{})

	// The file has no email or credit_limit column at all.
	csv := "tax_code,name\nAB123,Acme Industries\n"
	jobID, err := svc.Submit(testContext(), importjob.KindClients, "clients.csv", []byte(csv))
	require.NoError(t, err)

	s := waitTerminal(t, svc, jobID)
	assert.Equal(t, 1, s.UpdatedCount)

	merged, err := clients.GetByTaxCode(testContext(), "AB123")
	require.NoError(t, err)
	assert.Equal(t, "Acme Industries", merged.Name())
	assert.Equal(t, "billing@acme.test", merged.Email(), "absent field keeps stored value")
	assert.True(t, merged.CreditLimit().Equal(decimal.NewFromInt(500)))
}

func TestImportService_MalformedFileFailsJob(t *testing.T) {
	svc := newClientImportService(newFakeClientRepo(), Config{})

	// Valid zip preamble so sniffing passes, but not a workbook.
	payload := append([]byte("PK\x03\x04"), []byte("garbage that is not a zip archive at all")...)
	jobID, err := svc.Submit(testContext(), importjob.KindClients, "clients.xlsx", payload)
	require.NoError(t, err, "structural problems surface on the job, not at submission")

	s := waitTerminal(t, svc, jobID)
	assert.Equal(t, importjob.StatusFailed, s.Status)
	assert.Equal(t, 0, s.ProcessedRows)
	assert.Equal(t, 0, s.Progress())
	require.Len(t, s.Errors, 1)
	assert.Empty(t, s.RowDetails)
}

func TestImportService_OrderItemDependencyMissing(t *testing.T) {
	orders := newFakeOrderRepo()
	orders.seed("ORD-1")
	items := newFakeOrderItemRepo()
	products := newFakeProductRepo()
	registry := importer.NewRegistry(importers.NewOrderItemImporter(orders, items, products))
	svc := NewImportService(registry, persistence.NewInMemoryJobRepository(0), testPublisher(), Config{})

	csv := "order_number,line_no,quantity\nORD-1,1,2\nNOPE-99,1,5\n"
	jobID, err := svc.Submit(testContext(), importjob.KindOrderItems, "items.csv", []byte(csv))
	require.NoError(t, err)

	s := waitTerminal(t, svc, jobID)
	assert.Equal(t, importjob.StatusCompleted, s.Status)
	assert.Equal(t, 1, s.ImportedCount)
	assert.Equal(t, 1, s.SkippedCount)
	require.Len(t, s.Errors, 1)
	assert.Equal(t, 2, s.Errors[0].Row)
	assert.Contains(t, s.Errors[0].Message, "not found")
}

// Two concurrent jobs importing the same brand-new tax code must produce
// exactly one created entity.
func TestImportService_ConcurrentSameNewKey(t *testing.T) {
	clients := newFakeClientRepo()
	svc := newClientImportService(clients, Config{})

	csv := "tax_code,name\nRACE42,Racer\n"
	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			id, err := svc.Submit(testContext(), importjob.KindClients, "clients.csv", []byte(csv))
			assert.NoError(t, err)
			ids[slot] = id
		}(i)
	}
	wg.Wait()

	imported, updated := 0, 0
	for _, id := range ids {
		s := waitTerminal(t, svc, id)
		assert.Equal(t, importjob.StatusCompleted, s.Status)
		imported += s.ImportedCount
		updated += s.UpdatedCount
	}
	assert.Equal(t, 1, imported, "exactly one job creates the entity")
	assert.Equal(t, 1, updated, "the loser observes an update")

	n, err := clients.Count(testContext())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestImportService_Idempotence(t *testing.T) {
	clients := newFakeClientRepo()
	svc := newClientImportService(clients, Config{})
	csv := "tax_code,name\nID01,One\nID02,Two\n"

	first, err := svc.Submit(testContext(), importjob.KindClients, "clients.csv", []byte(csv))
	require.NoError(t, err)
	s1 := waitTerminal(t, svc, first)
	assert.Equal(t, 2, s1.ImportedCount)

	second, err := svc.Submit(testContext(), importjob.KindClients, "clients.csv", []byte(csv))
	require.NoError(t, err)
	s2 := waitTerminal(t, svc, second)
	assert.Equal(t, 0, s2.ImportedCount)
	assert.Equal(t, 2, s2.UpdatedCount)
}

func TestImportService_DeterministicErrorRows(t *testing.T) {
	csv := "tax_code,name\nOK1,Fine\n,Bad One\nOK2,Fine\n,Bad Two\n"

	rows := func() []int {
		svc := newClientImportService(newFakeClientRepo(), Config{})
		id, err := svc.Submit(testContext(), importjob.KindClients, "clients.csv", []byte(csv))
		require.NoError(t, err)
		s := waitTerminal(t, svc, id)
		out := make([]int, 0, len(s.Errors))
		for _, e := range s.Errors {
			out = append(out, e.Row)
		}
		return out
	}

	assert.Equal(t, rows(), rows())
	assert.Equal(t, []int{2, 4}, rows())
}

// An interior blank row fails required-field validation under its own row
// number and never shifts the numbers reported for rows after it.
func TestImportService_InteriorBlankRowKeepsNumbering(t *testing.T) {
	svc := newClientImportService(newFakeClientRepo(), Config{})

	csv := "tax_code,name\nOK1,Fine\n,\nOK2,Fine\n,Bad One\n"
	jobID, err := svc.Submit(testContext(), importjob.KindClients, "clients.csv", []byte(csv))
	require.NoError(t, err)

	s := waitTerminal(t, svc, jobID)
	assert.Equal(t, importjob.StatusCompleted, s.Status)
	assert.Equal(t, 4, s.TotalRows)
	assert.Equal(t, 4, s.ProcessedRows)
	assert.Equal(t, 2, s.ImportedCount)
	assert.Equal(t, 2, s.SkippedCount)
	require.Len(t, s.Errors, 2)
	assert.Equal(t, 2, s.Errors[0].Row)
	assert.Equal(t, 4, s.Errors[1].Row)
}

func TestImportService_SubmitRejections(t *testing.T) {
	svc := newClientImportService(newFakeClientRepo(), Config{MaxUploadSize: 16})
	ctx := testContext()

	var subErr *SubmissionError

	_, err := svc.Submit(ctx, importjob.EntityKind("invoices"), "x.csv", []byte("a,b\n"))
	require.ErrorAs(t, err, &subErr, "unknown kind")

	_, err = svc.Submit(ctx, importjob.KindClients, "x.pdf", []byte("a,b\n"))
	require.ErrorAs(t, err, &subErr, "unsupported extension")

	_, err = svc.Submit(ctx, importjob.KindClients, "x.csv", []byte{})
	require.ErrorAs(t, err, &subErr, "empty payload")

	_, err = svc.Submit(ctx, importjob.KindClients, "x.csv", []byte("tax_code,name\nA,B\nC,D\n"))
	require.ErrorAs(t, err, &subErr, "over size limit")

	_, err = svc.Submit(ctx, importjob.KindClients, "x.xlsx", []byte("plain text"))
	require.ErrorAs(t, err, &subErr, "content does not match extension")
}

// The application registry is keyed by value type; the service must stay
// safely copyable for that lookup.
func TestImportService_RegistryLookup(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	app := application.New(&application.ApplicationOptions{
		EventBus: testPublisher(),
		Logger:   logger,
	})

	svc := newClientImportService(newFakeClientRepo(), Config{})
	app.RegisterServices(svc)

	got := app.Service(ImportService{}).(*ImportService)
	assert.Same(t, svc, got)

	csv := "tax_code,name\nRL01,Lookup Co\n"
	jobID, err := got.Submit(testContext(), importjob.KindClients, "clients.csv", []byte(csv))
	require.NoError(t, err)
	s := waitTerminal(t, got, jobID)
	assert.Equal(t, importjob.StatusCompleted, s.Status)
}

func TestImportService_StatusUnknownJob(t *testing.T) {
	svc := newClientImportService(newFakeClientRepo(), Config{})
	_, err := svc.Status(testContext(), uuid.New())
	assert.ErrorIs(t, err, persistence.ErrImportJobNotFound)
}

func TestImportService_Cancel(t *testing.T) {
	gate := newGateImporter()
	registry := importer.NewRegistry(gate)
	svc := NewImportService(registry, persistence.NewInMemoryJobRepository(0), testPublisher(), Config{})

	csv := "code,name\nA,1\nB,2\nC,3\n"
	jobID, err := svc.Submit(testContext(), importjob.KindClients, "clients.csv", []byte(csv))
	require.NoError(t, err)

	<-gate.entered
	require.NoError(t, svc.Cancel(testContext(), jobID))

	s := waitTerminal(t, svc, jobID)
	assert.Equal(t, importjob.StatusFailed, s.Status)
	assert.LessOrEqual(t, s.ProcessedRows, 1, "counters freeze at the cancellation boundary")
	require.NotNil(t, s.FinishedAt)
	require.NotEmpty(t, s.Errors)
	assert.Contains(t, s.Errors[len(s.Errors)-1].Message, "cancel")

	assert.Error(t, svc.Cancel(testContext(), jobID), "terminal job cannot be canceled again")
}

func TestImportService_Timeout(t *testing.T) {
	gate := newGateImporter()
	registry := importer.NewRegistry(gate)
	svc := NewImportService(registry, persistence.NewInMemoryJobRepository(0), testPublisher(), Config{
		MaxDuration: 30 * time.Millisecond,
	})

	csv := "code,name\nA,1\nB,2\n"
	jobID, err := svc.Submit(testContext(), importjob.KindClients, "clients.csv", []byte(csv))
	require.NoError(t, err)

	s := waitTerminal(t, svc, jobID)
	assert.Equal(t, importjob.StatusFailed, s.Status)
	require.NotEmpty(t, s.Errors)
	assert.Contains(t, s.Errors[len(s.Errors)-1].Message, "timed out")
}

type panicImporter struct{}

func (p *panicImporter) Kind() importjob.EntityKind { return importjob.KindClients }

func (p *panicImporter) Map(rec importer.Record) (importer.Fields, error) {
	return importer.MapRecord(rec, gateRules)
}

func (p *panicImporter) Key(f importer.Fields) string {
	v, _ := f.String("code")
	return v
}

func (p *panicImporter) Reconcile(_ context.Context, f importer.Fields) (importer.Outcome, error) {
	if v, _ := f.String("code"); v == "BOOM" {
		panic("reconciler exploded")
	}
	return importer.Created(uuid.New()), nil
}

func TestImportService_PanicIsContainedToRow(t *testing.T) {
	registry := importer.NewRegistry(&panicImporter{})
	svc := NewImportService(registry, persistence.NewInMemoryJobRepository(0), testPublisher(), Config{})

	csv := "code\nOK1\nBOOM\nOK2\n"
	jobID, err := svc.Submit(testContext(), importjob.KindClients, "clients.csv", []byte(csv))
	require.NoError(t, err)

	s := waitTerminal(t, svc, jobID)
	assert.Equal(t, importjob.StatusCompleted, s.Status)
	assert.Equal(t, 3, s.ProcessedRows)
	assert.Equal(t, 2, s.ImportedCount)
	assert.Equal(t, 1, s.SkippedCount)
	require.Len(t, s.Errors, 1)
	assert.Equal(t, 2, s.Errors[0].Row)
	assert.Contains(t, s.Errors[0].Message, "panicked")
}
