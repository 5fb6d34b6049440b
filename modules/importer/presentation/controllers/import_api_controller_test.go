package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/client"
	catalogpersistence "github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
	"github.com/meridianhq/meridian-erp/modules/importer/importers"
	"github.com/meridianhq/meridian-erp/modules/importer/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/presentation/controllers/dtos"
	"github.com/meridianhq/meridian-erp/modules/importer/services"
	"github.com/meridianhq/meridian-erp/pkg/application"
	"github.com/meridianhq/meridian-erp/pkg/composables"
	"github.com/meridianhq/meridian-erp/pkg/eventbus"
)

func TestMain(m *testing.M) {
	_ = os.Setenv("LOG_PATH", filepath.Join(os.TempDir(), "meridian-controller-test.log"))
	os.Exit(m.Run())
}

type memClientRepo struct {
	mu      sync.Mutex
	clients map[string]client.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: make(map[string]client.Client)}
}

func (f *memClientRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.clients)), nil
}

func (f *memClientRepo) GetPaginated(context.Context, *client.FindParams) ([]client.Client, error) {
	return nil, nil
}

func (f *memClientRepo) GetByID(context.Context, uuid.UUID) (client.Client, error) {
	return client.Client{}, catalogpersistence.ErrClientNotFound
}

func (f *memClientRepo) GetByTaxCode(_ context.Context, taxCode string) (client.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[taxCode]
	if !ok {
		return client.Client{}, catalogpersistence.ErrClientNotFound
	}
	return c, nil
}

func (f *memClientRepo) Upsert(_ context.Context, c client.Client) (client.Client, bool, error) {
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

func testRouter(t *testing.T) *mux.Router {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	bus := eventbus.NewEventPublisher(logger)

	app := application.New(&application.ApplicationOptions{
		EventBus: bus,
		Logger:   logger,
	})
	registry := importer.NewRegistry(importers.NewClientImporter(newMemClientRepo()))
	app.RegisterServices(
		services.NewImportService(registry, persistence.NewInMemoryJobRepository(0), bus, services.Config{}),
	)

	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := composables.WithLogger(req.Context(), logrus.NewEntry(logger))
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	NewImportAPIController(app).Register(r)
	return r
}

func multipartUpload(t *testing.T, url, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeSubmit(t *testing.T, rec *httptest.ResponseRecorder) dtos.SubmitResponse {
	t.Helper()
	var resp dtos.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestImportAPI_SubmitAndPoll(t *testing.T) {
	router := testRouter(t)

	csv := []byte("tax_code,name\nAB123,Acme\nCD456,Globex\n")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "/imports/api/clients", "clients.csv", csv))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeSubmit(t, rec)
	assert.True(t, resp.Success)
	jobID, err := uuid.Parse(resp.JobID)
	require.NoError(t, err)

	var status dtos.JobStatusResponse
	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/imports/api/jobs/"+jobID.String(), nil)
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			return false
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		return status.Status == "completed" || status.Status == "failed"
	}, 5*time.Second, 5*time.Millisecond)

	assert.Equal(t, "completed", status.Status)
	assert.Equal(t, 100, status.Progress)
	assert.Equal(t, 2, status.TotalRows)
	assert.Equal(t, 2, status.Processed)
	assert.Equal(t, 2, status.Imported)
	assert.Empty(t, status.Errors)
	assert.Len(t, status.Details, 2)
	assert.NotEmpty(t, status.FinishedAt)
}

func TestImportAPI_SubmitWrongExtension(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "/imports/api/clients", "clients.pdf", []byte("a,b\n")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeSubmit(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "extension")
	assert.Empty(t, resp.JobID)
}

func TestImportAPI_SubmitUnknownKind(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "/imports/api/invoices", "x.csv", []byte("a,b\n1,2\n")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeSubmit(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "unknown entity kind")
}

func TestImportAPI_SubmitMissingFile(t *testing.T) {
	router := testRouter(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("note", "no file here"))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/imports/api/clients", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportAPI_StatusUnknownJob(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/imports/api/jobs/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/imports/api/jobs/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportAPI_CancelTerminalJob(t *testing.T) {
	router := testRouter(t)

	csv := []byte("tax_code,name\nAB123,Acme\n")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "/imports/api/clients", "clients.csv", csv))
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeSubmit(t, rec)

	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/imports/api/jobs/"+resp.JobID, nil))
		var status dtos.JobStatusResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			return false
		}
		return status.Status == "completed"
	}, 5*time.Second, 5*time.Millisecond)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/imports/api/jobs/"+resp.JobID, nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/imports/api/jobs/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
