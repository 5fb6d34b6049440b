package controllers

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	importerpersistence "github.com/meridianhq/meridian-erp/modules/importer/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/presentation/controllers/dtos"
	"github.com/meridianhq/meridian-erp/modules/importer/presentation/mappers"
	"github.com/meridianhq/meridian-erp/modules/importer/services"
	"github.com/meridianhq/meridian-erp/pkg/application"
	"github.com/meridianhq/meridian-erp/pkg/composables"
	"github.com/meridianhq/meridian-erp/pkg/configuration"
	"github.com/meridianhq/meridian-erp/pkg/constants"
	"github.com/meridianhq/meridian-erp/pkg/httpapi"
)

type ImportAPIController struct {
	app      application.Application
	basePath string
}

func NewImportAPIController(app application.Application) application.Controller {
	return &ImportAPIController{
		app:      app,
		basePath: "/imports/api",
	}
}

func (c *ImportAPIController) Key() string {
	return c.basePath
}

func (c *ImportAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/jobs/{id}", c.Status).Methods(http.MethodGet)
	router.HandleFunc("/jobs/{id}", c.Cancel).Methods(http.MethodDelete)
	router.HandleFunc("/{kind}", c.Submit).Methods(http.MethodPost)
}

func (c *ImportAPIController) importService() *services.ImportService {
	return c.app.Service(services.ImportService{}).(*services.ImportService)
}

func (c *ImportAPIController) Submit(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	kind := importjob.EntityKind(mux.Vars(r)["kind"])

	if err := r.ParseMultipartForm(conf.MaxUploadMemory); err != nil {
		writeSubmitError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeSubmitError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeSubmitError(w, http.StatusBadRequest, "cannot read uploaded file")
		return
	}

	req := dtos.SubmitRequest{Kind: string(kind), Filename: header.Filename}
	if err := constants.Validate.Struct(req); err != nil {
		writeSubmitError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobID, err := c.importService().Submit(r.Context(), kind, header.Filename, data)
	if err != nil {
		var subErr *services.SubmissionError
		if errors.As(err, &subErr) {
			writeSubmitError(w, http.StatusBadRequest, subErr.Reason)
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("failed to submit import")
		writeSubmitError(w, http.StatusInternalServerError, "internal error")
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusCreated, &dtos.SubmitResponse{
		Success: true,
		JobID:   jobID.String(),
	})
}

func (c *ImportAPIController) Status(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeSubmitError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	snapshot, err := c.importService().Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, importerpersistence.ErrImportJobNotFound) {
			writeSubmitError(w, http.StatusNotFound, "import job not found")
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("failed to load import job")
		writeSubmitError(w, http.StatusInternalServerError, "internal error")
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.JobSnapshotToResponse(snapshot))
}

func (c *ImportAPIController) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeSubmitError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	if err := c.importService().Cancel(r.Context(), id); err != nil {
		if errors.Is(err, importerpersistence.ErrImportJobNotFound) {
			writeSubmitError(w, http.StatusNotFound, "import job not found")
			return
		}
		writeSubmitError(w, http.StatusConflict, err.Error())
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusAccepted, &dtos.SubmitResponse{Success: true})
}

func writeSubmitError(w http.ResponseWriter, status int, message string) {
	_ = httpapi.WriteJSON(w, status, &dtos.SubmitResponse{
		Success: false,
		Error:   message,
	})
}
