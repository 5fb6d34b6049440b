package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
	"github.com/meridianhq/meridian-erp/modules/importer/infrastructure/imports"
	"github.com/meridianhq/meridian-erp/pkg/composables"
	"github.com/meridianhq/meridian-erp/pkg/eventbus"
	"github.com/meridianhq/meridian-erp/pkg/metrics"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SubmissionError rejects an upload before a job exists. The caller gets a
// synchronous 4xx; nothing is queued.
type SubmissionError struct {
	Reason string
}

func (e *SubmissionError) Error() string {
	return e.Reason
}

// Config carries the submission and runtime limits of the import service.
type Config struct {
	// MaxUploadSize bounds the accepted payload in bytes; 0 disables.
	MaxUploadSize int64
	// MaxDuration bounds a job's wall clock; 0 disables.
	MaxDuration time.Duration
}

// cancelSet tracks cancel functions of the jobs running on this instance.
// Held behind a pointer so the service itself carries no lock.
type cancelSet struct {
	mu   sync.Mutex
	byID map[uuid.UUID]context.CancelFunc
}

func newCancelSet() *cancelSet {
	return &cancelSet{byID: make(map[uuid.UUID]context.CancelFunc)}
}

func (c *cancelSet) store(id uuid.UUID, cancel context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[id] = cancel
}

func (c *cancelSet) get(id uuid.UUID) (context.CancelFunc, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cancel, ok := c.byID[id]
	return cancel, ok
}

func (c *cancelSet) remove(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byID, id)
}

// ImportService accepts uploads, runs one goroutine per job and answers
// status polls. Submission never blocks on row processing.
type ImportService struct {
	registry  *importer.Registry
	jobs      importjob.Repository
	runner    *JobRunner
	publisher eventbus.EventBus
	config    Config
	cancels   *cancelSet
}

func NewImportService(
	registry *importer.Registry,
	jobs importjob.Repository,
	publisher eventbus.EventBus,
	config Config,
) *ImportService {
	return &ImportService{
		registry:  registry,
		jobs:      jobs,
		runner:    NewJobRunner(jobs),
		publisher: publisher,
		config:    config,
		cancels:   newCancelSet(),
	}
}

// Submit validates the upload, registers a queued job and returns its id
// before any parsing happens. The caller polls Status for results.
func (s *ImportService) Submit(ctx context.Context, kind importjob.EntityKind, filename string, data []byte) (uuid.UUID, error) {
	imp, err := s.registry.Get(kind)
	if err != nil {
		return uuid.Nil, &SubmissionError{Reason: fmt.Sprintf("unknown entity kind %q", kind)}
	}
	if err := s.validateUpload(filename, data); err != nil {
		return uuid.Nil, err
	}

	src, err := imports.SourceForUpload(filename, data)
	if err != nil {
		return uuid.Nil, &SubmissionError{Reason: err.Error()}
	}

	// The job is created on the detached context so it commits independently
	// of the request transaction and is visible to pollers immediately.
	runCtx, cancel := s.runContext(ctx)
	job, err := s.jobs.Create(runCtx, kind)
	if err != nil {
		cancel()
		return uuid.Nil, err
	}
	s.publisher.Publish("importjob.created", importjob.CreatedEvent{Job: job})
	metrics.ImportJobsStarted.WithLabelValues(string(kind)).Inc()

	s.cancels.store(job.ID, cancel)

	go s.run(runCtx, cancel, job.ID, imp, src)
	return job.ID, nil
}

// Status is side-effect free; polling it concurrently with the runner is
// safe because the job store hands out consistent snapshots.
func (s *ImportService) Status(ctx context.Context, id uuid.UUID) (importjob.Snapshot, error) {
	return s.jobs.Get(ctx, id)
}

// Cancel stops a running job at its next row boundary. The job ends failed
// with a cancellation error.
func (s *ImportService) Cancel(ctx context.Context, id uuid.UUID) error {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.Status.IsTerminal() {
		return fmt.Errorf("import job %s already finished (status %s)", id, job.Status)
	}

	cancel, ok := s.cancels.get(id)
	if !ok {
		return fmt.Errorf("import job %s is not running on this instance", id)
	}
	cancel()
	return nil
}

func (s *ImportService) run(ctx context.Context, cancel context.CancelFunc, jobID uuid.UUID, imp importer.Importer, src imports.RowSource) {
	started := time.Now()
	defer cancel()
	defer s.cancels.remove(jobID)

	snapshot, err := s.runner.Run(ctx, jobID, imp, src)
	if err != nil {
		composables.UseLogger(ctx).WithError(err).WithField("job_id", jobID).
			Error("import job aborted by store failure")
		return
	}

	metrics.ImportJobDuration.WithLabelValues(string(imp.Kind())).Observe(time.Since(started).Seconds())
	switch snapshot.Status {
	case importjob.StatusCompleted:
		s.publisher.Publish("importjob.completed", importjob.CompletedEvent{Job: snapshot})
	case importjob.StatusFailed:
		s.publisher.Publish("importjob.failed", importjob.FailedEvent{Job: snapshot})
	}
}

// runContext builds the background context for one job: the request's pool
// and logger carry over, its transaction and cancellation do not. The
// wall-clock budget applies when configured.
func (s *ImportService) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx := context.Background()
	if pool, err := composables.UsePool(ctx); err == nil {
		runCtx = composables.WithPool(runCtx, pool)
	}
	runCtx = composables.WithLogger(runCtx, composables.UseLogger(ctx))
	if s.config.MaxDuration > 0 {
		return context.WithTimeout(runCtx, s.config.MaxDuration)
	}
	return context.WithCancel(runCtx)
}

func (s *ImportService) validateUpload(filename string, data []byte) error {
	if s.config.MaxUploadSize > 0 && int64(len(data)) > s.config.MaxUploadSize {
		return &SubmissionError{Reason: fmt.Sprintf("file exceeds maximum upload size of %d bytes", s.config.MaxUploadSize)}
	}
	if len(data) == 0 {
		return &SubmissionError{Reason: "file is empty"}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	mtype := mimetype.Detect(data)
	switch ext {
	case ".xlsx":
		if !mtype.Is(xlsxMIME) && !mtype.Is("application/zip") {
			return &SubmissionError{Reason: fmt.Sprintf("file content %s does not match extension .xlsx", mtype.String())}
		}
	case ".csv":
		if !strings.HasPrefix(mtype.String(), "text/") {
			return &SubmissionError{Reason: fmt.Sprintf("file content %s does not match extension .csv", mtype.String())}
		}
	default:
		return &SubmissionError{Reason: fmt.Sprintf("unsupported file extension %q (expected .xlsx or .csv)", ext)}
	}
	return nil
}
