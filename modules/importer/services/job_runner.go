package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
	"github.com/meridianhq/meridian-erp/modules/importer/infrastructure/imports"
	"github.com/meridianhq/meridian-erp/pkg/composables"
	"github.com/meridianhq/meridian-erp/pkg/metrics"
)

// JobRunner drives one job from queued to a terminal status. Rows are
// processed strictly in file order and reported to the job store one at a
// time, so a poller sees progress move after every row.
type JobRunner struct {
	jobs importjob.Repository
}

func NewJobRunner(jobs importjob.Repository) *JobRunner {
	return &JobRunner{jobs: jobs}
}

// Run blocks until the job is terminal. Only a structural parse failure or
// a canceled context fails the whole job; every row-level failure is
// contained in that row's outcome.
func (r *JobRunner) Run(ctx context.Context, jobID uuid.UUID, imp importer.Importer, src imports.RowSource) (importjob.Snapshot, error) {
	log := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"job_id": jobID,
		"kind":   imp.Kind(),
	})

	if err := r.jobs.Start(ctx, jobID); err != nil {
		return importjob.Snapshot{}, err
	}

	records, err := src.Rows()
	if err != nil {
		log.WithError(err).Error("import job failed to parse input")
		return r.finish(ctx, jobID, imp.Kind(), importjob.StatusFailed, err.Error())
	}

	if err := r.jobs.SetTotal(ctx, jobID, len(records)); err != nil {
		return importjob.Snapshot{}, err
	}
	log.WithField("total_rows", len(records)).Info("import job started")

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("import job canceled")
			return r.finish(ctx, jobID, imp.Kind(), importjob.StatusFailed, cancelMessage(ctx))
		}

		result := processRow(ctx, imp, i+1, rec)
		metrics.ImportRowsProcessed.WithLabelValues(string(imp.Kind()), string(result.Outcome)).Inc()
		if err := r.jobs.ApplyRow(ctx, jobID, result); err != nil {
			return importjob.Snapshot{}, err
		}
	}

	return r.finish(ctx, jobID, imp.Kind(), importjob.StatusCompleted, "")
}

// finish runs against a background-derived context so a canceled job can
// still record its terminal state.
func (r *JobRunner) finish(ctx context.Context, jobID uuid.UUID, kind importjob.EntityKind, status importjob.Status, topError string) (importjob.Snapshot, error) {
	finishCtx := context.WithoutCancel(ctx)
	if err := r.jobs.Finish(finishCtx, jobID, status, topError); err != nil {
		return importjob.Snapshot{}, err
	}
	metrics.ImportJobsFinished.WithLabelValues(string(kind), string(status)).Inc()
	return r.jobs.Get(finishCtx, jobID)
}

// processRow maps, validates and reconciles one row. Panics are recovered
// here, at the row boundary; one bad row never aborts the job.
func processRow(ctx context.Context, imp importer.Importer, rowNum int, rec importer.Record) (result importjob.RowResult) {
	result = importjob.RowResult{Row: rowNum}
	defer func() {
		if r := recover(); r != nil {
			result.Outcome = importjob.OutcomeError
			result.Message = fmt.Sprintf("row processing panicked: %v", r)
		}
	}()

	fields, err := imp.Map(rec)
	if err != nil {
		result.Outcome = importjob.OutcomeSkipped
		result.Message = err.Error()
		return result
	}
	result.Key = imp.Key(fields)

	outcome, err := imp.Reconcile(ctx, fields)
	if err != nil {
		result.Outcome = importjob.OutcomeError
		result.Message = err.Error()
		return result
	}
	result.Outcome = outcome.Result
	result.Message = outcome.Message
	return result
}

func cancelMessage(ctx context.Context) string {
	if ctx.Err() == context.DeadlineExceeded {
		return "import timed out: maximum duration exceeded"
	}
	return "import canceled"
}
