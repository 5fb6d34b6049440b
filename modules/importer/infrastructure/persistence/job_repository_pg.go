package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/infrastructure/persistence/models"
	"github.com/meridianhq/meridian-erp/pkg/composables"
)

const (
	importJobFindQuery = `
        SELECT
            j.id,
            j.kind,
            j.status,
            j.total_rows,
            j.processed_rows,
            j.imported_count,
            j.updated_count,
            j.skipped_count,
            j.errors,
            j.row_details,
            j.detail_limit,
            j.started_at,
            j.finished_at,
            j.created_at
        FROM import_jobs j
        WHERE j.id = $1`

	importJobInsertQuery = `
        INSERT INTO import_jobs (kind, detail_limit)
        VALUES ($1, $2)
        RETURNING id`

	importJobStartQuery = `
        UPDATE import_jobs
        SET status = 'processing', started_at = now()
        WHERE id = $1 AND status = 'queued'`

	importJobSetTotalQuery = `
        UPDATE import_jobs
        SET total_rows = $2
        WHERE id = $1 AND status = 'processing'`

	// Counter increments, the error list and the capped detail list move in
	// one statement, so a concurrent poller always reads a consistent row.
	importJobApplyRowQuery = `
        UPDATE import_jobs
        SET processed_rows = processed_rows + 1,
            imported_count = imported_count + CASE WHEN $2 = 'imported' THEN 1 ELSE 0 END,
            updated_count  = updated_count  + CASE WHEN $2 = 'updated'  THEN 1 ELSE 0 END,
            skipped_count  = skipped_count  + CASE WHEN $2 IN ('skipped', 'error') THEN 1 ELSE 0 END,
            errors = CASE
                WHEN $2 IN ('skipped', 'error') AND $5 <> ''
                THEN errors || jsonb_build_object('row', $3::int, 'message', $5::text)
                ELSE errors
            END,
            row_details = CASE
                WHEN detail_limit <= 0 OR jsonb_array_length(row_details) < detail_limit
                THEN row_details || jsonb_build_object('row_key', $4::text, 'outcome', $2::text, 'message', $5::text)
                ELSE row_details
            END
        WHERE id = $1 AND status = 'processing' AND processed_rows < total_rows`

	importJobFinishQuery = `
        UPDATE import_jobs
        SET status = $2,
            finished_at = now(),
            errors = CASE
                WHEN $3 <> ''
                THEN errors || jsonb_build_object('row', 0, 'message', $3::text)
                ELSE errors
            END
        WHERE id = $1 AND status NOT IN ('completed', 'failed')`
)

// PgJobRepository persists jobs in the import_jobs table. Unlike the
// in-memory store it survives restarts and can be shared by several
// instances behind a load balancer. State guards live in the WHERE clauses;
// an update that matches no row means the transition was invalid or the job
// does not exist.
type PgJobRepository struct {
	detailLimit int
}

func NewPgJobRepository(detailLimit int) importjob.Repository {
	return &PgJobRepository{detailLimit: detailLimit}
}

func (g *PgJobRepository) Create(ctx context.Context, kind importjob.EntityKind) (importjob.Snapshot, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return importjob.Snapshot{}, err
	}

	var id uuid.UUID
	if err := tx.QueryRow(ctx, importJobInsertQuery, string(kind), g.detailLimit).Scan(&id); err != nil {
		return importjob.Snapshot{}, errors.Wrap(err, "failed to create import job")
	}
	return g.Get(ctx, id)
}

func (g *PgJobRepository) Get(ctx context.Context, id uuid.UUID) (importjob.Snapshot, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return importjob.Snapshot{}, err
	}

	var m models.ImportJob
	err = tx.QueryRow(ctx, importJobFindQuery, id).Scan(
		&m.ID,
		&m.Kind,
		&m.Status,
		&m.TotalRows,
		&m.ProcessedRows,
		&m.ImportedCount,
		&m.UpdatedCount,
		&m.SkippedCount,
		&m.Errors,
		&m.RowDetails,
		&m.DetailLimit,
		&m.StartedAt,
		&m.FinishedAt,
		&m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return importjob.Snapshot{}, ErrImportJobNotFound
	}
	if err != nil {
		return importjob.Snapshot{}, errors.Wrap(err, "failed to get import job")
	}
	return toJobSnapshot(m)
}

func (g *PgJobRepository) Start(ctx context.Context, id uuid.UUID) error {
	return g.transition(ctx, importJobStartQuery, "start", id)
}

func (g *PgJobRepository) SetTotal(ctx context.Context, id uuid.UUID, total int) error {
	if total < 0 {
		return errors.Errorf("total rows must be non-negative, got %d", total)
	}
	return g.transition(ctx, importJobSetTotalQuery, "set total on", id, total)
}

func (g *PgJobRepository) ApplyRow(ctx context.Context, id uuid.UUID, r importjob.RowResult) error {
	return g.transition(ctx, importJobApplyRowQuery, "apply row to", id, string(r.Outcome), r.Row, r.Key, r.Message)
}

func (g *PgJobRepository) Finish(ctx context.Context, id uuid.UUID, status importjob.Status, topError string) error {
	if !status.IsTerminal() {
		return errors.Errorf("%q is not a terminal status", status)
	}
	return g.transition(ctx, importJobFinishQuery, "finish", id, string(status), topError)
}

func (g *PgJobRepository) transition(ctx context.Context, query, verb string, id uuid.UUID, args ...any) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return errors.Wrapf(err, "failed to %s import job %s", verb, id)
	}
	if tag.RowsAffected() == 0 {
		return errors.Errorf("cannot %s import job %s: not found or invalid state", verb, id)
	}
	return nil
}

func toJobSnapshot(m models.ImportJob) (importjob.Snapshot, error) {
	var rowErrors []models.RowError
	if len(m.Errors) > 0 {
		if err := json.Unmarshal(m.Errors, &rowErrors); err != nil {
			return importjob.Snapshot{}, errors.Wrap(err, "failed to decode job errors")
		}
	}
	var rowDetails []models.RowDetail
	if len(m.RowDetails) > 0 {
		if err := json.Unmarshal(m.RowDetails, &rowDetails); err != nil {
			return importjob.Snapshot{}, errors.Wrap(err, "failed to decode job row details")
		}
	}

	errs := make([]importjob.RowError, 0, len(rowErrors))
	for _, e := range rowErrors {
		errs = append(errs, importjob.RowError{Row: e.Row, Message: e.Message})
	}
	details := make([]importjob.RowDetail, 0, len(rowDetails))
	for _, d := range rowDetails {
		details = append(details, importjob.RowDetail{
			RowKey:  d.RowKey,
			Outcome: importjob.RowOutcome(d.Outcome),
			Message: d.Message,
		})
	}

	var startedAt time.Time
	if m.StartedAt != nil {
		startedAt = *m.StartedAt
	}

	return importjob.Snapshot{
		ID:            m.ID,
		Kind:          importjob.EntityKind(m.Kind),
		Status:        importjob.Status(m.Status),
		TotalRows:     m.TotalRows,
		ProcessedRows: m.ProcessedRows,
		ImportedCount: m.ImportedCount,
		UpdatedCount:  m.UpdatedCount,
		SkippedCount:  m.SkippedCount,
		Errors:        errs,
		RowDetails:    details,
		StartedAt:     startedAt,
		FinishedAt:    m.FinishedAt,
	}, nil
}
