package importjob

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntityKind is the closed set of importable business entities.
type EntityKind string

const (
	KindClients    EntityKind = "clients"
	KindProducts   EntityKind = "products"
	KindOrderItems EntityKind = "order-items"
	KindCategories EntityKind = "categories"
	KindContacts   EntityKind = "contacts"
	KindComponents EntityKind = "components"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type RowOutcome string

const (
	OutcomeImported RowOutcome = "imported"
	OutcomeUpdated  RowOutcome = "updated"
	OutcomeSkipped  RowOutcome = "skipped"
	OutcomeError    RowOutcome = "error"
)

// RowResult is what the runner reports for one processed row.
type RowResult struct {
	Row     int
	Key     string
	Outcome RowOutcome
	Message string
}

type RowError struct {
	Row     int
	Message string
}

type RowDetail struct {
	RowKey  string
	Outcome RowOutcome
	Message string
}

// Snapshot is a point-in-time, self-contained copy of a job's state. It is
// safe to hand to concurrent pollers: mutating it never touches the job.
type Snapshot struct {
	ID            uuid.UUID
	Kind          EntityKind
	Status        Status
	TotalRows     int
	ProcessedRows int
	ImportedCount int
	UpdatedCount  int
	SkippedCount  int
	Errors        []RowError
	RowDetails    []RowDetail
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// Progress returns completion in whole percent. A zero-row job reports 100
// only once completed; a failed job with no rows (parse failure, early
// cancellation) stays at 0 so completed remains the only status at 100.
func (s Snapshot) Progress() int {
	if s.TotalRows <= 0 {
		if s.Status == StatusCompleted {
			return 100
		}
		return 0
	}
	return s.ProcessedRows * 100 / s.TotalRows
}

// Job is the mutable aggregate. It is owned by exactly one writer (the job
// runner via the repository); everyone else sees Snapshots. State only moves
// forward: counters increment, lists append, status transitions follow
// queued -> processing -> completed|failed.
type Job struct {
	id            uuid.UUID
	kind          EntityKind
	status        Status
	totalRows     int
	processedRows int
	importedCount int
	updatedCount  int
	skippedCount  int
	errors        []RowError
	rowDetails    []RowDetail
	startedAt     time.Time
	finishedAt    *time.Time

	// detailLimit caps rowDetails growth; 0 means unlimited. Counters and
	// errors are never capped.
	detailLimit int
}

func New(kind EntityKind, detailLimit int) *Job {
	return &Job{
		id:          uuid.New(),
		kind:        kind,
		status:      StatusQueued,
		detailLimit: detailLimit,
	}
}

func (j *Job) ID() uuid.UUID {
	return j.id
}

func (j *Job) Status() Status {
	return j.status
}

func (j *Job) Start() error {
	if j.status != StatusQueued {
		return fmt.Errorf("cannot start job in status %q", j.status)
	}
	j.status = StatusProcessing
	j.startedAt = time.Now()
	return nil
}

func (j *Job) SetTotal(total int) error {
	if j.status != StatusProcessing {
		return fmt.Errorf("cannot set total in status %q", j.status)
	}
	if total < 0 {
		return fmt.Errorf("total rows must be non-negative, got %d", total)
	}
	j.totalRows = total
	return nil
}

// ApplyRow records one processed row. Every row lands in exactly one of the
// imported/updated/skipped buckets; error rows count as skipped and are
// additionally recorded in the errors list.
func (j *Job) ApplyRow(r RowResult) error {
	if j.status != StatusProcessing {
		return fmt.Errorf("cannot apply row in status %q", j.status)
	}
	if j.processedRows >= j.totalRows {
		return fmt.Errorf("row %d exceeds total of %d", r.Row, j.totalRows)
	}

	j.processedRows++
	switch r.Outcome {
	case OutcomeImported:
		j.importedCount++
	case OutcomeUpdated:
		j.updatedCount++
	case OutcomeSkipped, OutcomeError:
		j.skippedCount++
	default:
		return fmt.Errorf("unknown row outcome %q", r.Outcome)
	}

	if (r.Outcome == OutcomeSkipped || r.Outcome == OutcomeError) && r.Message != "" {
		j.errors = append(j.errors, RowError{Row: r.Row, Message: r.Message})
	}

	if j.detailLimit <= 0 || len(j.rowDetails) < j.detailLimit {
		j.rowDetails = append(j.rowDetails, RowDetail{
			RowKey:  r.Key,
			Outcome: r.Outcome,
			Message: r.Message,
		})
	}
	return nil
}

// Finish moves the job to a terminal status. topError carries the single
// synthetic error of a failed job (parse failure, cancellation, timeout).
func (j *Job) Finish(status Status, topError string) error {
	if !status.IsTerminal() {
		return fmt.Errorf("%q is not a terminal status", status)
	}
	if j.status.IsTerminal() {
		return fmt.Errorf("job already terminal in status %q", j.status)
	}
	j.status = status
	if topError != "" {
		j.errors = append(j.errors, RowError{Row: 0, Message: topError})
	}
	now := time.Now()
	j.finishedAt = &now
	return nil
}

func (j *Job) Snapshot() Snapshot {
	errs := make([]RowError, len(j.errors))
	copy(errs, j.errors)
	details := make([]RowDetail, len(j.rowDetails))
	copy(details, j.rowDetails)

	var finishedAt *time.Time
	if j.finishedAt != nil {
		t := *j.finishedAt
		finishedAt = &t
	}

	return Snapshot{
		ID:            j.id,
		Kind:          j.kind,
		Status:        j.status,
		TotalRows:     j.totalRows,
		ProcessedRows: j.processedRows,
		ImportedCount: j.importedCount,
		UpdatedCount:  j.updatedCount,
		SkippedCount:  j.skippedCount,
		Errors:        errs,
		RowDetails:    details,
		StartedAt:     j.startedAt,
		FinishedAt:    finishedAt,
	}
}
