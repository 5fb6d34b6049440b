package mappers

import (
	"time"

	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/presentation/controllers/dtos"
)

func JobSnapshotToResponse(s importjob.Snapshot) *dtos.JobStatusResponse {
	errs := make([]dtos.JobError, 0, len(s.Errors))
	for _, e := range s.Errors {
		errs = append(errs, dtos.JobError{Row: e.Row, Message: e.Message})
	}
	details := make([]dtos.JobRowDetail, 0, len(s.RowDetails))
	for _, d := range s.RowDetails {
		details = append(details, dtos.JobRowDetail{
			RowKey:  d.RowKey,
			Outcome: string(d.Outcome),
			Message: d.Message,
		})
	}

	var startedAt string
	if !s.StartedAt.IsZero() {
		startedAt = s.StartedAt.Format(time.RFC3339)
	}
	var finishedAt string
	if s.FinishedAt != nil {
		finishedAt = s.FinishedAt.Format(time.RFC3339)
	}

	return &dtos.JobStatusResponse{
		Status:     string(s.Status),
		Progress:   s.Progress(),
		TotalRows:  s.TotalRows,
		Processed:  s.ProcessedRows,
		Imported:   s.ImportedCount,
		Updated:    s.UpdatedCount,
		Skipped:    s.SkippedCount,
		Errors:     errs,
		Details:    details,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
}
