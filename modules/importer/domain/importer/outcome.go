package importer

import (
	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
)

// Outcome is the result of reconciling a single row. EntityID is set for
// created and updated rows; Message carries the skip or error reason.
type Outcome struct {
	Result   importjob.RowOutcome
	EntityID uuid.UUID
	Message  string
}

func Created(id uuid.UUID) Outcome {
	return Outcome{Result: importjob.OutcomeImported, EntityID: id}
}

func Updated(id uuid.UUID) Outcome {
	return Outcome{Result: importjob.OutcomeUpdated, EntityID: id}
}

func Skipped(reason string) Outcome {
	return Outcome{Result: importjob.OutcomeSkipped, Message: reason}
}

func Errored(reason string) Outcome {
	return Outcome{Result: importjob.OutcomeError, Message: reason}
}
