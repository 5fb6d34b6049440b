// Package importers wires one reconciler per importable entity kind.
// Reconcilers look up by business key, merge the incoming fields over the
// stored entity and upsert; the store's created flag decides whether the
// row counts as imported or updated.
package importers

import (
	"github.com/google/uuid"

	catalogpersistence "github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
)

// classifyStoreError turns a failed upsert into a row outcome. Unique
// violations on secondary constraints are conflicts between concurrent
// imports; anything else is an unexpected store fault. Neither aborts
// the job.
func classifyStoreError(err error) importer.Outcome {
	if catalogpersistence.IsUniqueViolation(err) {
		conflict := &importer.StorageConflictError{Reason: err.Error()}
		return importer.Errored(conflict.Error())
	}
	return importer.Errored(err.Error())
}

func saveOutcome(id uuid.UUID, created bool) importer.Outcome {
	if created {
		return importer.Created(id)
	}
	return importer.Updated(id)
}

