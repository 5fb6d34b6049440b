package importer

import "fmt"

// ValidationError reports a missing or malformed field on one row. Rows
// with validation errors are skipped; the job continues.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q %s", e.Field, e.Reason)
}

// DependencyNotFoundError reports that a row references an entity (order,
// client, product, ...) that does not exist in the store.
type DependencyNotFoundError struct {
	Kind string
	Key  string
}

func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// StorageConflictError reports a write rejected by a uniqueness constraint,
// typically two imports racing on the same key. Row-level; the job continues.
type StorageConflictError struct {
	Reason string
}

func (e *StorageConflictError) Error() string {
	return fmt.Sprintf("storage conflict: %s", e.Reason)
}
