package importer

import (
	"context"
	"fmt"

	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
)

// Importer reconciles rows of one entity kind against the store. Map must be
// pure; Reconcile carries all I/O and returns a row Outcome, or an error only
// for infrastructure faults that should abort the job.
type Importer interface {
	Kind() importjob.EntityKind
	Map(rec Record) (Fields, error)
	Key(f Fields) string
	Reconcile(ctx context.Context, f Fields) (Outcome, error)
}

// Registry maps entity kinds to their importers. Dispatch goes through the
// registry only; adding a kind means registering an importer, not touching
// the runner or the HTTP layer.
type Registry struct {
	importers map[importjob.EntityKind]Importer
}

func NewRegistry(importers ...Importer) *Registry {
	r := &Registry{importers: make(map[importjob.EntityKind]Importer, len(importers))}
	for _, imp := range importers {
		r.Register(imp)
	}
	return r
}

func (r *Registry) Register(imp Importer) {
	if _, ok := r.importers[imp.Kind()]; ok {
		panic(fmt.Sprintf("importer for kind %q already registered", imp.Kind()))
	}
	r.importers[imp.Kind()] = imp
}

func (r *Registry) Get(kind importjob.EntityKind) (Importer, error) {
	imp, ok := r.importers[kind]
	if !ok {
		return nil, fmt.Errorf("no importer registered for kind %q", kind)
	}
	return imp, nil
}

func (r *Registry) Kinds() []importjob.EntityKind {
	kinds := make([]importjob.EntityKind, 0, len(r.importers))
	for kind := range r.importers {
		kinds = append(kinds, kind)
	}
	return kinds
}
