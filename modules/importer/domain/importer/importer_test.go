package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
)

type stubImporter struct {
	kind importjob.EntityKind
}

func (s *stubImporter) Kind() importjob.EntityKind { return s.kind }

func (s *stubImporter) Map(rec Record) (Fields, error) { return NewFields(), nil }

func (s *stubImporter) Key(f Fields) string { return "" }

func (s *stubImporter) Reconcile(ctx context.Context, f Fields) (Outcome, error) {
	return Skipped("stub"), nil
}

func TestRegistry_Dispatch(t *testing.T) {
	clients := &stubImporter{kind: importjob.KindClients}
	products := &stubImporter{kind: importjob.KindProducts}
	r := NewRegistry(clients, products)

	got, err := r.Get(importjob.KindClients)
	require.NoError(t, err)
	assert.Same(t, clients, got)

	_, err = r.Get(importjob.EntityKind("invoices"))
	assert.Error(t, err)
	assert.ElementsMatch(t, []importjob.EntityKind{importjob.KindClients, importjob.KindProducts}, r.Kinds())
}

func TestRegistry_DuplicateKindPanics(t *testing.T) {
	r := NewRegistry(&stubImporter{kind: importjob.KindClients})
	assert.Panics(t, func() {
		r.Register(&stubImporter{kind: importjob.KindClients})
	})
}
