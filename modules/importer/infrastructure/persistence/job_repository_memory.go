package persistence

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
)

var ErrImportJobNotFound = errors.New("import job not found")

// InMemoryJobRepository keeps jobs in process memory. Single writer per job
// (the runner), many concurrent readers (pollers); snapshots are deep copies
// taken under the lock, so readers never observe torn counters.
//
// Jobs are lost on restart. The Postgres-backed repository is the durable
// alternative.
type InMemoryJobRepository struct {
	mu          sync.RWMutex
	jobs        map[uuid.UUID]*importjob.Job
	detailLimit int
}

func NewInMemoryJobRepository(detailLimit int) *InMemoryJobRepository {
	return &InMemoryJobRepository{
		jobs:        make(map[uuid.UUID]*importjob.Job),
		detailLimit: detailLimit,
	}
}

func (r *InMemoryJobRepository) Create(_ context.Context, kind importjob.EntityKind) (importjob.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job := importjob.New(kind, r.detailLimit)
	r.jobs[job.ID()] = job
	return job.Snapshot(), nil
}

func (r *InMemoryJobRepository) Get(_ context.Context, id uuid.UUID) (importjob.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return importjob.Snapshot{}, ErrImportJobNotFound
	}
	return job.Snapshot(), nil
}

func (r *InMemoryJobRepository) Start(_ context.Context, id uuid.UUID) error {
	return r.mutate(id, func(job *importjob.Job) error {
		return job.Start()
	})
}

func (r *InMemoryJobRepository) SetTotal(_ context.Context, id uuid.UUID, total int) error {
	return r.mutate(id, func(job *importjob.Job) error {
		return job.SetTotal(total)
	})
}

func (r *InMemoryJobRepository) ApplyRow(_ context.Context, id uuid.UUID, row importjob.RowResult) error {
	return r.mutate(id, func(job *importjob.Job) error {
		return job.ApplyRow(row)
	})
}

func (r *InMemoryJobRepository) Finish(_ context.Context, id uuid.UUID, status importjob.Status, topError string) error {
	return r.mutate(id, func(job *importjob.Job) error {
		return job.Finish(status, topError)
	})
}

func (r *InMemoryJobRepository) mutate(id uuid.UUID, fn func(*importjob.Job) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrImportJobNotFound
	}
	return fn(job)
}
