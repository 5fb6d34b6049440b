package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportJobsStarted counts accepted import jobs by entity kind.
	ImportJobsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meridian",
		Subsystem: "imports",
		Name:      "jobs_started_total",
		Help:      "Number of import jobs accepted for processing.",
	}, []string{"kind"})

	// ImportJobsFinished counts terminal jobs by entity kind and final status.
	ImportJobsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meridian",
		Subsystem: "imports",
		Name:      "jobs_finished_total",
		Help:      "Number of import jobs that reached a terminal status.",
	}, []string{"kind", "status"})

	// ImportRowsProcessed counts processed rows by entity kind and outcome.
	ImportRowsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meridian",
		Subsystem: "imports",
		Name:      "rows_processed_total",
		Help:      "Number of import rows processed, labeled by outcome.",
	}, []string{"kind", "outcome"})

	// ImportJobDuration observes wall-clock duration of finished jobs.
	ImportJobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "meridian",
		Subsystem: "imports",
		Name:      "job_duration_seconds",
		Help:      "Wall-clock duration of import jobs from start to terminal status.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"kind"})
)
