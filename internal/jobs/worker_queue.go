package jobs

import (
	"time"

	"github.com/vytor/wildcards/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool     *worker.Pool
	loader   worker.DatasetReloader
	visitors worker.VisitorRegistry
	maxIdle  time.Duration
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	pool *worker.Pool,
	loader worker.DatasetReloader,
	visitors worker.VisitorRegistry,
	maxIdle time.Duration,
) JobQueue {
	return &WorkerQueue{
		pool:     pool,
		loader:   loader,
		visitors: visitors,
		maxIdle:  maxIdle,
	}
}

func (q *WorkerQueue) EnqueueDatasetReload() error {
	return q.pool.Submit(&worker.ReloadDatasetJob{
		Loader:   q.loader,
		Visitors: q.visitors,
	})
}

func (q *WorkerQueue) EnqueueVisitorSweep() error {
	return q.pool.Submit(&worker.SweepVisitorsJob{
		Visitors: q.visitors,
		MaxIdle:  q.maxIdle,
	})
}
