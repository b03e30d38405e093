package worker

import (
	"context"
	"time"

	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/models"
)

// DatasetReloader refetches both corpora.
type DatasetReloader interface {
	Reload(ctx context.Context) (*models.Dataset, *models.QCMDataset)
}

// VisitorRegistry is the set of live per-visitor controllers.
type VisitorRegistry interface {
	ApplyDataset(questions *models.Dataset, qcm *models.QCMDataset) int
	Sweep(maxIdle time.Duration) int
}

// ReloadDatasetJob refetches the corpora and pushes them to live visitors.
type ReloadDatasetJob struct {
	Loader   DatasetReloader
	Visitors VisitorRegistry
}

func (j *ReloadDatasetJob) Name() string { return "reload_dataset" }

func (j *ReloadDatasetJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	questions, qcm := j.Loader.Reload(ctx)
	if err := ctx.Err(); err != nil {
		log.Warn("dataset reload cancelled: %v", err)
		return err
	}

	n := j.Visitors.ApplyDataset(questions, qcm)
	log.Info("datasets reloaded: %d formations, %d QCM formations, %d visitors updated",
		len(questions.Formations), len(qcm.Formations), n)
	return nil
}

// SweepVisitorsJob evicts controllers idle for longer than MaxIdle.
type SweepVisitorsJob struct {
	Visitors VisitorRegistry
	MaxIdle  time.Duration
}

func (j *SweepVisitorsJob) Name() string { return "sweep_visitors" }

func (j *SweepVisitorsJob) Run(ctx context.Context) error {
	evicted := j.Visitors.Sweep(j.MaxIdle)
	if evicted > 0 {
		logger.FromContext(ctx).Info("evicted %d idle visitors", evicted)
	}
	return nil
}
