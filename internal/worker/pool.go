// Package worker provides background analysis of track preview clips.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadenza/internal/core/ports"
	"github.com/ewilliams-labs/cadenza/internal/metrics"
)

// Job asks for one track's preview clip to be analyzed.
type Job struct {
	TrackID    string
	PreviewURL string
}

// SnapshotPublisher rebuilds the serving snapshot from the store. The pool
// calls it once per drained batch so refined energies become visible
// without a per-job republish storm.
type SnapshotPublisher interface {
	Republish(ctx context.Context) error
}

// Pool runs preview analyses in the background. Jobs refine the stored
// energy of a track; the recommender keeps serving the old value until the
// batch drains and the snapshot is republished.
type Pool struct {
	store     ports.CatalogStore
	publisher SnapshotPublisher
	logger    zerolog.Logger
	jobs      chan Job
	wg        sync.WaitGroup
	pending   atomic.Int64
}

// NewPool creates a worker pool with the given queue size. Start must be
// called before Submit has any effect.
func NewPool(store ports.CatalogStore, publisher SnapshotPublisher, logger zerolog.Logger, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		store:     store,
		publisher: publisher,
		logger:    logger,
		jobs:      make(chan Job, queueSize),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
				p.finishJob()
			}
		}()
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking. When the queue is full the job is
// dropped and the track keeps its estimated energy.
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
		p.pending.Add(1)
	default:
		metrics.PreviewAnalysesTotal.WithLabelValues("dropped").Inc()
		p.logger.Warn().Str("track_id", job.TrackID).Msg("preview queue full, dropping job")
	}
}

func (p *Pool) processJob(job Job) {
	ctx := context.Background()

	if job.PreviewURL == "" {
		metrics.PreviewAnalysesTotal.WithLabelValues("skipped").Inc()
		p.logger.Debug().Str("track_id", job.TrackID).Msg("no preview clip, keeping estimated energy")
		return
	}

	energy, err := AnalyzePreviewFunc(ctx, job.PreviewURL)
	if err != nil {
		metrics.PreviewAnalysesTotal.WithLabelValues("error").Inc()
		p.logger.Warn().Err(err).Str("track_id", job.TrackID).Msg("preview analysis failed")
		return
	}

	if err := p.store.UpdateEnergy(ctx, job.TrackID, energy); err != nil {
		metrics.PreviewAnalysesTotal.WithLabelValues("error").Inc()
		p.logger.Warn().Err(err).Str("track_id", job.TrackID).Msg("failed to store analyzed energy")
		return
	}

	metrics.PreviewAnalysesTotal.WithLabelValues("success").Inc()
	p.logger.Debug().Str("track_id", job.TrackID).Float64("energy", energy).Msg("preview analyzed")
}

// finishJob republishes the snapshot once the last pending job drains.
func (p *Pool) finishJob() {
	if p.pending.Add(-1) != 0 {
		return
	}
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Republish(context.Background()); err != nil {
		p.logger.Warn().Err(err).Msg("failed to republish snapshot after preview batch")
	}
}
