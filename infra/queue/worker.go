package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/logger"
	corequeue "github.com/tannguyen1129/fresh-sync-demo/core/queue"
)

// Reoptimizer is the piece of the engine the worker drives.
type Reoptimizer interface {
	ProcessReoptimization(ctx context.Context, disruptionID string) error
}

// Worker polls the queue and dispatches jobs by name. Handlers must be
// idempotent: a crash after processing but before the ack redelivers the job.
type Worker struct {
	queue  *SQLiteQueue
	engine Reoptimizer
	log    logger.Logger
}

// NewWorker creates a Worker.
func NewWorker(q *SQLiteQueue, engine Reoptimizer, log logger.Logger) *Worker {
	return &Worker{queue: q, engine: engine, log: log}
}

// Run drains the queue until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	interval := time.Duration(w.queue.cfg.PollIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	w.log.Infof("queue worker polling every %s", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain processes all ready jobs before going back to sleep.
func (w *Worker) drain(ctx context.Context) {
	for {
		job, err := w.queue.Dequeue(ctx)
		if errors.Is(err, ErrEmpty) {
			return
		}
		if err != nil {
			w.log.Errorf("dequeue: %v", err)
			return
		}
		if err := w.handle(ctx, job); err != nil {
			w.log.Errorf("job %d (%s): %v", job.ID, job.Name, err)
			// Leave the lease in place; redelivery happens after expiry so a
			// persistent failure does not hot-loop.
			continue
		}
		if err := w.queue.Ack(ctx, job.ID); err != nil {
			w.log.Errorf("ack job %d: %v", job.ID, err)
		}
	}
}

func (w *Worker) handle(ctx context.Context, job corequeue.Job) error {
	switch job.Name {
	case corequeue.JobReoptimizeImpacted:
		var p corequeue.ReoptimizePayload
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			return err
		}
		return w.engine.ProcessReoptimization(ctx, p.DisruptionID)
	default:
		// Unknown jobs are acked and dropped so a stale queue cannot wedge
		// newer binaries.
		w.log.Warnf("dropping unknown job %q", job.Name)
		return nil
	}
}
