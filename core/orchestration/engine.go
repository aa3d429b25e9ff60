// Package orchestration implements the pickup scheduling engine: readiness
// prediction, capacity-aware slot recommendation, concurrency-safe slot
// reservation, the disruption re-optimization pipeline and the empty-return
// depot selector.
package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tannguyen1129/fresh-sync-demo/core/events"
	"github.com/tannguyen1129/fresh-sync-demo/core/logger"
	coremetrics "github.com/tannguyen1129/fresh-sync-demo/core/metrics"
	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/queue"
	"github.com/tannguyen1129/fresh-sync-demo/core/readiness"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// Deps bundles the engine's collaborators. All fields but Sink are required.
type Deps struct {
	Store     storage.Store
	Queue     queue.Queue
	Emitter   events.Emitter
	Estimator readiness.Estimator
	Sink      coremetrics.MetricsSink
	Logger    logger.Logger
}

// Engine holds the decision logic. Everything else in the system is thin
// glue around the store; the engine is the only component that decides.
type Engine struct {
	store     storage.Store
	queue     queue.Queue
	emitter   events.Emitter
	estimator readiness.Estimator
	sink      coremetrics.MetricsSink
	log       logger.Logger
	cfg       Config
	now       func() time.Time
}

// New creates an Engine from the configuration and collaborators.
func New(cfg Config, d Deps) (*Engine, error) {
	if d.Store == nil || d.Queue == nil || d.Emitter == nil || d.Estimator == nil || d.Logger == nil {
		return nil, fmt.Errorf("orchestration: nil dependency provided to New")
	}
	cfg.SetDefaults()
	sink := d.Sink
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Engine{
		store:     d.Store,
		queue:     d.Queue,
		emitter:   d.Emitter,
		estimator: d.Estimator,
		sink:      sink,
		log:       d.Logger,
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

// SetClock overrides the engine's clock. Intended for tests.
func (e *Engine) SetClock(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

func (e *Engine) horizon() time.Duration {
	return time.Duration(e.cfg.HorizonHours) * time.Hour
}

func (e *Engine) rescheduleOffset() time.Duration {
	return time.Duration(e.cfg.RescheduleOffsetHours) * time.Hour
}

func newID() string { return uuid.NewString() }

// notifyCompany persists a notification for the first user of the company and
// mirrors it onto the event channel. A company without users is logged and
// skipped; it must not abort the caller.
func (e *Engine) notifyCompany(ctx context.Context, companyID, title, message string, level model.NotificationLevel) {
	user, err := e.store.FirstUserByCompany(ctx, companyID)
	if err != nil {
		e.log.Warnf("no user to notify for company %s: %v", companyID, err)
		return
	}
	n := model.Notification{
		ID:        newID(),
		UserID:    user.ID,
		Title:     title,
		Message:   message,
		Level:     level,
		CreatedAt: e.now(),
	}
	if err := e.store.CreateNotification(ctx, n); err != nil {
		e.log.Errorf("create notification: %v", err)
		return
	}
	e.emitter.Emit(events.NotificationCreated, events.NotificationPayload{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Level:     n.Level.String(),
		CreatedAt: n.CreatedAt,
	})
}

// audit appends an audit record; failures are logged, never propagated.
func (e *Engine) audit(ctx context.Context, actorID, action, entityType, entityID string, details map[string]any) {
	rec := model.AuditRecord{
		ID:         newID(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  e.now(),
	}
	if err := e.store.AppendAudit(ctx, rec); err != nil {
		e.log.Errorf("audit %s: %v", action, err)
	}
}
