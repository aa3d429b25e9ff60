package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// CreateGateWindow registers a gate capacity window for planning.
func (e *Engine) CreateGateWindow(ctx context.Context, actorID string, w model.GateCapacity) (model.GateCapacity, error) {
	if !w.End.After(w.Start) {
		return model.GateCapacity{}, InvalidInputErr("", "window end must be after start")
	}
	if w.MaxSlots <= 0 {
		return model.GateCapacity{}, InvalidInputErr("", "window must have positive capacity")
	}
	if w.ID == "" {
		w.ID = newID()
	}
	w.UsedSlots = 0
	if err := e.store.CreateGateWindow(ctx, w); err != nil {
		return model.GateCapacity{}, err
	}
	e.audit(ctx, actorID, "gate_window.created", "gate_window", w.ID, map[string]any{
		"start":     w.Start.Format(time.RFC3339),
		"max_slots": w.MaxSlots,
		"peak":      w.PeakHour,
	})
	return w, nil
}

// GateWindows lists capacity windows in [from, to) for the planning board.
func (e *Engine) GateWindows(ctx context.Context, from, to time.Time) ([]model.GateCapacity, error) {
	if !to.After(from) {
		return nil, InvalidInputErr("", "range end must be after start")
	}
	return e.store.ListGateWindows(ctx, from, to)
}

// Resource kinds an operator can block.
const (
	BlockContainer = "container"
	BlockGate      = "gate"
	BlockZone      = "zone"
)

// BlockResource is the operator override. Blocking a container puts its
// delivery order on HOLD and runs the hold path; blocking a gate or a yard
// zone raises a synthetic disruption over the coming hours so the normal
// re-optimization pipeline clears the affected bookings.
func (e *Engine) BlockResource(ctx context.Context, actorID, kind, target, reason string) error {
	if target == "" {
		return InvalidInputErr("", "block target is required")
	}
	switch kind {
	case BlockContainer:
		container, err := e.store.ContainerByNo(ctx, target)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return NotFoundErr("container %s not found", target)
			}
			return err
		}
		do, err := e.store.DeliveryOrderByContainer(ctx, container.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		do.ContainerID = container.ID
		do.Status = model.DOHold
		if _, err := e.store.UpsertDeliveryOrder(ctx, do); err != nil {
			return err
		}
		e.audit(ctx, actorID, "container.blocked", "container", container.ID, map[string]any{
			"container_no": target,
			"reason":       reason,
		})
		return e.EnforceCommercialHold(ctx, container.ID, fmt.Sprintf("Manual Block: %s", reason))

	case BlockGate, BlockZone:
		typ := model.DisruptionGateCongestion
		if kind == BlockZone {
			typ = model.DisruptionCraneBreakdown
		}
		now := e.now()
		_, err := e.ReportDisruption(ctx, actorID, DisruptionInput{
			Type:          typ.String(),
			Severity:      model.SeverityHigh,
			Start:         now,
			End:           now.Add(time.Duration(e.cfg.ManualBlockHours) * time.Hour),
			AffectedZones: []string{target},
			Description:   fmt.Sprintf("Manual Override: %s", reason),
		})
		return err

	default:
		return InvalidInputErr("", "unknown block kind %q", kind)
	}
}

// ImpactedBookings returns bookings rescheduled or blocked in the last day,
// newest first, for the operator's triage view.
func (e *Engine) ImpactedBookings(ctx context.Context) ([]storage.BookingDetail, error) {
	return e.store.ImpactedBookingsSince(ctx, e.now().Add(-24*time.Hour), 50)
}
