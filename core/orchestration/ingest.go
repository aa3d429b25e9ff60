package orchestration

import (
	"context"
	"errors"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/events"
	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// UpdateDeliveryOrder applies a shipping line feed update to the container's
// delivery order. A flip to HOLD immediately blocks every active booking of
// the container; a flip back to RELEASED does not unblock anything, that is
// an operator decision.
func (e *Engine) UpdateDeliveryOrder(ctx context.Context, actorID, containerNo, status string, validUntil time.Time) error {
	st, ok := model.ParseDOStatus(status)
	if !ok {
		return InvalidInputErr("", "unknown delivery order status %q", status)
	}
	container, err := e.store.ContainerByNo(ctx, containerNo)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return NotFoundErr("container %s not found", containerNo)
		}
		return err
	}

	do, err := e.store.UpsertDeliveryOrder(ctx, model.DeliveryOrder{
		ContainerID: container.ID,
		Status:      st,
		ValidUntil:  validUntil,
	})
	if err != nil {
		return err
	}
	e.audit(ctx, actorID, "delivery_order.updated", "delivery_order", do.ID, map[string]any{
		"container_no": containerNo,
		"status":       st.String(),
	})

	if st == model.DOHold {
		return e.EnforceCommercialHold(ctx, container.ID,
			"Commercial hold on delivery order for "+containerNo)
	}
	return nil
}

// UpdateVesselETA applies a delay notice from the vessel operations feed.
// It does not re-run readiness prediction for containers already requested;
// the next recommendation will pick up the new ETA.
func (e *Engine) UpdateVesselETA(ctx context.Context, actorID, vesselCode string, eta time.Time) error {
	vessel, err := e.store.VesselByCode(ctx, vesselCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return NotFoundErr("vessel %s not found", vesselCode)
		}
		return err
	}
	if err := e.store.UpdateVesselETA(ctx, vessel.ID, eta); err != nil {
		return err
	}
	e.audit(ctx, actorID, "vessel.eta_updated", "vessel", vessel.ID, map[string]any{
		"code": vesselCode,
		"eta":  eta.Format(time.RFC3339),
	})
	e.log.Infof("vessel %s ETA moved to %s", vesselCode, eta.Format(time.RFC3339))
	return nil
}

// DisruptionInput is an externally reported disruption.
type DisruptionInput struct {
	Type          string
	Severity      model.Severity
	Start         time.Time
	End           time.Time
	AffectedZones []string
	Description   string
}

// ReportDisruption records a disruption, announces it and queues the
// re-optimization job. The job runs asynchronously; this call returns once
// the disruption and job are durable.
func (e *Engine) ReportDisruption(ctx context.Context, actorID string, in DisruptionInput) (model.Disruption, error) {
	typ, ok := model.ParseDisruptionType(in.Type)
	if !ok {
		return model.Disruption{}, InvalidInputErr("", "unknown disruption type %q", in.Type)
	}
	if len(in.AffectedZones) == 0 {
		return model.Disruption{}, InvalidInputErr("", "disruption must name at least one affected zone")
	}
	for _, z := range in.AffectedZones {
		if z == "" {
			return model.Disruption{}, InvalidInputErr("", "empty affected zone")
		}
	}

	d := model.Disruption{
		ID:            newID(),
		Type:          typ,
		Severity:      in.Severity,
		Start:         in.Start,
		End:           in.End,
		AffectedZones: in.AffectedZones,
		Description:   in.Description,
		Active:        true,
	}
	if d.Start.IsZero() {
		d.Start = e.now()
	}
	if err := e.store.CreateDisruption(ctx, d); err != nil {
		return model.Disruption{}, err
	}
	e.audit(ctx, actorID, "disruption.reported", "disruption", d.ID, map[string]any{
		"type":  typ.String(),
		"zones": in.AffectedZones,
	})
	e.emitter.Emit(events.DisruptionCreated, events.DisruptionCreatedPayload{
		ID:            d.ID,
		Type:          typ.String(),
		Severity:      d.Severity.String(),
		Description:   d.Description,
		AffectedZones: d.AffectedZones,
	})
	if err := e.EnqueueReoptimization(ctx, d.ID); err != nil {
		// The disruption row exists, so an operator can re-trigger the job.
		e.log.Errorf("enqueue for disruption %s: %v", d.ID, err)
	}
	return d, nil
}

// IngestYardSnapshot upserts per-zone occupancy samples from the terminal
// operating system.
func (e *Engine) IngestYardSnapshot(ctx context.Context, actorID string, statuses []model.YardStatus) error {
	for _, ys := range statuses {
		if ys.Zone == "" {
			return InvalidInputErr("", "yard status with empty zone")
		}
		if ys.UpdatedAt.IsZero() {
			ys.UpdatedAt = e.now()
		}
		if err := e.store.UpsertYardStatus(ctx, ys); err != nil {
			return err
		}
	}
	e.audit(ctx, actorID, "yard.snapshot_ingested", "yard", "", map[string]any{
		"zones": len(statuses),
	})
	return nil
}
