package orchestration

import (
	"context"
	"errors"

	"github.com/tannguyen1129/fresh-sync-demo/core/events"
	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// StatusUpdate is a driver-app progress report on an assignment. Lat/Lng are
// optional; when present they refresh the driver's last-known position even
// if the status transition itself is rejected.
type StatusUpdate struct {
	Status model.AssignmentStatus
	Lat    *float64
	Lng    *float64
}

// UpdateAssignmentStatus advances an assignment one step. The lifecycle is
// strictly linear; skipping a step or moving backwards is a conflict.
// ARRIVED_GATE stamps the actual gate-in time and DEPARTED the gate-out time,
// which feeds turn-time reporting.
func (e *Engine) UpdateAssignmentStatus(ctx context.Context, assignmentID string, upd StatusUpdate) (model.Assignment, error) {
	a, err := e.store.AssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.Assignment{}, NotFoundErr("assignment %s not found", assignmentID)
		}
		return model.Assignment{}, err
	}

	if upd.Lat != nil && upd.Lng != nil {
		if err := e.store.UpdateDriverPosition(ctx, a.DriverID, *upd.Lat, *upd.Lng); err != nil {
			e.log.Warnf("update driver %s position: %v", a.DriverID, err)
		}
	}

	if !a.Status.CanAdvanceTo(upd.Status) {
		return model.Assignment{}, ConflictErr(ReasonBadTransition,
			"cannot move assignment from %s to %s", a.Status, upd.Status)
	}

	now := e.now()
	a.Status = upd.Status
	a.UpdatedAt = now
	switch upd.Status {
	case model.AssignmentArrivedGate:
		a.ActualIn = &now
	case model.AssignmentDeparted:
		a.ActualOut = &now
	}
	if err := e.store.UpdateAssignment(ctx, a); err != nil {
		return model.Assignment{}, err
	}

	e.emitter.Emit(events.DriverAssignmentUpdated, events.AssignmentPayload{
		AssignmentID: a.ID,
		Type:         a.Type.String(),
		Destination:  a.Route.Destination,
	})
	return a, nil
}
