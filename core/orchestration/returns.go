package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/tannguyen1129/fresh-sync-demo/core/events"
	"github.com/tannguyen1129/fresh-sync-demo/core/geo"
	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// ReturnSelection is the outcome of the empty-return depot selector.
type ReturnSelection struct {
	Assignment model.Assignment
	Depot      model.Depot
	DistanceKm float64
	Reason     string
}

// SelectReturnDepot picks the cheapest allowed depot for the empty container
// behind a delivered pickup assignment and creates the RETURN_EMPTY leg for
// the same driver. The caller reports the driver's current coordinates, which
// also refresh the driver's last-known position. Cost is road distance plus a
// load-ratio surcharge, so a nearby but saturated depot can lose to a slightly
// farther open one. Ties on cost keep the first candidate in allow-list order.
//
// Only depots on the shipping line's allow-list for the container are
// considered, and only those currently OPEN.
func (e *Engine) SelectReturnDepot(ctx context.Context, assignmentID string, driverLat, driverLng float64) (ReturnSelection, error) {
	pickup, err := e.store.AssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ReturnSelection{}, NotFoundErr("assignment %s not found", assignmentID)
		}
		return ReturnSelection{}, err
	}
	booking, err := e.store.BookingByID(ctx, pickup.BookingID)
	if err != nil {
		return ReturnSelection{}, err
	}
	req, err := e.store.PickupRequestByID(ctx, booking.RequestID)
	if err != nil {
		return ReturnSelection{}, err
	}
	container, err := e.store.ContainerByID(ctx, req.ContainerID)
	if err != nil {
		return ReturnSelection{}, err
	}

	instr, err := e.store.ReturnInstructionByContainer(ctx, container.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ReturnSelection{}, newErr(KindNotFound, ReasonNoInstruction,
				"no empty-return instruction for container %s", container.No)
		}
		return ReturnSelection{}, err
	}
	depots, err := e.store.OpenDepotsByName(ctx, instr.AllowedDepots)
	if err != nil {
		return ReturnSelection{}, err
	}
	if len(depots) == 0 {
		return ReturnSelection{}, UnavailableErr(ReasonNoOpenDepot,
			"no allowed depot is open for container %s", container.No)
	}

	if err := e.store.UpdateDriverPosition(ctx, pickup.DriverID, driverLat, driverLng); err != nil {
		e.log.Warnf("update driver %s position: %v", pickup.DriverID, err)
	}
	from := geo.Point{Lat: driverLat, Lng: driverLng}

	var (
		best     model.Depot
		bestKm   float64
		bestCost = -1.0
	)
	for _, d := range depots {
		km := geo.DistanceKm(from, geo.Point{Lat: d.Lat, Lng: d.Lng})
		cost := geo.Cost(km, d.LoadRatio(), e.cfg.DepotLoadWeight)
		if bestCost < 0 || cost < bestCost {
			best, bestKm, bestCost = d, km, cost
		}
	}

	reason := fmt.Sprintf("Selected %s: %.1f km away, %.0f%% utilized.",
		best.Name, bestKm, best.LoadRatio()*100)
	ret := model.Assignment{
		ID:        newID(),
		BookingID: pickup.BookingID,
		DriverID:  pickup.DriverID,
		Type:      model.AssignmentReturnEmpty,
		Status:    model.AssignmentNew,
		Route: model.RoutePlan{
			Destination: best.Name,
			Lat:         best.Lat,
			Lng:         best.Lng,
			DistanceKm:  bestKm,
		},
		UpdatedAt: e.now(),
	}
	if err := e.store.CreateAssignment(ctx, ret); err != nil {
		return ReturnSelection{}, fmt.Errorf("create return assignment: %w", err)
	}
	e.log.Infof("empty return for %s: %s", container.No, reason)

	e.emitter.Emit(events.DriverAssignmentCreated, events.AssignmentPayload{
		AssignmentID: ret.ID,
		Type:         ret.Type.String(),
		ContainerNo:  container.No,
		Destination:  best.Name,
		Lat:          best.Lat,
		Lng:          best.Lng,
	})
	return ReturnSelection{Assignment: ret, Depot: best, DistanceKm: bestKm, Reason: reason}, nil
}
