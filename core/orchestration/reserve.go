package orchestration

import (
	"context"
	"errors"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/events"
	coremetrics "github.com/tannguyen1129/fresh-sync-demo/core/metrics"
	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// Reservation is the result of a successful slot confirmation.
type Reservation struct {
	Booking    model.Booking
	Assignment model.Assignment
}

// ReserveSlot confirms a booking for the request in the chosen gate window.
// The window normally echoes the recommendation but any open window may be
// picked. The capacity increment, booking creation, request transition and
// assignment creation are one all-or-nothing unit of work; the capacity check
// is an atomic conditional update so concurrent reservations can never
// oversubscribe the window. The booking-updated event is emitted only after
// the transaction commits.
func (e *Engine) ReserveSlot(ctx context.Context, companyID, requestID string, slotStart, slotEnd time.Time) (Reservation, error) {
	req, err := e.store.PickupRequestByID(ctx, requestID)
	if err != nil || req.CompanyID != companyID {
		reservationsTotal.WithLabelValues("not_found").Inc()
		return Reservation{}, NotFoundErr("request %s not found", requestID)
	}
	if req.Status == model.RequestConfirmed {
		reservationsTotal.WithLabelValues("conflict").Inc()
		return Reservation{}, ConflictErr(ReasonAlreadyConfirmed, "request already confirmed")
	}
	container, err := e.store.ContainerByID(ctx, req.ContainerID)
	if err != nil {
		return Reservation{}, err
	}

	var booking model.Booking
	var assignment model.Assignment
	err = e.store.WithTx(ctx, func(tx storage.Queries) error {
		window, err := tx.GateWindowBySlot(ctx, slotStart, slotEnd)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return InvalidInputErr(ReasonSlotNotFound, "invalid time slot selected")
			}
			return err
		}

		ok, err := tx.ReserveSlotCapacity(ctx, window.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ConflictErr(ReasonSlotFull, "slot became full, pick another time")
		}

		booking = model.Booking{
			ID:        newID(),
			RequestID: req.ID,
			SlotStart: slotStart,
			SlotEnd:   slotEnd,
			Status:    model.BookingConfirmed,
			UpdatedAt: e.now(),
		}
		if err := tx.CreateBooking(ctx, booking); err != nil {
			return err
		}
		confirmed, err := tx.ConfirmPickupRequest(ctx, req.ID)
		if err != nil {
			return err
		}
		if !confirmed {
			// A racing reservation confirmed the request after the read above;
			// abort so the capacity increment and booking roll back.
			return ConflictErr(ReasonAlreadyConfirmed, "request already confirmed")
		}

		driver, err := tx.FirstDriverByCompany(ctx, companyID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ConflictErr(ReasonNoDriver, "no drivers available in your fleet to assign")
			}
			return err
		}
		assignment = model.Assignment{
			ID:        newID(),
			BookingID: booking.ID,
			DriverID:  driver.ID,
			Type:      model.AssignmentPickup,
			Status:    model.AssignmentNew,
			Route:     model.RoutePlan{Steps: []string{"Gate A", "Zone B", "Gate Out"}},
			UpdatedAt: e.now(),
		}
		return tx.CreateAssignment(ctx, assignment)
	})
	if err != nil {
		reservationsTotal.WithLabelValues(reserveOutcome(err)).Inc()
		e.recordReservation(requestID, slotStart, reserveOutcome(err))
		return Reservation{}, err
	}

	reservationsTotal.WithLabelValues("confirmed").Inc()
	e.recordReservation(requestID, slotStart, "confirmed")
	e.emitter.Emit(events.BookingUpdated, events.BookingUpdatedPayload{
		BookingID:   booking.ID,
		RequestID:   req.ID,
		NewStatus:   booking.Status.String(),
		SlotStart:   booking.SlotStart.Format(time.RFC3339),
		SlotEnd:     booking.SlotEnd.Format(time.RFC3339),
		ContainerNo: container.No,
	})
	e.log.Infof("booking %s confirmed for request %s at %s",
		booking.ID, req.ID, booking.SlotStart.Format(time.RFC3339))
	return Reservation{Booking: booking, Assignment: assignment}, nil
}

func reserveOutcome(err error) string {
	switch ReasonOf(err) {
	case ReasonAlreadyConfirmed:
		return "conflict"
	case ReasonSlotFull:
		return "slot_full"
	case ReasonSlotNotFound:
		return "slot_not_found"
	case ReasonNoDriver:
		return "no_driver"
	default:
		return "error"
	}
}

func (e *Engine) recordReservation(requestID string, slotStart time.Time, outcome string) {
	if err := e.sink.RecordReservation(coremetrics.ReservationEvent{
		RequestID: requestID,
		SlotStart: slotStart,
		Outcome:   outcome,
		Time:      e.now(),
	}); err != nil {
		e.log.Errorf("reservation metrics: %v", err)
	}
}
