package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/events"
	coremetrics "github.com/tannguyen1129/fresh-sync-demo/core/metrics"
	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/queue"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// EnqueueReoptimization queues one re-optimization job for the disruption.
// The call returns as soon as the job is durably stored; processing happens
// on a worker with at-least-once delivery.
func (e *Engine) EnqueueReoptimization(ctx context.Context, disruptionID string) error {
	if err := e.queue.Enqueue(ctx, queue.JobReoptimizeImpacted, queue.ReoptimizePayload{DisruptionID: disruptionID}); err != nil {
		return fmt.Errorf("enqueue reoptimization: %w", err)
	}
	e.log.Infof("queued re-optimization for disruption %s", disruptionID)
	return nil
}

// ProcessReoptimization is the worker-invoked half of the pipeline. It finds
// all CONFIRMED bookings whose container sits in an affected zone and shifts
// each one forward by the configured offset. The shift is deliberately
// conservative: it does not re-run recommendation or re-check capacity of
// the shifted window; it is a holding action pending operator follow-up.
//
// The job is idempotent under redelivery: a missing or inactive disruption is
// a no-op, and each (disruption, booking) pair is claimed before shifting so
// a redelivered job never double-shifts. One booking's failure is logged and
// must not abort the rest of the job.
func (e *Engine) ProcessReoptimization(ctx context.Context, disruptionID string) error {
	disruption, err := e.store.DisruptionByID(ctx, disruptionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.log.Warnf("disruption %s not found, skipping", disruptionID)
			reoptJobsTotal.WithLabelValues("noop").Inc()
			return nil
		}
		return err
	}
	if !disruption.Active {
		reoptJobsTotal.WithLabelValues("noop").Inc()
		return nil
	}

	e.log.Infof("running re-optimization for %s: %s", disruption.Type, disruption.Description)
	impacted, err := e.store.ConfirmedBookingsInZones(ctx, disruption.AffectedZones)
	if err != nil {
		return err
	}
	e.log.Infof("found %d impacted bookings", len(impacted))

	offset := e.rescheduleOffset()
	rescheduled := 0
	for _, det := range impacted {
		b := det.Booking
		b.SlotStart = b.SlotStart.Add(offset)
		b.SlotEnd = b.SlotEnd.Add(offset)
		b.Status = model.BookingRescheduled
		b.BlockedReason = fmt.Sprintf("Rescheduled due to %s", disruption.Type)
		b.UpdatedAt = e.now()

		// The claim and the shift commit together. A failed update or a crash
		// in between rolls the claim back, so redelivery retries the booking
		// instead of skipping it forever.
		claimed := false
		err := e.store.WithTx(ctx, func(tx storage.Queries) error {
			ok, err := tx.ClaimReoptimization(ctx, disruption.ID, det.Booking.ID)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			claimed = true
			return tx.UpdateBooking(ctx, b)
		})
		if err != nil {
			e.log.Errorf("reschedule booking %s: %v", det.Booking.ID, err)
			continue
		}
		if !claimed {
			continue
		}
		rescheduled++
		rescheduledTotal.Inc()

		e.emitter.Emit(events.BookingUpdated, events.BookingUpdatedPayload{
			BookingID:   b.ID,
			RequestID:   b.RequestID,
			NewStatus:   b.Status.String(),
			Reason:      b.BlockedReason,
			SlotStart:   b.SlotStart.Format(time.RFC3339),
			SlotEnd:     b.SlotEnd.Format(time.RFC3339),
			ContainerNo: det.ContainerNo,
		})
		e.notifyCompany(ctx, det.CompanyID, "Booking Rescheduled",
			fmt.Sprintf("Your booking for container %s was moved +%dh due to %s.",
				det.ContainerNo, e.cfg.RescheduleOffsetHours, disruption.Type),
			model.NotifyWarning)
	}

	reoptJobsTotal.WithLabelValues("processed").Inc()
	if r, ok := e.sink.(coremetrics.ReoptimizationRecorder); ok {
		if err := r.RecordReoptimization(coremetrics.ReoptimizationEvent{
			DisruptionID:   disruption.ID,
			DisruptionType: disruption.Type.String(),
			Impacted:       len(impacted),
			Rescheduled:    rescheduled,
			Time:           e.now(),
		}); err != nil {
			e.log.Errorf("reoptimization metrics: %v", err)
		}
	}
	return nil
}
