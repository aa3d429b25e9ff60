package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/events"
	"github.com/tannguyen1129/fresh-sync-demo/core/model"
)

// EnforceCommercialHold blocks every active booking of the container. It is
// called when a delivery order flips to HOLD, either from an ingestion feed
// or from an operator override. Already blocked or cancelled bookings are
// untouched; the owning company gets one notification per blocked booking.
func (e *Engine) EnforceCommercialHold(ctx context.Context, containerID, reason string) error {
	if reason == "" {
		reason = "Commercial hold on delivery order"
	}
	details, err := e.store.ActiveBookingsByContainer(ctx, containerID)
	if err != nil {
		return fmt.Errorf("active bookings for container %s: %w", containerID, err)
	}
	if len(details) == 0 {
		return nil
	}

	for _, det := range details {
		b := det.Booking
		b.Status = model.BookingBlocked
		b.BlockedReason = reason
		b.UpdatedAt = e.now()
		if err := e.store.UpdateBooking(ctx, b); err != nil {
			e.log.Errorf("block booking %s: %v", b.ID, err)
			continue
		}
		e.log.Infof("blocked booking %s for container %s: %s", b.ID, det.ContainerNo, reason)

		e.emitter.Emit(events.BookingUpdated, events.BookingUpdatedPayload{
			BookingID:   b.ID,
			RequestID:   b.RequestID,
			NewStatus:   b.Status.String(),
			Reason:      reason,
			SlotStart:   b.SlotStart.Format(time.RFC3339),
			SlotEnd:     b.SlotEnd.Format(time.RFC3339),
			ContainerNo: det.ContainerNo,
		})
		e.notifyCompany(ctx, det.CompanyID, "Booking Blocked",
			fmt.Sprintf("Your booking for container %s was blocked: %s", det.ContainerNo, reason),
			model.NotifyError)
	}
	return nil
}
