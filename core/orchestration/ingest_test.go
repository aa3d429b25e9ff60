package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/events"
	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/queue"
)

func auditActions(rig *testRig) []string {
	var res []string
	for _, rec := range rig.store.AuditRecords() {
		res = append(res, rec.Action)
	}
	return res
}

func hasAudit(rig *testRig, action string) bool {
	for _, a := range auditActions(rig) {
		if a == action {
			return true
		}
	}
	return false
}

func TestUpdateDeliveryOrderHoldBlocksBookings(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	booking := confirmBooking(t, rig)

	err := rig.engine.UpdateDeliveryOrder(context.Background(), "ops-1", "CONT-001", "HOLD", testNow.Add(72*time.Hour))
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	do, err := rig.store.DeliveryOrderByContainer(context.Background(), "cont-1")
	if err != nil {
		t.Fatalf("load order: %v", err)
	}
	if do.Status != model.DOHold {
		t.Fatalf("order status = %v, want HOLD", do.Status)
	}
	got, _ := rig.store.BookingByID(context.Background(), booking.ID)
	if got.Status != model.BookingBlocked {
		t.Fatalf("booking status = %v, want BLOCKED", got.Status)
	}
	if got.BlockedReason != "Commercial hold on delivery order for CONT-001" {
		t.Fatalf("reason = %q", got.BlockedReason)
	}
	if !hasAudit(rig, "delivery_order.updated") {
		t.Fatalf("audit trail = %v, missing delivery_order.updated", auditActions(rig))
	}
}

func TestUpdateDeliveryOrderReleaseDoesNotUnblock(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	booking := confirmBooking(t, rig)

	ctx := context.Background()
	if err := rig.engine.UpdateDeliveryOrder(ctx, "ops-1", "CONT-001", "HOLD", testNow.Add(time.Hour)); err != nil {
		t.Fatalf("hold: %v", err)
	}
	if err := rig.engine.UpdateDeliveryOrder(ctx, "ops-1", "CONT-001", "RELEASED", testNow.Add(72*time.Hour)); err != nil {
		t.Fatalf("release: %v", err)
	}

	got, _ := rig.store.BookingByID(ctx, booking.ID)
	if got.Status != model.BookingBlocked {
		t.Fatalf("booking status = %v, releasing the order must not silently unblock", got.Status)
	}
}

func TestUpdateDeliveryOrderValidation(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	ctx := context.Background()

	if err := rig.engine.UpdateDeliveryOrder(ctx, "ops-1", "CONT-001", "MAYBE", testNow); err == nil {
		t.Fatal("expected an error for an unknown status")
	}
	err := rig.engine.UpdateDeliveryOrder(ctx, "ops-1", "CONT-404", "HOLD", testNow)
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestUpdateVesselETA(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	eta := testNow.Add(12 * time.Hour)

	if err := rig.engine.UpdateVesselETA(context.Background(), "ops-1", "VSL-001", eta); err != nil {
		t.Fatalf("update eta: %v", err)
	}
	v, _ := rig.store.VesselByCode(context.Background(), "VSL-001")
	if !v.ETA.Equal(eta) {
		t.Fatalf("eta = %s, want %s", v.ETA, eta)
	}
	if !hasAudit(rig, "vessel.eta_updated") {
		t.Fatal("missing vessel.eta_updated audit record")
	}

	err := rig.engine.UpdateVesselETA(context.Background(), "ops-1", "VSL-404", eta)
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestReportDisruption(t *testing.T) {
	rig := newTestRig(t)

	d, err := rig.engine.ReportDisruption(context.Background(), "ops-1", DisruptionInput{
		Type:          "CRANE_BREAKDOWN",
		Severity:      model.SeverityHigh,
		AffectedZones: []string{"ZONE_B"},
		Description:   "STS crane 3 down",
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !d.Active {
		t.Fatal("a reported disruption must start active")
	}
	if !d.Start.Equal(testNow) {
		t.Fatalf("start = %s, want defaulted to now", d.Start)
	}

	jobs := rig.queue.all()
	if len(jobs) != 1 || jobs[0].name != queue.JobReoptimizeImpacted {
		t.Fatalf("jobs = %+v, want one reoptimize job", jobs)
	}
	if evs := rig.emitter.named(events.DisruptionCreated); len(evs) != 1 {
		t.Fatalf("disruption.created events = %d, want 1", len(evs))
	}
	if !hasAudit(rig, "disruption.reported") {
		t.Fatal("missing disruption.reported audit record")
	}
}

func TestReportDisruptionValidation(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	if _, err := rig.engine.ReportDisruption(ctx, "ops-1", DisruptionInput{
		Type: "SOLAR_FLARE", AffectedZones: []string{"ZONE_A"},
	}); err == nil {
		t.Fatal("expected an error for an unknown type")
	}
	if _, err := rig.engine.ReportDisruption(ctx, "ops-1", DisruptionInput{
		Type: "GATE_CONGESTION",
	}); err == nil {
		t.Fatal("expected an error for missing zones")
	}
	if _, err := rig.engine.ReportDisruption(ctx, "ops-1", DisruptionInput{
		Type: "GATE_CONGESTION", AffectedZones: []string{"ZONE_A", ""},
	}); err == nil {
		t.Fatal("expected an error for a blank zone")
	}
	if len(rig.queue.all()) != 0 {
		t.Fatal("rejected disruptions must not enqueue jobs")
	}
}

func TestIngestYardSnapshot(t *testing.T) {
	rig := newTestRig(t)

	err := rig.engine.IngestYardSnapshot(context.Background(), "tos-feed", []model.YardStatus{
		{Zone: "ZONE_A", OccupancyPct: 45.5},
		{Zone: "ZONE_B", OccupancyPct: 88.0, UpdatedAt: testNow.Add(-time.Minute)},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	statuses, _ := rig.store.YardStatuses(context.Background())
	if len(statuses) != 2 {
		t.Fatalf("yard statuses = %d, want 2", len(statuses))
	}
	for _, ys := range statuses {
		if ys.UpdatedAt.IsZero() {
			t.Fatalf("zone %s has a zero timestamp", ys.Zone)
		}
	}

	err = rig.engine.IngestYardSnapshot(context.Background(), "tos-feed", []model.YardStatus{{OccupancyPct: 10}})
	if err == nil {
		t.Fatal("expected an error for an empty zone")
	}
}
