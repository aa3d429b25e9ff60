package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/model"
)

func TestCreatePickupRequestCommercialHold(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	rig.store.UpsertDeliveryOrder(context.Background(), model.DeliveryOrder{
		ID:          "do-1",
		ContainerID: "cont-1",
		Status:      model.DOHold,
		ValidUntil:  testNow.Add(7 * 24 * time.Hour),
	})

	_, err := rig.engine.CreatePickupRequest(context.Background(), "co-1", CreateRequestInput{
		ContainerID: "cont-1",
	})
	if !IsConflict(err) {
		t.Fatalf("err = %v, want Conflict", err)
	}
	if ReasonOf(err) != ReasonCommercialHold {
		t.Fatalf("reason = %q, want %q", ReasonOf(err), ReasonCommercialHold)
	}
}

func TestCreatePickupRequestReleasedOrder(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	rig.store.UpsertDeliveryOrder(context.Background(), model.DeliveryOrder{
		ID:          "do-1",
		ContainerID: "cont-1",
		Status:      model.DOReleased,
		ValidUntil:  testNow.Add(7 * 24 * time.Hour),
	})
	rig.addWindow(t, "win-a", 0, 10, 100, false)

	res, err := rig.engine.CreatePickupRequest(context.Background(), "co-1", CreateRequestInput{
		ContainerID: "cont-1",
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if res.Request.ID == "" || res.Recommendation == nil {
		t.Fatal("expected a stored request with a recommendation")
	}
	if res.Request.CompanyID != "co-1" {
		t.Fatalf("company = %q, want co-1", res.Request.CompanyID)
	}
}

func TestCreatePickupRequestValidation(t *testing.T) {
	rig := newTestRig(t)
	if _, err := rig.engine.CreatePickupRequest(context.Background(), "co-1", CreateRequestInput{}); err == nil {
		t.Fatal("expected an error for a missing container id")
	}
	_, err := rig.engine.CreatePickupRequest(context.Background(), "co-1", CreateRequestInput{ContainerID: "ghost"})
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestRecommendationHidesForeignRequests(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	rig.addWindow(t, "win-a", 0, 10, 100, false)
	res := rig.createRequest(t, false)

	// The owner sees it.
	rec, err := rig.engine.Recommendation(context.Background(), "co-1", res.Request.ID)
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if rec.RequestID != res.Request.ID {
		t.Fatalf("recommendation for %q, want %q", rec.RequestID, res.Request.ID)
	}

	// Another company gets NotFound, never a hint the request exists.
	_, err = rig.engine.Recommendation(context.Background(), "co-other", res.Request.ID)
	if !IsNotFound(err) {
		t.Fatalf("foreign lookup err = %v, want NotFound", err)
	}
}
