package orchestration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/events"
	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/readiness"
	"github.com/tannguyen1129/fresh-sync-demo/infra/logger"
	"github.com/tannguyen1129/fresh-sync-demo/infra/store"
)

func TestReserveSlotConfirmsBooking(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	w := rig.addWindow(t, "win-a", 0, 10, 100, false)
	req := rig.createRequest(t, false)

	res, err := rig.engine.ReserveSlot(context.Background(), "co-1", req.Request.ID, w.Start, w.End)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if res.Booking.Status != model.BookingConfirmed {
		t.Fatalf("booking status = %v, want CONFIRMED", res.Booking.Status)
	}
	if res.Assignment.Type != model.AssignmentPickup || res.Assignment.Status != model.AssignmentNew {
		t.Fatalf("assignment = %v/%v, want PICKUP/NEW", res.Assignment.Type, res.Assignment.Status)
	}
	if res.Assignment.DriverID != "drv-1" {
		t.Fatalf("driver = %q, want drv-1", res.Assignment.DriverID)
	}
	if len(res.Assignment.Route.Steps) != 3 {
		t.Fatalf("route steps = %v", res.Assignment.Route.Steps)
	}

	stored, err := rig.store.PickupRequestByID(context.Background(), req.Request.ID)
	if err != nil {
		t.Fatalf("load request: %v", err)
	}
	if stored.Status != model.RequestConfirmed {
		t.Fatalf("request status = %v, want CONFIRMED", stored.Status)
	}
	got, err := rig.store.GateWindowBySlot(context.Background(), w.Start, w.End)
	if err != nil {
		t.Fatalf("load window: %v", err)
	}
	if got.UsedSlots != w.UsedSlots+1 {
		t.Fatalf("used slots = %d, want %d", got.UsedSlots, w.UsedSlots+1)
	}
	if evs := rig.emitter.named(events.BookingUpdated); len(evs) != 1 {
		t.Fatalf("booking.updated events = %d, want 1", len(evs))
	}
}

func TestReserveSlotUnknownWindow(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	rig.addWindow(t, "win-a", 0, 10, 100, false)
	req := rig.createRequest(t, false)

	start := testNow.Add(30 * time.Hour)
	_, err := rig.engine.ReserveSlot(context.Background(), "co-1", req.Request.ID, start, start.Add(time.Hour))
	if ReasonOf(err) != ReasonSlotNotFound {
		t.Fatalf("err = %v, want reason %s", err, ReasonSlotNotFound)
	}
}

func TestReserveSlotFullWindow(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	full := rig.addWindow(t, "win-full", 0, 100, 100, false)
	rig.addWindow(t, "win-free", time.Hour, 0, 100, false)
	req := rig.createRequest(t, false)

	_, err := rig.engine.ReserveSlot(context.Background(), "co-1", req.Request.ID, full.Start, full.End)
	if !IsConflict(err) || ReasonOf(err) != ReasonSlotFull {
		t.Fatalf("err = %v, want Conflict %s", err, ReasonSlotFull)
	}
}

func TestReserveSlotNoDriverRollsBackCapacity(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	w := rig.addWindow(t, "win-a", 0, 10, 100, false)
	// A company with a request but no fleet.
	rig.store.AddUser(model.User{ID: "user-2", CompanyID: "co-nofleet"})
	res, err := rig.engine.CreatePickupRequest(context.Background(), "co-nofleet", CreateRequestInput{
		ContainerID: "cont-1",
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	_, err = rig.engine.ReserveSlot(context.Background(), "co-nofleet", res.Request.ID, w.Start, w.End)
	if !IsConflict(err) || ReasonOf(err) != ReasonNoDriver {
		t.Fatalf("err = %v, want Conflict %s", err, ReasonNoDriver)
	}

	// The failed transaction must not leak the capacity increment.
	got, err := rig.store.GateWindowBySlot(context.Background(), w.Start, w.End)
	if err != nil {
		t.Fatalf("load window: %v", err)
	}
	if got.UsedSlots != w.UsedSlots {
		t.Fatalf("used slots = %d after rollback, want %d", got.UsedSlots, w.UsedSlots)
	}
	stored, _ := rig.store.PickupRequestByID(context.Background(), res.Request.ID)
	if stored.Status == model.RequestConfirmed {
		t.Fatal("request must not be CONFIRMED after a failed reservation")
	}
}

func TestReserveSlotAlreadyConfirmed(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	w := rig.addWindow(t, "win-a", 0, 10, 100, false)
	req := rig.createRequest(t, false)

	if _, err := rig.engine.ReserveSlot(context.Background(), "co-1", req.Request.ID, w.Start, w.End); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	_, err := rig.engine.ReserveSlot(context.Background(), "co-1", req.Request.ID, w.Start, w.End)
	if !IsConflict(err) || ReasonOf(err) != ReasonAlreadyConfirmed {
		t.Fatalf("err = %v, want Conflict %s", err, ReasonAlreadyConfirmed)
	}

	got, _ := rig.store.GateWindowBySlot(context.Background(), w.Start, w.End)
	if got.UsedSlots != w.UsedSlots+1 {
		t.Fatalf("used slots = %d, the retry must not consume capacity", got.UsedSlots)
	}
}

func TestReserveSlotForeignRequest(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	w := rig.addWindow(t, "win-a", 0, 10, 100, false)
	req := rig.createRequest(t, false)

	_, err := rig.engine.ReserveSlot(context.Background(), "co-other", req.Request.ID, w.Start, w.End)
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestReserveSlotNeverOversubscribes(t *testing.T) {
	rig := newTestRig(t)
	rig.seedBase()
	w := rig.addWindow(t, "win-small", 0, 0, 3, false)

	const attempts = 10
	ids := make([]string, attempts)
	for i := range ids {
		res, err := rig.engine.CreatePickupRequest(context.Background(), "co-1", CreateRequestInput{
			ContainerID: "cont-1",
		})
		if err != nil {
			t.Fatalf("create request %d: %v", i, err)
		}
		ids[i] = res.Request.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = rig.engine.ReserveSlot(context.Background(), "co-1", id, w.Start, w.End)
		}(i, id)
	}
	wg.Wait()

	confirmed, fullConflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			confirmed++
		case ReasonOf(err) == ReasonSlotFull:
			fullConflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if confirmed != 3 {
		t.Fatalf("confirmed = %d, want exactly the window capacity 3", confirmed)
	}
	if fullConflicts != attempts-3 {
		t.Fatalf("slot-full conflicts = %d, want %d", fullConflicts, attempts-3)
	}
	got, _ := rig.store.GateWindowBySlot(context.Background(), w.Start, w.End)
	if got.UsedSlots != 3 {
		t.Fatalf("used slots = %d, want 3", got.UsedSlots)
	}
}

// staleReadStore hides fresh confirmations from reads, standing in for a
// second caller whose status check raced the first confirmation.
type staleReadStore struct {
	*store.MemoryStore
}

func (s *staleReadStore) PickupRequestByID(ctx context.Context, id string) (model.PickupRequest, error) {
	req, err := s.MemoryStore.PickupRequestByID(ctx, id)
	if err == nil && req.Status == model.RequestConfirmed {
		req.Status = model.RequestRecommended
	}
	return req, err
}

func TestReserveSlotRacingConfirmationsCreateOneBooking(t *testing.T) {
	stale := &staleReadStore{MemoryStore: store.NewMemoryStore()}
	q := &stubQueue{}
	em := &recordEmitter{}
	engine, err := New(Config{}, Deps{
		Store:     stale,
		Queue:     q,
		Emitter:   em,
		Estimator: readiness.FixedEstimator{Offset: 5 * time.Hour},
		Logger:    logger.NopLogger{},
	})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	engine.SetClock(func() time.Time { return testNow })
	rig := &testRig{engine: engine, store: stale.MemoryStore, queue: q, emitter: em}
	rig.seedBase()
	w := rig.addWindow(t, "win-a", 0, 10, 100, false)
	req := rig.createRequest(t, false)

	if _, err := rig.engine.ReserveSlot(context.Background(), "co-1", req.Request.ID, w.Start, w.End); err != nil {
		t.Fatalf("first reserve: %v", err)
	}

	// The stale read lets the second call past the status check; the
	// conditional confirm inside the transaction must stop it.
	_, err = rig.engine.ReserveSlot(context.Background(), "co-1", req.Request.ID, w.Start, w.End)
	if !IsConflict(err) || ReasonOf(err) != ReasonAlreadyConfirmed {
		t.Fatalf("err = %v, want Conflict %s", err, ReasonAlreadyConfirmed)
	}
	got, _ := rig.store.GateWindowBySlot(context.Background(), w.Start, w.End)
	if got.UsedSlots != w.UsedSlots+1 {
		t.Fatalf("used slots = %d, the losing reservation must roll back", got.UsedSlots)
	}
}
