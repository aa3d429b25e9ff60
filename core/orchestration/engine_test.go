package orchestration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/readiness"
	"github.com/tannguyen1129/fresh-sync-demo/infra/logger"
	"github.com/tannguyen1129/fresh-sync-demo/infra/store"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type queuedJob struct {
	name    string
	payload any
}

type stubQueue struct {
	mu   sync.Mutex
	jobs []queuedJob
}

func (q *stubQueue) Enqueue(_ context.Context, name string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, queuedJob{name: name, payload: payload})
	return nil
}

func (q *stubQueue) all() []queuedJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queuedJob(nil), q.jobs...)
}

type emittedEvent struct {
	name    string
	payload any
}

type recordEmitter struct {
	mu     sync.Mutex
	events []emittedEvent
}

func (r *recordEmitter) Emit(name string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emittedEvent{name: name, payload: payload})
}

func (r *recordEmitter) named(name string) []emittedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []emittedEvent
	for _, ev := range r.events {
		if ev.name == name {
			res = append(res, ev)
		}
	}
	return res
}

type testRig struct {
	engine  *Engine
	store   *store.MemoryStore
	queue   *stubQueue
	emitter *recordEmitter
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	st := store.NewMemoryStore()
	q := &stubQueue{}
	em := &recordEmitter{}
	engine, err := New(Config{}, Deps{
		Store:     st,
		Queue:     q,
		Emitter:   em,
		Estimator: readiness.FixedEstimator{Offset: 5 * time.Hour},
		Logger:    logger.NopLogger{},
	})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	engine.SetClock(func() time.Time { return testNow })
	return &testRig{engine: engine, store: st, queue: q, emitter: em}
}

// seedBase loads one vessel, one container in ZONE_B, one driver and one
// notifiable user for company co-1. The fixed estimator puts the CRT five
// hours after the vessel ETA, which is one hour past testNow.
func (r *testRig) seedBase() {
	r.store.AddVessel(model.Vessel{
		ID:     "vsl-1",
		Code:   "VSL-001",
		Name:   "Ever Given",
		ETA:    testNow.Add(-4 * time.Hour),
		Status: model.VesselBerthed,
	})
	r.store.AddContainer(model.Container{
		ID:       "cont-1",
		No:       "CONT-001",
		Size:     "20",
		VesselID: "vsl-1",
		YardZone: "ZONE_B",
		Status:   model.ContainerDischarged,
	})
	r.store.AddDriver(model.Driver{
		ID:        "drv-1",
		CompanyID: "co-1",
		Name:      "Nguyen Van A",
		Lat:       10.845,
		Lng:       106.810,
	})
	r.store.AddUser(model.User{ID: "user-1", CompanyID: "co-1", Name: "Coordinator"})
}

// addWindow registers an open gate window starting at the given offset from
// the seeded container's CRT (testNow + 1h).
func (r *testRig) addWindow(t *testing.T, id string, startOffset time.Duration, used, max int, peak bool) model.GateCapacity {
	t.Helper()
	start := testNow.Add(time.Hour).Add(startOffset)
	w := model.GateCapacity{
		ID:        id,
		Start:     start,
		End:       start.Add(time.Hour),
		MaxSlots:  max,
		UsedSlots: used,
		PeakHour:  peak,
		Status:    model.GateOpen,
	}
	if err := r.store.CreateGateWindow(context.Background(), w); err != nil {
		t.Fatalf("create window: %v", err)
	}
	return w
}

// createRequest makes a pickup request for the seeded container.
func (r *testRig) createRequest(t *testing.T, priority bool) CreateRequestResult {
	t.Helper()
	res, err := r.engine.CreatePickupRequest(context.Background(), "co-1", CreateRequestInput{
		ContainerID: "cont-1",
		Priority:    priority,
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	return res
}
