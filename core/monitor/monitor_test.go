package monitor

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/events"
	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/infra/logger"
	"github.com/tannguyen1129/fresh-sync-demo/infra/store"
)

var sampleAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type recordEmitter struct {
	mu     sync.Mutex
	events []string
}

func (r *recordEmitter) Emit(name string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
}

func newSampler(t *testing.T) (*Sampler, *store.MemoryStore, *recordEmitter) {
	t.Helper()
	st := store.NewMemoryStore()
	em := &recordEmitter{}
	s := New(Config{}, st, em, nil, logger.NopLogger{})
	s.SetClock(func() time.Time { return sampleAt })
	return s, st, em
}

func addCurrentWindow(t *testing.T, st *store.MemoryStore, used, max int) {
	t.Helper()
	err := st.CreateGateWindow(context.Background(), model.GateCapacity{
		ID:        "win-now",
		Start:     sampleAt.Add(-30 * time.Minute),
		End:       sampleAt.Add(30 * time.Minute),
		MaxSlots:  max,
		UsedSlots: used,
		Status:    model.GateOpen,
	})
	if err != nil {
		t.Fatalf("create window: %v", err)
	}
}

func addYard(t *testing.T, st *store.MemoryStore, zone string, pct float64) {
	t.Helper()
	err := st.UpsertYardStatus(context.Background(), model.YardStatus{
		Zone: zone, OccupancyPct: pct, UpdatedAt: sampleAt,
	})
	if err != nil {
		t.Fatalf("upsert yard: %v", err)
	}
}

func addActiveDisruption(t *testing.T, st *store.MemoryStore, id string) {
	t.Helper()
	err := st.CreateDisruption(context.Background(), model.Disruption{
		ID: id, Type: model.DisruptionGateCongestion,
		AffectedZones: []string{"ZONE_A"}, Active: true,
		Start: sampleAt, End: sampleAt.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create disruption: %v", err)
	}
}

func TestSampleComputesWeightedScore(t *testing.T) {
	s, st, em := newSampler(t)
	addCurrentWindow(t, st, 80, 100)
	addYard(t, st, "ZONE_A", 60)
	addYard(t, st, "ZONE_B", 80)
	addActiveDisruption(t, st, "dis-1")
	addActiveDisruption(t, st, "dis-2")
	addActiveDisruption(t, st, "dis-3")

	snap, err := s.Sample(context.Background())
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	// 80*0.4 + 70*0.4 + 3*10 = 90.
	if math.Abs(snap.RiskScore-90) > 1e-9 {
		t.Fatalf("score = %v, want 90", snap.RiskScore)
	}
	if snap.RiskLevel != "CRITICAL" {
		t.Fatalf("level = %q, want CRITICAL", snap.RiskLevel)
	}
	if snap.GateLoadPct != 80 {
		t.Fatalf("gate load = %v, want 80", snap.GateLoadPct)
	}
	if snap.AvgYardOccupancy != 70 {
		t.Fatalf("avg occupancy = %v, want 70", snap.AvgYardOccupancy)
	}
	if snap.ActiveDisruptions != 3 {
		t.Fatalf("disruptions = %d, want 3", snap.ActiveDisruptions)
	}
	if snap.YardOccupancy["ZONE_B"] != 80 {
		t.Fatalf("per-zone occupancy = %v", snap.YardOccupancy)
	}

	found := false
	for _, ev := range em.events {
		if ev == events.CongestionUpdated {
			found = true
		}
	}
	if !found {
		t.Fatal("congestion.updated was not emitted")
	}
}

func TestSampleRiskLevels(t *testing.T) {
	cases := []struct {
		name  string
		yard  float64
		level string
	}{
		// Thresholds are strict: a score sitting exactly on one stays below.
		{"low", 50, "LOW"},         // 20
		{"medium_edge", 75, "LOW"}, // exactly 30, not > 30
		{"medium", 100, "MEDIUM"},  // 40
		{"high", 150, "HIGH"},      // 60
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, st, _ := newSampler(t)
			addYard(t, st, "ZONE_A", tc.yard)
			snap, err := s.Sample(context.Background())
			if err != nil {
				t.Fatalf("sample: %v", err)
			}
			if snap.RiskLevel != tc.level {
				t.Fatalf("level = %q for score %v, want %q", snap.RiskLevel, snap.RiskScore, tc.level)
			}
		})
	}
}

func TestSampleClosedGate(t *testing.T) {
	s, st, _ := newSampler(t)
	// A window well in the past must not count as current load.
	err := st.CreateGateWindow(context.Background(), model.GateCapacity{
		ID:       "win-old",
		Start:    sampleAt.Add(-3 * time.Hour),
		End:      sampleAt.Add(-2 * time.Hour),
		MaxSlots: 100, UsedSlots: 100,
		Status: model.GateOpen,
	})
	if err != nil {
		t.Fatalf("create window: %v", err)
	}

	snap, err := s.Sample(context.Background())
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if snap.GateLoadPct != 0 {
		t.Fatalf("gate load = %v, want 0 when no window covers now", snap.GateLoadPct)
	}
	if snap.RiskScore != 0 || snap.RiskLevel != "LOW" {
		t.Fatalf("snapshot = %+v, want a zero LOW sample", snap)
	}
}

func TestSampleDoesNotMutateStore(t *testing.T) {
	s, st, _ := newSampler(t)
	addCurrentWindow(t, st, 40, 100)

	if _, err := s.Sample(context.Background()); err != nil {
		t.Fatalf("sample: %v", err)
	}
	w, err := st.GateWindowAt(context.Background(), sampleAt)
	if err != nil {
		t.Fatalf("load window: %v", err)
	}
	if w.UsedSlots != 40 {
		t.Fatalf("used slots = %d, sampling must never consume capacity", w.UsedSlots)
	}
}
