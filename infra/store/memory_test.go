package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

func TestMemoryWithTxRollsBackSnapshot(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	if err := m.CreateGateWindow(ctx, model.GateCapacity{
		ID: "win-1", Start: baseT, End: baseT.Add(time.Hour),
		MaxSlots: 5, Status: model.GateOpen,
	}); err != nil {
		t.Fatalf("window: %v", err)
	}

	boom := errors.New("boom")
	err := m.WithTx(ctx, func(tx storage.Queries) error {
		ok, err := tx.ReserveSlotCapacity(ctx, "win-1")
		if err != nil || !ok {
			t.Fatalf("reserve inside tx = %v, %v", ok, err)
		}
		if err := tx.CreateBooking(ctx, model.Booking{ID: "bk-1", RequestID: "req-1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the callback error", err)
	}

	w, _ := m.GateWindowBySlot(ctx, baseT, baseT.Add(time.Hour))
	if w.UsedSlots != 0 {
		t.Fatalf("used slots = %d after rollback, want 0", w.UsedSlots)
	}
	if _, err := m.BookingByID(ctx, "bk-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, the booking must have been rolled back", err)
	}
}

func TestMemoryWithTxCommits(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	if err := m.CreateGateWindow(ctx, model.GateCapacity{
		ID: "win-1", Start: baseT, End: baseT.Add(time.Hour),
		MaxSlots: 5, Status: model.GateOpen,
	}); err != nil {
		t.Fatalf("window: %v", err)
	}

	err := m.WithTx(ctx, func(tx storage.Queries) error {
		_, err := tx.ReserveSlotCapacity(ctx, "win-1")
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	w, _ := m.GateWindowBySlot(ctx, baseT, baseT.Add(time.Hour))
	if w.UsedSlots != 1 {
		t.Fatalf("used slots = %d, want 1", w.UsedSlots)
	}
}

func TestMemoryOpenDepotsByNameKeepsOrder(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	m.AddDepot(model.Depot{ID: "dep-a", Name: "Depot A", Status: model.DepotOpen})
	m.AddDepot(model.Depot{ID: "dep-b", Name: "Depot B", Status: model.DepotOpen})
	m.AddDepot(model.Depot{ID: "dep-c", Name: "Depot C", Status: model.DepotClosed})

	res, err := m.OpenDepotsByName(ctx, []string{"Depot B", "Depot C", "Depot A"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(res) != 2 || res[0].ID != "dep-b" || res[1].ID != "dep-a" {
		t.Fatalf("depots = %+v, want open ones in allow-list order", res)
	}
}

func TestMemoryClaimReoptimizationOnce(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	ok, err := m.ClaimReoptimization(ctx, "dis-1", "bk-1")
	if err != nil || !ok {
		t.Fatalf("first claim = %v, %v", ok, err)
	}
	ok, _ = m.ClaimReoptimization(ctx, "dis-1", "bk-1")
	if ok {
		t.Fatal("duplicate claim must be refused")
	}
}

func TestMemoryConfirmPickupRequestOnce(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	if err := m.CreatePickupRequest(ctx, model.PickupRequest{
		ID: "req-1", CompanyID: "co-1", ContainerID: "cont-1",
		Status: model.RequestRecommended, CreatedAt: baseT,
	}); err != nil {
		t.Fatalf("request: %v", err)
	}

	ok, err := m.ConfirmPickupRequest(ctx, "req-1")
	if err != nil || !ok {
		t.Fatalf("first confirm = %v, %v", ok, err)
	}
	ok, _ = m.ConfirmPickupRequest(ctx, "req-1")
	if ok {
		t.Fatal("second confirm must be refused")
	}
	ok, _ = m.ConfirmPickupRequest(ctx, "req-ghost")
	if ok {
		t.Fatal("missing request must report false")
	}
}
