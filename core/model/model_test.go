package model

import "testing"

func TestGateCapacityUtilization(t *testing.T) {
	w := GateCapacity{MaxSlots: 100, UsedSlots: 95}
	if got := w.Utilization(); got != 0.95 {
		t.Fatalf("expected 0.95 got %f", got)
	}
	if w.Full() {
		t.Fatalf("95/100 should not be full")
	}
	w.UsedSlots = 100
	if !w.Full() {
		t.Fatalf("100/100 should be full")
	}
	if got := (GateCapacity{}).Utilization(); got != 1 {
		t.Fatalf("zero-capacity window should read as fully utilized, got %f", got)
	}
}

func TestAssignmentStatusCanAdvanceTo(t *testing.T) {
	cases := []struct {
		from, to AssignmentStatus
		want     bool
	}{
		{AssignmentNew, AssignmentEnroute, true},
		{AssignmentEnroute, AssignmentArrivedGate, true},
		{AssignmentNew, AssignmentArrivedGate, false},
		{AssignmentArrivedGate, AssignmentEnroute, false},
		{AssignmentDelivered, AssignmentReturned, true},
		{AssignmentReturned, AssignmentReturned, false},
	}
	for _, c := range cases {
		if got := c.from.CanAdvanceTo(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestBookingStatusActive(t *testing.T) {
	for _, s := range []BookingStatus{BookingConfirmed, BookingRescheduled} {
		if !s.Active() {
			t.Errorf("%s should be active", s)
		}
	}
	for _, s := range []BookingStatus{BookingBlocked, BookingCancelled, BookingCompleted} {
		if s.Active() {
			t.Errorf("%s should not be active", s)
		}
	}
}

func TestParseDOStatus(t *testing.T) {
	if s, ok := ParseDOStatus("HOLD"); !ok || s != DOHold {
		t.Fatalf("parse HOLD failed")
	}
	if _, ok := ParseDOStatus("bogus"); ok {
		t.Fatalf("bogus status should not parse")
	}
}

func TestDisruptionAffects(t *testing.T) {
	d := Disruption{AffectedZones: []string{"ZONE_A", "ZONE_B"}}
	if !d.Affects("ZONE_B") {
		t.Fatalf("expected ZONE_B affected")
	}
	if d.Affects("ZONE_C") {
		t.Fatalf("ZONE_C should not be affected")
	}
}

func TestDepotLoadRatio(t *testing.T) {
	d := Depot{Capacity: 500, CurrentLoad: 120}
	if got := d.LoadRatio(); got != 0.24 {
		t.Fatalf("expected 0.24 got %f", got)
	}
	if got := (Depot{}).LoadRatio(); got != 1 {
		t.Fatalf("zero-capacity depot should read as fully loaded, got %f", got)
	}
}
