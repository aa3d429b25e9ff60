package geo

import (
	"math"
	"testing"
)

func TestDistanceKmZero(t *testing.T) {
	p := Point{Lat: 10.762622, Lng: 106.660172}
	if d := DistanceKm(p, p); d != 0 {
		t.Fatalf("expected 0 got %f", d)
	}
}

func TestDistanceKmKnown(t *testing.T) {
	// Tan Thuan to Cat Lai, roughly 4.4 km.
	a := Point{Lat: 10.762622, Lng: 106.660172}
	b := Point{Lat: 10.770000, Lng: 106.700000}
	d := DistanceKm(a, b)
	if d < 4 || d > 5 {
		t.Fatalf("unexpected distance %f", d)
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := Point{Lat: 10.845, Lng: 106.810}
	b := Point{Lat: 10.650, Lng: 106.750}
	if d1, d2 := DistanceKm(a, b), DistanceKm(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("asymmetric distance: %f vs %f", d1, d2)
	}
}

func TestCost(t *testing.T) {
	if c := Cost(10, 0.5, 10); c != 15 {
		t.Fatalf("expected 15 got %f", c)
	}
	if c := Cost(10, 0, 10); c != 10 {
		t.Fatalf("expected 10 got %f", c)
	}
}
