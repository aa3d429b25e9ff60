// Package geo provides the pure scoring primitives shared by slot
// recommendation and empty-return depot selection.
package geo

import "math"

// earthRadiusKm is the sphere-model Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// DistanceKm returns the great-circle distance between two points in
// kilometers using the haversine formula. Deterministic for given inputs.
func DistanceKm(a, b Point) float64 {
	dLat := rad(b.Lat - a.Lat)
	dLng := rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// Cost combines distance with a facility load ratio. A fully loaded facility
// (ratio 1.0) is penalized as if it were loadWeight kilometers farther away.
func Cost(distanceKm, loadRatio, loadWeight float64) float64 {
	return distanceKm + loadRatio*loadWeight
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
