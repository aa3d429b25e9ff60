package model

import "time"

// RequestStatus tracks a pickup request from creation to confirmation.
type RequestStatus int

const (
	RequestCreated RequestStatus = iota
	RequestRecommended
	RequestConfirmed
)

func (s RequestStatus) String() string {
	switch s {
	case RequestCreated:
		return "CREATED"
	case RequestRecommended:
		return "RECOMMENDED"
	case RequestConfirmed:
		return "CONFIRMED"
	default:
		return "unknown"
	}
}

// PickupRequest is created by a logistics company for one container.
type PickupRequest struct {
	ID            string
	CompanyID     string
	ContainerID   string
	RequestedTime *time.Time
	Priority      bool
	Status        RequestStatus
	CreatedAt     time.Time
}

// RoutePlan is a placeholder route payload. Real routing is out of scope;
// pickup routes carry a fixed step sequence, empty returns carry the depot.
type RoutePlan struct {
	Steps       []string `json:"steps,omitempty"`
	Destination string   `json:"destination,omitempty"`
	Lat         float64  `json:"lat,omitempty"`
	Lng         float64  `json:"lng,omitempty"`
	DistanceKm  float64  `json:"distance_km,omitempty"`
}

// Recommendation is the engine's proposed slot for a request. It is upserted,
// keyed by request: recomputation replaces rather than appends.
type Recommendation struct {
	ID          string
	RequestID   string
	SlotStart   time.Time
	SlotEnd     time.Time
	RiskScore   float64 // 0-100, lower is better
	Explanation string
	Route       RoutePlan
}
