// Package events defines the notification events emitted by the engine and
// the narrow Emitter interface the core calls. The core never reaches for a
// process-wide broadcaster; it only calls the injected Emitter.
package events

import "time"

// Event names on the notification channel.
const (
	BookingUpdated          = "booking.updated"
	DisruptionCreated       = "disruption.created"
	DriverAssignmentCreated = "driver.assignment.created"
	DriverAssignmentUpdated = "driver.assignment.updated"
	CongestionUpdated       = "dashboard.congestion.updated"
	NotificationCreated     = "notification.created"
)

// Emitter pushes a named event with a JSON-serializable payload to
// subscribers. Implementations must not block the caller.
type Emitter interface {
	Emit(event string, payload any)
}

// NopEmitter discards all events.
type NopEmitter struct{}

func (NopEmitter) Emit(string, any) {}

// BookingUpdatedPayload is emitted after a reservation transaction commits or
// a booking is rescheduled or blocked.
type BookingUpdatedPayload struct {
	BookingID   string `json:"booking_id"`
	RequestID   string `json:"request_id"`
	NewStatus   string `json:"new_status"`
	Reason      string `json:"reason,omitempty"`
	SlotStart   string `json:"slot_start,omitempty"`
	SlotEnd     string `json:"slot_end,omitempty"`
	ContainerNo string `json:"container_no"`
}

// DisruptionCreatedPayload announces a new disruption to dashboards.
type DisruptionCreatedPayload struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Severity      string   `json:"severity"`
	Description   string   `json:"description"`
	AffectedZones []string `json:"affected_zones"`
}

// AssignmentPayload describes a driver work item.
type AssignmentPayload struct {
	AssignmentID string  `json:"assignment_id"`
	Type         string  `json:"type"`
	ContainerNo  string  `json:"container_no"`
	Destination  string  `json:"destination,omitempty"`
	Lat          float64 `json:"lat,omitempty"`
	Lng          float64 `json:"lng,omitempty"`
}

// CongestionPayload is the monitor's periodic snapshot.
type CongestionPayload struct {
	Timestamp         time.Time          `json:"timestamp"`
	GateLoadPct       float64            `json:"gate_load_pct"`
	YardOccupancy     map[string]float64 `json:"yard_occupancy"`
	ActiveDisruptions int                `json:"active_disruptions"`
	RiskLevel         string             `json:"risk_level"`
}

// NotificationPayload mirrors a persisted notification row.
type NotificationPayload struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}
