package model

import "time"

// AssignmentType distinguishes the pickup leg from the empty-return leg.
type AssignmentType int

const (
	AssignmentPickup AssignmentType = iota
	AssignmentReturnEmpty
)

func (t AssignmentType) String() string {
	switch t {
	case AssignmentPickup:
		return "PICKUP"
	case AssignmentReturnEmpty:
		return "RETURN_EMPTY"
	default:
		return "unknown"
	}
}

// AssignmentStatus progresses linearly, no skipping.
type AssignmentStatus int

const (
	AssignmentNew AssignmentStatus = iota
	AssignmentEnroute
	AssignmentArrivedGate
	AssignmentPickedUp
	AssignmentDeparted
	AssignmentDelivered
	AssignmentReturned
)

func (s AssignmentStatus) String() string {
	switch s {
	case AssignmentNew:
		return "NEW"
	case AssignmentEnroute:
		return "ENROUTE"
	case AssignmentArrivedGate:
		return "ARRIVED_GATE"
	case AssignmentPickedUp:
		return "PICKED_UP"
	case AssignmentDeparted:
		return "DEPARTED"
	case AssignmentDelivered:
		return "DELIVERED"
	case AssignmentReturned:
		return "RETURNED"
	default:
		return "unknown"
	}
}

// CanAdvanceTo reports whether next is the immediate successor of s.
func (s AssignmentStatus) CanAdvanceTo(next AssignmentStatus) bool {
	return next == s+1 && next <= AssignmentReturned
}

// Assignment is a unit of driver work tied to a booking.
type Assignment struct {
	ID        string
	BookingID string
	DriverID  string
	Type      AssignmentType
	Status    AssignmentStatus
	Route     RoutePlan
	ActualIn  *time.Time
	ActualOut *time.Time
	UpdatedAt time.Time
}

// DriverStatus mirrors dispatchability of a driver.
type DriverStatus int

const (
	DriverIdle DriverStatus = iota
	DriverAssigned
	DriverDriving
)

func (s DriverStatus) String() string {
	switch s {
	case DriverIdle:
		return "IDLE"
	case DriverAssigned:
		return "ASSIGNED"
	case DriverDriving:
		return "DRIVING"
	default:
		return "unknown"
	}
}

// Driver belongs to a logistics company and carries a last-known position.
type Driver struct {
	ID           string
	CompanyID    string
	Name         string
	LicensePlate string
	Lat          float64
	Lng          float64
	Status       DriverStatus
}
