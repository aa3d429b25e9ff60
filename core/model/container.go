package model

import "time"

// VesselStatus describes where a vessel is in its port call.
type VesselStatus int

const (
	VesselExpected VesselStatus = iota
	VesselBerthed
	VesselDischarging
	VesselDeparted
)

func (s VesselStatus) String() string {
	switch s {
	case VesselExpected:
		return "EXPECTED"
	case VesselBerthed:
		return "BERTHED"
	case VesselDischarging:
		return "DISCHARGING"
	case VesselDeparted:
		return "DEPARTED"
	default:
		return "unknown"
	}
}

// Vessel is created by integration ingestion and mutated when delay notices arrive.
type Vessel struct {
	ID     string
	Code   string
	Name   string
	ETA    time.Time
	ATA    time.Time
	ETD    time.Time
	Status VesselStatus
}

// ContainerStatus tracks a container through discharge and pickup.
type ContainerStatus int

const (
	ContainerOnVessel ContainerStatus = iota
	ContainerDischarged
	ContainerInYard
	ContainerPickedUp
	ContainerReturned
)

func (s ContainerStatus) String() string {
	switch s {
	case ContainerOnVessel:
		return "ON_VESSEL"
	case ContainerDischarged:
		return "DISCHARGED"
	case ContainerInYard:
		return "IN_YARD"
	case ContainerPickedUp:
		return "PICKED_UP"
	case ContainerReturned:
		return "RETURNED"
	default:
		return "unknown"
	}
}

// Container belongs to a vessel and sits in a yard zone once discharged.
// CRT is the predicted readiness time, recomputed by the readiness estimator.
type Container struct {
	ID       string
	No       string
	Size     string // "20", "40", "45"
	IsReefer bool
	VesselID string
	YardZone string
	CRT      *time.Time
	Status   ContainerStatus
}

// DOStatus is the delivery order status. HOLD is a hard gate: no active
// booking for the container may proceed while the order is on HOLD.
type DOStatus int

const (
	DOReleased DOStatus = iota
	DOHold
	DOExpired
)

func (s DOStatus) String() string {
	switch s {
	case DOReleased:
		return "RELEASED"
	case DOHold:
		return "HOLD"
	case DOExpired:
		return "EXPIRED"
	default:
		return "unknown"
	}
}

// ParseDOStatus maps the wire representation used by shipping line feeds.
func ParseDOStatus(s string) (DOStatus, bool) {
	switch s {
	case "RELEASED":
		return DOReleased, true
	case "HOLD":
		return DOHold, true
	case "EXPIRED":
		return DOExpired, true
	default:
		return 0, false
	}
}

// DeliveryOrder is one-to-one with a container.
type DeliveryOrder struct {
	ID          string
	ContainerID string
	Status      DOStatus
	ValidUntil  time.Time
}
