package model

import "time"

// GateCapacityStatus is OPEN or CLOSED; closed windows are never candidates.
type GateCapacityStatus int

const (
	GateOpen GateCapacityStatus = iota
	GateClosed
)

func (s GateCapacityStatus) String() string {
	switch s {
	case GateOpen:
		return "OPEN"
	case GateClosed:
		return "CLOSED"
	default:
		return "unknown"
	}
}

// GateCapacity is a fixed-width gate time window [Start,End) with a bounded
// number of truck slots. UsedSlots must never exceed MaxSlots after a
// successful reservation; the increment is a conditional update.
type GateCapacity struct {
	ID        string
	Start     time.Time
	End       time.Time
	MaxSlots  int
	UsedSlots int
	PeakHour  bool
	Status    GateCapacityStatus
}

// Full reports whether no further reservation can succeed on this window.
func (g GateCapacity) Full() bool { return g.UsedSlots >= g.MaxSlots }

// Utilization returns UsedSlots/MaxSlots, 1.0 for a window without capacity.
func (g GateCapacity) Utilization() float64 {
	if g.MaxSlots <= 0 {
		return 1
	}
	return float64(g.UsedSlots) / float64(g.MaxSlots)
}

// BookingStatus transitions: CONFIRMED is the only entry state; CONFIRMED or
// RESCHEDULED may move to RESCHEDULED, BLOCKED or CANCELLED. BLOCKED and
// CANCELLED are terminal from the engine's perspective.
type BookingStatus int

const (
	BookingConfirmed BookingStatus = iota
	BookingRescheduled
	BookingBlocked
	BookingCancelled
	BookingCompleted
)

func (s BookingStatus) String() string {
	switch s {
	case BookingConfirmed:
		return "CONFIRMED"
	case BookingRescheduled:
		return "RESCHEDULED"
	case BookingBlocked:
		return "BLOCKED"
	case BookingCancelled:
		return "CANCELLED"
	case BookingCompleted:
		return "COMPLETED"
	default:
		return "unknown"
	}
}

// Active reports whether the booking still holds a live slot commitment.
func (s BookingStatus) Active() bool {
	return s == BookingConfirmed || s == BookingRescheduled
}

// Booking links a pickup request to a confirmed gate slot.
type Booking struct {
	ID            string
	RequestID     string
	SlotStart     time.Time
	SlotEnd       time.Time
	Status        BookingStatus
	BlockedReason string
	UpdatedAt     time.Time
}
