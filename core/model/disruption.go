package model

import "time"

// DisruptionType classifies the event driving re-optimization.
type DisruptionType int

const (
	DisruptionCommercialHold DisruptionType = iota
	DisruptionSystemMaintenance
	DisruptionGateCongestion
	DisruptionCraneBreakdown
)

func (t DisruptionType) String() string {
	switch t {
	case DisruptionCommercialHold:
		return "COMMERCIAL_HOLD"
	case DisruptionSystemMaintenance:
		return "SYSTEM_MAINTENANCE"
	case DisruptionGateCongestion:
		return "GATE_CONGESTION"
	case DisruptionCraneBreakdown:
		return "CRANE_BREAKDOWN"
	default:
		return "unknown"
	}
}

// ParseDisruptionType maps the wire representation used by TOS feeds.
func ParseDisruptionType(s string) (DisruptionType, bool) {
	switch s {
	case "COMMERCIAL_HOLD":
		return DisruptionCommercialHold, true
	case "SYSTEM_MAINTENANCE":
		return DisruptionSystemMaintenance, true
	case "GATE_CONGESTION":
		return DisruptionGateCongestion, true
	case "CRANE_BREAKDOWN":
		return DisruptionCraneBreakdown, true
	default:
		return 0, false
	}
}

// Severity grades a disruption.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "unknown"
	}
}

// Disruption is a time-bounded event affecting one or more yard/gate zones.
type Disruption struct {
	ID            string
	Type          DisruptionType
	Severity      Severity
	Start         time.Time
	End           time.Time
	AffectedZones []string
	Description   string
	Active        bool
}

// Affects reports whether the given yard zone is in the affected list.
func (d Disruption) Affects(zone string) bool {
	for _, z := range d.AffectedZones {
		if z == zone {
			return true
		}
	}
	return false
}

// YardStatus is a per-zone occupancy sample ingested from the TOS.
type YardStatus struct {
	Zone         string
	OccupancyPct float64
	UpdatedAt    time.Time
}
