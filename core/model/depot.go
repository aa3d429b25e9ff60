package model

// DepotStatus is OPEN or CLOSED; closed depots are never selected.
type DepotStatus int

const (
	DepotOpen DepotStatus = iota
	DepotClosed
)

func (s DepotStatus) String() string {
	switch s {
	case DepotOpen:
		return "OPEN"
	case DepotClosed:
		return "CLOSED"
	default:
		return "unknown"
	}
}

// Depot is a candidate destination for empty-container returns.
type Depot struct {
	ID          string
	Name        string
	Lat         float64
	Lng         float64
	Capacity    int
	CurrentLoad int
	Status      DepotStatus
}

// LoadRatio returns CurrentLoad/Capacity, 1.0 for a depot without capacity.
func (d Depot) LoadRatio() float64 {
	if d.Capacity <= 0 {
		return 1
	}
	return float64(d.CurrentLoad) / float64(d.Capacity)
}

// EmptyReturnInstruction is the shipping line's per-container allow-list of
// depots. Consumed, never created, by the empty-return selector.
type EmptyReturnInstruction struct {
	ID            string
	ContainerID   string
	AllowedDepots []string
	Notes         string
}
