package orchestration

// Config defines the engine's scheduling parameters loaded from configuration.
type Config struct {
	// HorizonHours bounds the candidate slot scan after the predicted CRT.
	HorizonHours int `json:"horizon_hours"`
	// CandidateLimit caps how many open windows are scored per request.
	CandidateLimit int `json:"candidate_limit"`
	// PeakPenalty is the risk added to peak-hour windows.
	PeakPenalty float64 `json:"peak_penalty"`
	// UtilizationWeight scales usedSlots/maxSlots into risk points.
	UtilizationWeight float64 `json:"utilization_weight"`
	// PriorityMitigation is subtracted from peak-hour risk for priority requests.
	PriorityMitigation float64 `json:"priority_mitigation"`
	// RescheduleOffsetHours is the conservative forward shift applied to
	// bookings impacted by a disruption.
	RescheduleOffsetHours int `json:"reschedule_offset_hours"`
	// DepotLoadWeight converts a depot's load ratio into equivalent kilometers.
	DepotLoadWeight float64 `json:"depot_load_weight"`
	// ManualBlockHours is the default duration of an operator zone/gate block.
	ManualBlockHours int `json:"manual_block_hours"`
}

// SetDefaults applies the documented scheduling rules.
func (c *Config) SetDefaults() {
	if c.HorizonHours <= 0 {
		c.HorizonHours = 48
	}
	if c.CandidateLimit <= 0 {
		c.CandidateLimit = 10
	}
	if c.PeakPenalty == 0 {
		c.PeakPenalty = 40
	}
	if c.UtilizationWeight == 0 {
		c.UtilizationWeight = 50
	}
	if c.PriorityMitigation == 0 {
		c.PriorityMitigation = 20
	}
	if c.RescheduleOffsetHours <= 0 {
		c.RescheduleOffsetHours = 2
	}
	if c.DepotLoadWeight == 0 {
		c.DepotLoadWeight = 10
	}
	if c.ManualBlockHours <= 0 {
		c.ManualBlockHours = 2
	}
}
