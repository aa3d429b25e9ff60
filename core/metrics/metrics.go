// Package metrics defines the observability ports the engine records into.
// Concrete sinks (Prometheus, InfluxDB) live under infra/metrics.
package metrics

import "time"

// ReservationEvent captures the outcome of one reservation attempt.
type ReservationEvent struct {
	RequestID string
	SlotStart time.Time
	Outcome   string // "confirmed", "slot_full", "slot_not_found", "no_driver", "conflict"
	Time      time.Time
}

// RecommendationEvent captures one slot recommendation.
type RecommendationEvent struct {
	RequestID string
	RiskScore float64
	SlotStart time.Time
	Priority  bool
	Time      time.Time
}

// ReoptimizationEvent captures one processed disruption job.
type ReoptimizationEvent struct {
	DisruptionID   string
	DisruptionType string
	Impacted       int
	Rescheduled    int
	Time           time.Time
}

// CongestionSample is a point-in-time load snapshot from the monitor.
type CongestionSample struct {
	GateLoadPct       float64
	AvgYardOccupancy  float64
	ActiveDisruptions int
	RiskScore         float64
	RiskLevel         string
	Time              time.Time
}

// MetricsSink records reservation outcomes. Additional recorders are
// discovered via type assertion, mirroring how sinks opt into extra events.
type MetricsSink interface {
	RecordReservation(ev ReservationEvent) error
}

// RecommendationRecorder records slot recommendations.
type RecommendationRecorder interface {
	RecordRecommendation(ev RecommendationEvent) error
}

// ReoptimizationRecorder records processed disruption jobs.
type ReoptimizationRecorder interface {
	RecordReoptimization(ev ReoptimizationEvent) error
}

// CongestionRecorder records monitor samples.
type CongestionRecorder interface {
	RecordCongestion(ev CongestionSample) error
}

// NopSink implements all recorder interfaces with no-op methods.
type NopSink struct{}

func (NopSink) RecordReservation(ReservationEvent) error       { return nil }
func (NopSink) RecordRecommendation(RecommendationEvent) error { return nil }
func (NopSink) RecordReoptimization(ReoptimizationEvent) error { return nil }
func (NopSink) RecordCongestion(CongestionSample) error        { return nil }
