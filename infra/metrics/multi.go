package metrics

import coremetrics "github.com/tannguyen1129/fresh-sync-demo/core/metrics"

// MultiSink fanouts scheduling events to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordReservation forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordReservation(ev coremetrics.ReservationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordReservation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordRecommendation forwards recommendation events.
func (m *MultiSink) RecordRecommendation(ev coremetrics.RecommendationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.RecommendationRecorder); ok {
			if err := rec.RecordRecommendation(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordReoptimization forwards disruption job events.
func (m *MultiSink) RecordReoptimization(ev coremetrics.ReoptimizationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ReoptimizationRecorder); ok {
			if err := rec.RecordReoptimization(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordCongestion forwards monitor snapshots.
func (m *MultiSink) RecordCongestion(ev coremetrics.CongestionSample) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.CongestionRecorder); ok {
			if err := rec.RecordCongestion(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
