package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/tannguyen1129/fresh-sync-demo/core/metrics"
)

// PromSink records scheduling events in Prometheus metrics.
type PromSink struct {
	reservations   *prometheus.CounterVec
	riskScores     *prometheus.HistogramVec
	reoptimization *prometheus.CounterVec
	congestion     prometheus.Gauge
}

// NewPromSink registers scheduling metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reservations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduling_reservations_total",
		Help: "Total number of reservation attempts",
	}, []string{"outcome"})
	riskScores := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheduling_recommendation_risk_score",
		Help:    "Risk score distribution of recommended slots",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	}, []string{"priority"})
	reoptimization := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduling_reoptimized_bookings_total",
		Help: "Bookings rescheduled per disruption type",
	}, []string{"disruption_type"})
	congestion := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scheduling_congestion_risk",
		Help: "Latest composite congestion risk score",
	})

	if err := reg.Register(reservations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			reservations = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(riskScores); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			riskScores = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(reoptimization); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			reoptimization = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(congestion); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			congestion = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		reservations:   reservations,
		riskScores:     riskScores,
		reoptimization: reoptimization,
		congestion:     congestion,
	}, nil
}

// RecordReservation increments the counter for one reservation attempt.
func (s *PromSink) RecordReservation(ev coremetrics.ReservationEvent) error {
	s.reservations.WithLabelValues(ev.Outcome).Inc()
	return nil
}

// RecordRecommendation observes the recommended slot's risk score.
func (s *PromSink) RecordRecommendation(ev coremetrics.RecommendationEvent) error {
	s.riskScores.WithLabelValues(strconv.FormatBool(ev.Priority)).Observe(ev.RiskScore)
	return nil
}

// RecordReoptimization counts rescheduled bookings per disruption type.
func (s *PromSink) RecordReoptimization(ev coremetrics.ReoptimizationEvent) error {
	s.reoptimization.WithLabelValues(ev.DisruptionType).Add(float64(ev.Rescheduled))
	return nil
}

// RecordCongestion publishes the latest composite risk score.
func (s *PromSink) RecordCongestion(ev coremetrics.CongestionSample) error {
	s.congestion.Set(ev.RiskScore)
	return nil
}
