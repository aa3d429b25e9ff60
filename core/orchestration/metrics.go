package orchestration

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	recommendationsTotal *prometheus.CounterVec
	recommendationRisk   prometheus.Histogram
	reservationsTotal    *prometheus.CounterVec
	rescheduledTotal     prometheus.Counter
	reoptJobsTotal       *prometheus.CounterVec
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Histogram, *prometheus.CounterVec, prometheus.Counter, *prometheus.CounterVec) {
	rec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_recommendations_total",
			Help: "Number of slot recommendation attempts",
		},
		[]string{"outcome"},
	)
	risk := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "slot_recommendation_risk",
			Help:    "Risk score of recommended slots",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
	res := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_reservations_total",
			Help: "Number of reservation attempts by outcome",
		},
		[]string{"outcome"},
	)
	resch := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_rescheduled_total",
			Help: "Number of bookings shifted by disruption re-optimization",
		},
	)
	jobs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reoptimization_jobs_total",
			Help: "Number of re-optimization jobs by result",
		},
		[]string{"result"},
	)
	return rec, risk, res, resch, jobs
}

func init() {
	recommendationsTotal, recommendationRisk, reservationsTotal, rescheduledTotal, reoptJobsTotal = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers engine metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(recommendationsTotal, recommendationRisk, reservationsTotal, rescheduledTotal, reoptJobsTotal)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	recommendationsTotal, recommendationRisk, reservationsTotal, rescheduledTotal, reoptJobsTotal = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
