package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	gateLoadPct       prometheus.Gauge
	yardOccupancyPct  prometheus.Gauge
	activeDisruptions prometheus.Gauge
	congestionRisk    prometheus.Gauge
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Gauge, prometheus.Gauge, prometheus.Gauge, prometheus.Gauge) {
	gate := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "congestion_gate_load_pct",
			Help: "Current gate window utilization in percent",
		},
	)
	yard := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "congestion_yard_occupancy_pct",
			Help: "Average yard zone occupancy in percent",
		},
	)
	disruptions := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "congestion_active_disruptions",
			Help: "Number of currently active disruptions",
		},
	)
	risk := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "congestion_risk_score",
			Help: "Composite congestion risk score",
		},
	)
	return gate, yard, disruptions, risk
}

func init() {
	gateLoadPct, yardOccupancyPct, activeDisruptions, congestionRisk = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers monitor metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(gateLoadPct, yardOccupancyPct, activeDisruptions, congestionRisk)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	gateLoadPct, yardOccupancyPct, activeDisruptions, congestionRisk = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
