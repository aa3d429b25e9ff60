// Package monitor computes the periodic port congestion snapshot. The sampler
// only reads: it never mutates bookings, windows or disruptions. Acting on
// congestion is the orchestration engine's and the operators' job.
package monitor

import (
	"context"
	"errors"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/tannguyen1129/fresh-sync-demo/core/events"
	"github.com/tannguyen1129/fresh-sync-demo/core/logger"
	coremetrics "github.com/tannguyen1129/fresh-sync-demo/core/metrics"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// Risk weights and thresholds of the composite congestion score.
const (
	gateWeight       = 0.4
	yardWeight       = 0.4
	disruptionWeight = 10.0

	criticalThreshold = 80.0
	highThreshold     = 50.0
	mediumThreshold   = 30.0
)

// Snapshot is one congestion sample.
type Snapshot struct {
	Timestamp         time.Time
	GateLoadPct       float64
	YardOccupancy     map[string]float64
	AvgYardOccupancy  float64
	ActiveDisruptions int
	RiskScore         float64
	RiskLevel         string
}

// Config holds the sampler settings.
type Config struct {
	IntervalSeconds int `json:"interval_seconds"`
}

// SetDefaults applies the default sampling cadence.
func (c *Config) SetDefaults() {
	if c.IntervalSeconds <= 0 {
		c.IntervalSeconds = 30
	}
}

// Sampler periodically reads gate and yard load and publishes a congestion
// snapshot to dashboards and metric sinks.
type Sampler struct {
	store   storage.Store
	emitter events.Emitter
	sink    coremetrics.MetricsSink
	log     logger.Logger
	cfg     Config
	now     func() time.Time
}

// New creates a Sampler. Sink may be nil.
func New(cfg Config, store storage.Store, emitter events.Emitter, sink coremetrics.MetricsSink, log logger.Logger) *Sampler {
	cfg.SetDefaults()
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Sampler{
		store:   store,
		emitter: emitter,
		sink:    sink,
		log:     log,
		cfg:     cfg,
		now:     time.Now,
	}
}

// SetClock overrides the sampler's clock. Intended for tests.
func (s *Sampler) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Run samples on the configured interval until the context is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(s.cfg.IntervalSeconds) * time.Second)
	defer ticker.Stop()
	s.log.Infof("congestion sampler running every %ds", s.cfg.IntervalSeconds)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sample(ctx); err != nil {
				s.log.Errorf("congestion sample: %v", err)
			}
		}
	}
}

// Sample computes one snapshot and publishes it. The score is a weighted sum
// of gate utilization, average yard occupancy and the active disruption
// count; levels map fixed thresholds so dashboards stay comparable over time.
func (s *Sampler) Sample(ctx context.Context) (Snapshot, error) {
	now := s.now()

	var gatePct float64
	window, err := s.store.GateWindowAt(ctx, now)
	switch {
	case err == nil:
		gatePct = window.Utilization() * 100
	case errors.Is(err, storage.ErrNotFound):
		// No window covering this instant means the gate is closed.
		gatePct = 0
	default:
		return Snapshot{}, err
	}

	statuses, err := s.store.YardStatuses(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	occupancy := make(map[string]float64, len(statuses))
	values := make([]float64, 0, len(statuses))
	for _, ys := range statuses {
		occupancy[ys.Zone] = ys.OccupancyPct
		values = append(values, ys.OccupancyPct)
	}
	var avgOcc float64
	if len(values) > 0 {
		avgOcc = stat.Mean(values, nil)
	}

	disruptions, err := s.store.CountActiveDisruptions(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	score := gatePct*gateWeight + avgOcc*yardWeight + float64(disruptions)*disruptionWeight
	snap := Snapshot{
		Timestamp:         now,
		GateLoadPct:       gatePct,
		YardOccupancy:     occupancy,
		AvgYardOccupancy:  avgOcc,
		ActiveDisruptions: disruptions,
		RiskScore:         score,
		RiskLevel:         riskLevel(score),
	}

	gateLoadPct.Set(gatePct)
	yardOccupancyPct.Set(avgOcc)
	activeDisruptions.Set(float64(disruptions))
	congestionRisk.Set(score)

	s.emitter.Emit(events.CongestionUpdated, events.CongestionPayload{
		Timestamp:         snap.Timestamp,
		GateLoadPct:       snap.GateLoadPct,
		YardOccupancy:     snap.YardOccupancy,
		ActiveDisruptions: snap.ActiveDisruptions,
		RiskLevel:         snap.RiskLevel,
	})
	if r, ok := s.sink.(coremetrics.CongestionRecorder); ok {
		if err := r.RecordCongestion(coremetrics.CongestionSample{
			GateLoadPct:       snap.GateLoadPct,
			AvgYardOccupancy:  snap.AvgYardOccupancy,
			ActiveDisruptions: snap.ActiveDisruptions,
			RiskScore:         snap.RiskScore,
			RiskLevel:         snap.RiskLevel,
			Time:              snap.Timestamp,
		}); err != nil {
			s.log.Errorf("congestion metrics: %v", err)
		}
	}
	return snap, nil
}

func riskLevel(score float64) string {
	switch {
	case score > criticalThreshold:
		return "CRITICAL"
	case score > highThreshold:
		return "HIGH"
	case score > mediumThreshold:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
