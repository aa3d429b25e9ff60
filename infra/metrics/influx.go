package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/tannguyen1129/fresh-sync-demo/core/metrics"
	"github.com/tannguyen1129/fresh-sync-demo/infra/logger"
)

// InfluxSink writes scheduling events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordReservation writes one reservation attempt as line protocol.
func (s *InfluxSink) RecordReservation(ev coremetrics.ReservationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("slot_reservation").
		AddTag("request_id", ev.RequestID).
		AddTag("outcome", ev.Outcome).
		AddTag("component", "orchestration").
		AddField("slot_start", ev.SlotStart.Unix()).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRecommendation writes a recommendation with its risk score.
func (s *InfluxSink) RecordRecommendation(ev coremetrics.RecommendationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("slot_recommendation").
		AddTag("request_id", ev.RequestID).
		AddTag("priority", strconv.FormatBool(ev.Priority)).
		AddTag("component", "orchestration").
		AddField("risk_score", round3(ev.RiskScore)).
		AddField("slot_start", ev.SlotStart.Unix()).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordReoptimization writes the outcome of one disruption job.
func (s *InfluxSink) RecordReoptimization(ev coremetrics.ReoptimizationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("reoptimization_job").
		AddTag("disruption_id", ev.DisruptionID).
		AddTag("disruption_type", ev.DisruptionType).
		AddTag("component", "orchestration").
		AddField("impacted", ev.Impacted).
		AddField("rescheduled", ev.Rescheduled).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCongestion writes a monitor snapshot.
func (s *InfluxSink) RecordCongestion(ev coremetrics.CongestionSample) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("congestion_snapshot").
		AddTag("risk_level", ev.RiskLevel).
		AddTag("component", "monitor").
		AddField("gate_load_pct", round3(ev.GateLoadPct)).
		AddField("avg_yard_occupancy", round3(ev.AvgYardOccupancy)).
		AddField("active_disruptions", ev.ActiveDisruptions).
		AddField("risk_score", round3(ev.RiskScore)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
