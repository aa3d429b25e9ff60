package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `storage:
  path: "/tmp/freshsync.db"
queue:
  path: "/tmp/freshsync-jobs.db"
  poll_interval_seconds: 5
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "cli"
  topic_prefix: "port/events"
metrics:
  prometheus_enabled: true
  prometheus_port: ":9100"
engine:
  horizon_hours: 24
  reschedule_offset_hours: 3
monitor:
  interval_seconds: 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"storage.path", cfg.Storage.Path, "/tmp/freshsync.db"},
		{"queue.path", cfg.Queue.Path, "/tmp/freshsync-jobs.db"},
		{"queue.poll_interval_seconds", cfg.Queue.PollIntervalSeconds, 5},
		{"mqtt.enabled", cfg.MQTT.Enabled, true},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.client_id", cfg.MQTT.ClientID, "cli"},
		{"mqtt.topic_prefix", cfg.MQTT.TopicPrefix, "port/events"},
		{"metrics.prometheus_port", cfg.Metrics.PrometheusPort, ":9100"},
		{"engine.horizon_hours", cfg.Engine.HorizonHours, 24},
		{"engine.reschedule_offset_hours", cfg.Engine.RescheduleOffsetHours, 3},
		{"monitor.interval_seconds", cfg.Monitor.IntervalSeconds, 10},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "engine": {"horizon_hours": 12},
  "queue": {"lease_seconds": 120}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Engine.HorizonHours != 12 {
		t.Errorf("horizon_hours = %d, want 12", cfg.Engine.HorizonHours)
	}
	if cfg.Queue.LeaseSeconds != 120 {
		t.Errorf("lease_seconds = %d, want 120", cfg.Queue.LeaseSeconds)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", `engine: {}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Engine.HorizonHours != 48 {
		t.Errorf("horizon_hours = %d, want the 48h default", cfg.Engine.HorizonHours)
	}
	if cfg.Engine.PeakPenalty != 40 {
		t.Errorf("peak_penalty = %v, want 40", cfg.Engine.PeakPenalty)
	}
	if cfg.Storage.Path == "" {
		t.Error("storage path default missing")
	}
	if cfg.Metrics.PrometheusPort != ":9090" {
		t.Errorf("prometheus_port = %q, want :9090", cfg.Metrics.PrometheusPort)
	}
	if cfg.Monitor.IntervalSeconds != 30 {
		t.Errorf("interval_seconds = %d, want 30", cfg.Monitor.IntervalSeconds)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `engine:
  horizon_hours: 24
`)
	t.Setenv("FS_ENGINE__HORIZON_HOURS", "6")
	t.Setenv("FS_STORAGE__PATH", "/tmp/override.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Engine.HorizonHours != 6 {
		t.Errorf("horizon_hours = %d, want the env override 6", cfg.Engine.HorizonHours)
	}
	if cfg.Storage.Path != "/tmp/override.db" {
		t.Errorf("storage path = %q, want the env override", cfg.Storage.Path)
	}
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", `x = 1`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
}

func TestLoadValidates(t *testing.T) {
	path := writeConfig(t, "config.yaml", `mqtt:
  enabled: true
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for mqtt without a broker")
	}

	path = writeConfig(t, "config.yaml", `metrics:
  influx_enabled: true
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for influx without a url")
	}
}
