// Package config loads the engine configuration from JSON or YAML files with
// optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	coremetrics "github.com/tannguyen1129/fresh-sync-demo/core/metrics"
	"github.com/tannguyen1129/fresh-sync-demo/core/monitor"
	"github.com/tannguyen1129/fresh-sync-demo/core/orchestration"
	"github.com/tannguyen1129/fresh-sync-demo/infra/notify"
	infraqueue "github.com/tannguyen1129/fresh-sync-demo/infra/queue"
	"github.com/tannguyen1129/fresh-sync-demo/infra/store"
)

type Config struct {
	Storage store.Config         `json:"storage"`
	Queue   infraqueue.Config    `json:"queue"`
	MQTT    notify.MQTTConfig    `json:"mqtt"`
	Metrics coremetrics.Config   `json:"metrics"`
	Engine  orchestration.Config `json:"engine"`
	Monitor monitor.Config       `json:"monitor"`
}

// Load reads the file at path, applies FS_-prefixed environment overrides
// (FS_ENGINE__HORIZON_HOURS sets engine.horizon_hours) and fills defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("FS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fs_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section's defaults.
func (c *Config) SetDefaults() {
	c.Storage.SetDefaults()
	c.Queue.SetDefaults()
	c.MQTT.SetDefaults()
	c.Metrics.SetDefaults()
	c.Engine.SetDefaults()
	c.Monitor.SetDefaults()
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt enabled without a broker")
	}
	if c.Metrics.InfluxEnabled && c.Metrics.InfluxURL == "" {
		return fmt.Errorf("influx enabled without a url")
	}
	return nil
}
