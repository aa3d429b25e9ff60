package notify

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/tannguyen1129/fresh-sync-demo/infra/logger"
)

// MQTTConfig defines the connection parameters for the Paho MQTT emitter.
type MQTTConfig struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	UseTLS      bool   `json:"use_tls"`
	CABundle    string `json:"ca_bundle"`
	ClientCert  string `json:"client_cert"`
	ClientKey   string `json:"client_key"`
}

// SetDefaults applies connection defaults.
func (c *MQTTConfig) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "freshsync-engine"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "freshsync/events"
	}
}

// MQTTEmitter publishes engine events as JSON to <prefix>/<event>.
type MQTTEmitter struct {
	cli    paho.Client
	prefix string
	qos    byte
	log    logger.Logger
}

// NewMQTTEmitter connects to the broker and returns the emitter.
func NewMQTTEmitter(cfg MQTTConfig) (*MQTTEmitter, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := newTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}

	log := logger.New("mqtt_emitter")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &MQTTEmitter{
		cli:    cli,
		prefix: strings.TrimSuffix(cfg.TopicPrefix, "/"),
		qos:    cfg.QoS,
		log:    log,
	}, nil
}

// Emit serializes the payload and publishes it. Failures are logged; event
// delivery is best-effort and never blocks the engine on the broker.
func (e *MQTTEmitter) Emit(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		e.log.Errorf("marshal %s: %v", event, err)
		return
	}
	topic := e.prefix + "/" + event
	token := e.cli.Publish(topic, e.qos, false, data)
	go func() {
		if token.Wait() && token.Error() != nil {
			e.log.Errorf("publish %s: %v", topic, token.Error())
		}
	}()
}

// Close disconnects from the broker.
func (e *MQTTEmitter) Close() {
	e.cli.Disconnect(250)
}

func newTLSConfig(cfg MQTTConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.CABundle != "" {
		pem, err := os.ReadFile(cfg.CABundle)
		if err != nil {
			return nil, fmt.Errorf("read ca bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("invalid ca bundle %s", cfg.CABundle)
		}
		tlsCfg.RootCAs = pool
	}
	if cfg.ClientCert != "" && cfg.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return tlsCfg, nil
}
