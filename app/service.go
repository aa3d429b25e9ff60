// Package app wires the storage, queue, notification and metrics adapters to
// the orchestration engine and the congestion monitor.
package app

import (
	"context"
	"fmt"

	"github.com/tannguyen1129/fresh-sync-demo/config"
	"github.com/tannguyen1129/fresh-sync-demo/core/events"
	"github.com/tannguyen1129/fresh-sync-demo/core/monitor"
	"github.com/tannguyen1129/fresh-sync-demo/core/orchestration"
	"github.com/tannguyen1129/fresh-sync-demo/core/readiness"
	"github.com/tannguyen1129/fresh-sync-demo/infra/logger"
	"github.com/tannguyen1129/fresh-sync-demo/infra/metrics"
	"github.com/tannguyen1129/fresh-sync-demo/infra/notify"
	infraqueue "github.com/tannguyen1129/fresh-sync-demo/infra/queue"
	"github.com/tannguyen1129/fresh-sync-demo/infra/store"
	"github.com/tannguyen1129/fresh-sync-demo/internal/eventbus"
)

// Service bundles the running pieces of the scheduling system.
type Service struct {
	Engine  *orchestration.Engine
	Monitor *monitor.Sampler
	Store   *store.SQLiteStore
	Queue   *infraqueue.SQLiteQueue

	worker      *infraqueue.Worker
	bus         eventbus.EventBus
	mqtt        *notify.MQTTEmitter
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	st, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	q, err := infraqueue.NewSQLiteQueue(cfg.Queue)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("open queue: %w", err)
	}

	bus := eventbus.New()
	var emitter events.Emitter = notify.NewBusEmitter(bus)
	var mqttEmitter *notify.MQTTEmitter
	if cfg.MQTT.Enabled {
		mqttEmitter, err = notify.NewMQTTEmitter(cfg.MQTT)
		if err != nil {
			_ = st.Close()
			_ = q.Close()
			return nil, fmt.Errorf("mqtt emitter: %w", err)
		}
		emitter = notify.NewMultiEmitter(emitter, mqttEmitter)
	}

	closeAll := func() {
		if mqttEmitter != nil {
			mqttEmitter.Close()
		}
		_ = q.Close()
		_ = st.Close()
	}

	sink, err := metrics.NewSinkFromConfig(cfg.Metrics)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	engine, err := orchestration.New(cfg.Engine, orchestration.Deps{
		Store:     st,
		Queue:     q,
		Emitter:   emitter,
		Estimator: readiness.NewHeuristicEstimator(),
		Sink:      sink,
		Logger:    logger.New("engine"),
	})
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("engine: %w", err)
	}

	sampler := monitor.New(cfg.Monitor, st, emitter, sink, logger.New("monitor"))
	worker := infraqueue.NewWorker(q, engine, logger.New("worker"))

	return &Service{
		Engine:      engine,
		Monitor:     sampler,
		Store:       st,
		Queue:       q,
		worker:      worker,
		bus:         bus,
		mqtt:        mqttEmitter,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Run starts the worker, the congestion monitor and the metrics endpoint and
// blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.worker.Run(ctx)
	go s.Monitor.Run(ctx)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	s.log.Infof("scheduling service running")
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.mqtt != nil {
		s.mqtt.Close()
	}
	if err := s.Queue.Close(); err != nil {
		return err
	}
	return s.Store.Close()
}
