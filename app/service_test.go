package app

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tannguyen1129/fresh-sync-demo/config"
	coremetrics "github.com/tannguyen1129/fresh-sync-demo/core/metrics"
	infraqueue "github.com/tannguyen1129/fresh-sync-demo/infra/queue"
	"github.com/tannguyen1129/fresh-sync-demo/infra/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Storage: store.Config{Path: filepath.Join(dir, "data.db")},
		Queue:   infraqueue.Config{Path: filepath.Join(dir, "jobs.db")},
	}
}

func TestServiceNewAndClose(t *testing.T) {
	svc, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestServiceClosesStoreAndQueueOnSinkError(t *testing.T) {
	// A collector clashing with the sink's gauge name makes registration
	// fail, which is the first constructor that can error after the store
	// and queue are already open.
	clash := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduling_congestion_risk",
		Help: "clashing schema",
	}, []string{"zone"})
	if err := prometheus.Register(clash); err != nil {
		t.Fatalf("register clash: %v", err)
	}
	t.Cleanup(func() { prometheus.Unregister(clash) })

	cfg := testConfig(t)
	cfg.Metrics = coremetrics.Config{PrometheusEnabled: true}
	if _, err := New(cfg); err == nil || !strings.Contains(err.Error(), "metrics sink") {
		t.Fatalf("err = %v, want metrics sink failure", err)
	}

	// The failed construction must not leave handles behind: once the
	// clash is gone a retry against the same database files succeeds.
	prometheus.Unregister(clash)
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
