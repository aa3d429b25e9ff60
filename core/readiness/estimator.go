// Package readiness predicts when a discharged container becomes available
// for pickup (the container readiness time, CRT).
package readiness

import (
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/model"
)

// Estimator derives a CRT for a container given its vessel's ETA. The
// estimate is allowed to be stochastic: re-running it for the same container
// may yield a different CRT. Callers treat it as a pluggable strategy so a
// trained model can replace the heuristic without touching the engine.
type Estimator interface {
	Estimate(c model.Container, vesselETA time.Time) time.Time
}
