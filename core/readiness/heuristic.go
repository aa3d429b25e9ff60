package readiness

import (
	"math/rand"
	"sync"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/model"
)

// Delay bounds of the heuristic, exported so tests can assert the envelope.
const (
	DischargeDelay  = 4 * time.Hour
	MinShuffleDelay = 1 * time.Hour
	MaxShuffleDelay = 6 * time.Hour
	ReeferSurcharge = 2 * time.Hour
)

// HeuristicEstimator implements the yard-rule heuristic:
// CRT = ETA + discharge delay + random yard-shuffle delay + reefer surcharge.
// The shuffle delay is drawn uniformly from [1h,6h] in whole hours.
type HeuristicEstimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewHeuristicEstimator seeds the estimator from the wall clock.
func NewHeuristicEstimator() *HeuristicEstimator {
	return &HeuristicEstimator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededEstimator creates an estimator with a fixed seed for reproducible runs.
func NewSeededEstimator(seed int64) *HeuristicEstimator {
	return &HeuristicEstimator{rng: rand.New(rand.NewSource(seed))}
}

func (e *HeuristicEstimator) Estimate(c model.Container, vesselETA time.Time) time.Time {
	e.mu.Lock()
	shuffleHours := e.rng.Intn(6) + 1
	e.mu.Unlock()

	delay := DischargeDelay + time.Duration(shuffleHours)*time.Hour
	if c.IsReefer {
		delay += ReeferSurcharge
	}
	return vesselETA.Add(delay)
}

// FixedEstimator returns ETA plus a constant offset. Used in tests and
// deterministic replay runs.
type FixedEstimator struct {
	Offset time.Duration
}

func (f FixedEstimator) Estimate(c model.Container, vesselETA time.Time) time.Time {
	return vesselETA.Add(f.Offset)
}
