package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	coremetrics "github.com/tannguyen1129/fresh-sync-demo/core/metrics"
	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// scoredSlot is one candidate window with its computed congestion risk.
type scoredSlot struct {
	window      model.GateCapacity
	risk        float64
	explanation string
}

// scoreWindow computes the congestion risk of a candidate window in [0,100].
// Full windows always score 100 so they can never beat a non-full candidate.
func (e *Engine) scoreWindow(w model.GateCapacity, priority bool) (float64, string) {
	risk := 0.0
	explanation := "Optimal slot."

	if w.PeakHour {
		risk += e.cfg.PeakPenalty
		explanation = "High risk due to peak hour congestion."
	}
	risk += w.Utilization() * e.cfg.UtilizationWeight
	if priority && w.PeakHour {
		risk -= e.cfg.PriorityMitigation
		explanation += " (Mitigated by priority status)"
	}
	if w.Full() {
		return 100, "Slot full."
	}
	if risk < 0 {
		risk = 0
	}
	if risk > 100 {
		risk = 100
	}
	return risk, explanation
}

// PredictAndRecommend recomputes the container's readiness time, scores open
// gate windows within the horizon and upserts the lowest-risk slot as the
// request's recommendation. If no open window exists the request stays
// CREATED and an Unavailable error is returned; the caller may retry later.
func (e *Engine) PredictAndRecommend(ctx context.Context, requestID string) (model.Recommendation, error) {
	req, err := e.store.PickupRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.Recommendation{}, NotFoundErr("request %s not found", requestID)
		}
		return model.Recommendation{}, err
	}
	container, err := e.store.ContainerByID(ctx, req.ContainerID)
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("load container %s: %w", req.ContainerID, err)
	}
	vessel, err := e.store.VesselByID(ctx, container.VesselID)
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("load vessel %s: %w", container.VesselID, err)
	}

	crt := e.estimator.Estimate(container, vessel.ETA)
	if err := e.store.SetContainerCRT(ctx, container.ID, crt); err != nil {
		return model.Recommendation{}, fmt.Errorf("persist crt: %w", err)
	}

	windows, err := e.store.OpenGateWindows(ctx, crt, crt.Add(e.horizon()), e.cfg.CandidateLimit)
	if err != nil {
		return model.Recommendation{}, err
	}
	if len(windows) == 0 {
		e.log.Warnf("no slots available for request %s", requestID)
		recommendationsTotal.WithLabelValues("no_slot").Inc()
		return model.Recommendation{}, UnavailableErr(ReasonNoSlotAvailable,
			"no open gate window within %dh of CRT %s", e.cfg.HorizonHours, crt.Format(time.RFC3339))
	}

	// Candidate order is earliest-first, so the first minimal risk wins ties.
	best := scoredSlot{risk: -1}
	for _, w := range windows {
		risk, expl := e.scoreWindow(w, req.Priority)
		if best.risk < 0 || risk < best.risk {
			best = scoredSlot{window: w, risk: risk, explanation: expl}
		}
	}

	rec := model.Recommendation{
		ID:          newID(),
		RequestID:   req.ID,
		SlotStart:   best.window.Start,
		SlotEnd:     best.window.End,
		RiskScore:   best.risk,
		Explanation: best.explanation,
		Route:       model.RoutePlan{Steps: []string{"Gate A", "Zone B", "Gate Out"}},
	}
	rec, err = e.store.UpsertRecommendation(ctx, rec)
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("upsert recommendation: %w", err)
	}
	if err := e.store.SetPickupRequestStatus(ctx, req.ID, model.RequestRecommended); err != nil {
		return model.Recommendation{}, err
	}

	e.log.Infof("recommended slot %s (risk %.1f) for request %s",
		rec.SlotStart.Format(time.RFC3339), rec.RiskScore, req.ID)
	recommendationsTotal.WithLabelValues("recommended").Inc()
	recommendationRisk.Observe(rec.RiskScore)
	if r, ok := e.sink.(coremetrics.RecommendationRecorder); ok {
		if err := r.RecordRecommendation(coremetrics.RecommendationEvent{
			RequestID: req.ID,
			RiskScore: rec.RiskScore,
			SlotStart: rec.SlotStart,
			Priority:  req.Priority,
			Time:      e.now(),
		}); err != nil {
			e.log.Errorf("recommendation metrics: %v", err)
		}
	}
	return rec, nil
}
