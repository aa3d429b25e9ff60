package orchestration

import (
	"context"
	"errors"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// CreateRequestInput carries the caller data for a new pickup request.
type CreateRequestInput struct {
	ContainerID   string
	RequestedTime *time.Time
	Priority      bool
}

// CreateRequestResult returns the stored request together with its first
// recommendation, so the caller can show both immediately.
type CreateRequestResult struct {
	Request        model.PickupRequest
	Recommendation *model.Recommendation
}

// CreatePickupRequest validates the container's delivery order and creates a
// request for the company. A delivery order on HOLD is a hard gate: the call
// fails with Conflict(COMMERCIAL_HOLD) and no request row is created.
// On success the engine immediately computes a recommendation; failing to
// find a slot leaves the request CREATED with a nil recommendation.
func (e *Engine) CreatePickupRequest(ctx context.Context, companyID string, in CreateRequestInput) (CreateRequestResult, error) {
	if in.ContainerID == "" {
		return CreateRequestResult{}, InvalidInputErr("", "container id is required")
	}
	container, err := e.store.ContainerByID(ctx, in.ContainerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return CreateRequestResult{}, NotFoundErr("container %s not found", in.ContainerID)
		}
		return CreateRequestResult{}, err
	}

	do, err := e.store.DeliveryOrderByContainer(ctx, container.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return CreateRequestResult{}, err
	}
	if err == nil && do.Status == model.DOHold {
		return CreateRequestResult{}, ConflictErr(ReasonCommercialHold,
			"cannot request pickup: delivery order for %s is on HOLD until %s",
			container.No, do.ValidUntil.Format(time.RFC3339))
	}

	req := model.PickupRequest{
		ID:            newID(),
		CompanyID:     companyID,
		ContainerID:   container.ID,
		RequestedTime: in.RequestedTime,
		Priority:      in.Priority,
		Status:        model.RequestCreated,
		CreatedAt:     e.now(),
	}
	if err := e.store.CreatePickupRequest(ctx, req); err != nil {
		return CreateRequestResult{}, err
	}

	res := CreateRequestResult{Request: req}
	rec, err := e.PredictAndRecommend(ctx, req.ID)
	switch {
	case err == nil:
		req.Status = model.RequestRecommended
		res.Request = req
		res.Recommendation = &rec
	case IsUnavailable(err):
		// Recoverable: the request stays CREATED for a later retry.
		e.log.Warnf("request %s created without recommendation: %v", req.ID, err)
	default:
		return CreateRequestResult{}, err
	}
	return res, nil
}

// Recommendation returns the stored recommendation for a request owned by
// the company. Foreign requests are reported as not found, not as forbidden.
func (e *Engine) Recommendation(ctx context.Context, companyID, requestID string) (model.Recommendation, error) {
	req, err := e.store.PickupRequestByID(ctx, requestID)
	if err != nil || req.CompanyID != companyID {
		return model.Recommendation{}, NotFoundErr("request %s not found", requestID)
	}
	rec, err := e.store.RecommendationByRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.Recommendation{}, NotFoundErr("recommendation for request %s not ready", requestID)
		}
		return model.Recommendation{}, err
	}
	return rec, nil
}
