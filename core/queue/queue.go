// Package queue defines the durable work-queue collaborator used by the
// disruption re-optimization pipeline. Delivery is at-least-once; handlers
// must tolerate redelivery.
package queue

import "context"

// Job names understood by the worker.
const (
	JobReoptimizeImpacted = "reoptimize-impacted"
)

// ReoptimizePayload is the payload of a reoptimize-impacted job.
type ReoptimizePayload struct {
	DisruptionID string `json:"disruption_id"`
}

// Job is a dequeued work item.
type Job struct {
	ID      int64
	Name    string
	Payload []byte
}

// Queue enqueues named jobs with JSON payloads. Enqueue returns once the job
// is durably stored; processing is decoupled from the caller.
type Queue interface {
	Enqueue(ctx context.Context, name string, payload any) error
}
