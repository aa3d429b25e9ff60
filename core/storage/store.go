// Package storage defines the relational-store collaborator the engine works
// against. The engine never owns rows; it reads and mutates through these
// ports and treats concurrent external mutation as possible.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/model"
)

// ErrNotFound is returned when a referenced entity is absent.
var ErrNotFound = errors.New("storage: not found")

// BookingDetail joins a booking with the request and container it serves.
// Used by the re-optimizer and the hold path, which need the owning company
// and the container's yard zone in one read.
type BookingDetail struct {
	Booking     model.Booking
	CompanyID   string
	ContainerID string
	ContainerNo string
	YardZone    string
}

// Queries is the operation set available both on the plain store and inside
// a transaction.
type Queries interface {
	// Vessels and containers.
	VesselByID(ctx context.Context, id string) (model.Vessel, error)
	VesselByCode(ctx context.Context, code string) (model.Vessel, error)
	UpdateVesselETA(ctx context.Context, id string, eta time.Time) error
	ContainerByID(ctx context.Context, id string) (model.Container, error)
	ContainerByNo(ctx context.Context, no string) (model.Container, error)
	SetContainerCRT(ctx context.Context, id string, crt time.Time) error

	// Delivery orders.
	DeliveryOrderByContainer(ctx context.Context, containerID string) (model.DeliveryOrder, error)
	UpsertDeliveryOrder(ctx context.Context, do model.DeliveryOrder) (model.DeliveryOrder, error)

	// Pickup requests and recommendations.
	CreatePickupRequest(ctx context.Context, req model.PickupRequest) error
	PickupRequestByID(ctx context.Context, id string) (model.PickupRequest, error)
	SetPickupRequestStatus(ctx context.Context, id string, status model.RequestStatus) error
	// ConfirmPickupRequest flips the request to CONFIRMED if and only if it is
	// not confirmed yet, as one atomic conditional update, and reports whether
	// the transition happened. A missing request also reports false.
	ConfirmPickupRequest(ctx context.Context, id string) (bool, error)
	UpsertRecommendation(ctx context.Context, rec model.Recommendation) (model.Recommendation, error)
	RecommendationByRequest(ctx context.Context, requestID string) (model.Recommendation, error)

	// Gate capacity windows.
	CreateGateWindow(ctx context.Context, w model.GateCapacity) error
	GateWindowBySlot(ctx context.Context, start, end time.Time) (model.GateCapacity, error)
	GateWindowAt(ctx context.Context, t time.Time) (model.GateCapacity, error)
	OpenGateWindows(ctx context.Context, from, to time.Time, limit int) ([]model.GateCapacity, error)
	ListGateWindows(ctx context.Context, from, to time.Time) ([]model.GateCapacity, error)
	// ReserveSlotCapacity increments the used-slot count of the window if and
	// only if it is still below the maximum, as one atomic conditional update.
	// It reports whether the increment happened. Never check-then-write.
	ReserveSlotCapacity(ctx context.Context, windowID string) (bool, error)

	// Bookings.
	CreateBooking(ctx context.Context, b model.Booking) error
	BookingByID(ctx context.Context, id string) (model.Booking, error)
	UpdateBooking(ctx context.Context, b model.Booking) error
	ActiveBookingsByContainer(ctx context.Context, containerID string) ([]BookingDetail, error)
	ConfirmedBookingsInZones(ctx context.Context, zones []string) ([]BookingDetail, error)
	ImpactedBookingsSince(ctx context.Context, since time.Time, limit int) ([]BookingDetail, error)
	// ClaimReoptimization records that a disruption has processed a booking and
	// reports whether this call made the claim. A false return means the pair
	// was already processed and must be skipped (job redelivery).
	ClaimReoptimization(ctx context.Context, disruptionID, bookingID string) (bool, error)

	// Assignments and drivers.
	CreateAssignment(ctx context.Context, a model.Assignment) error
	AssignmentByID(ctx context.Context, id string) (model.Assignment, error)
	UpdateAssignment(ctx context.Context, a model.Assignment) error
	DriverByID(ctx context.Context, id string) (model.Driver, error)
	FirstDriverByCompany(ctx context.Context, companyID string) (model.Driver, error)
	UpdateDriverPosition(ctx context.Context, id string, lat, lng float64) error

	// Disruptions.
	CreateDisruption(ctx context.Context, d model.Disruption) error
	DisruptionByID(ctx context.Context, id string) (model.Disruption, error)
	CountActiveDisruptions(ctx context.Context) (int, error)

	// Depots and return instructions.
	OpenDepotsByName(ctx context.Context, names []string) ([]model.Depot, error)
	ReturnInstructionByContainer(ctx context.Context, containerID string) (model.EmptyReturnInstruction, error)

	// Yard, users, notifications, audit.
	YardStatuses(ctx context.Context) ([]model.YardStatus, error)
	UpsertYardStatus(ctx context.Context, ys model.YardStatus) error
	FirstUserByCompany(ctx context.Context, companyID string) (model.User, error)
	CreateNotification(ctx context.Context, n model.Notification) error
	AppendAudit(ctx context.Context, rec model.AuditRecord) error
}

// Store is the storage collaborator. WithTx runs fn inside a transaction:
// fn's error aborts and rolls back the whole unit of work, nil commits it.
type Store interface {
	Queries
	WithTx(ctx context.Context, fn func(tx Queries) error) error
	Close() error
}
