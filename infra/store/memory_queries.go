package store

import (
	"context"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// Locking delegation: each call takes the store mutex and runs the unlocked
// implementation, mirroring one implicit transaction per statement.

func (m *MemoryStore) run(fn func(q *memQueries) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&memQueries{st: m.st})
}

func (m *MemoryStore) VesselByID(ctx context.Context, id string) (v model.Vessel, err error) {
	err = m.run(func(q *memQueries) error { v, err = q.VesselByID(ctx, id); return err })
	return
}

func (m *MemoryStore) VesselByCode(ctx context.Context, code string) (v model.Vessel, err error) {
	err = m.run(func(q *memQueries) error { v, err = q.VesselByCode(ctx, code); return err })
	return
}

func (m *MemoryStore) UpdateVesselETA(ctx context.Context, id string, eta time.Time) error {
	return m.run(func(q *memQueries) error { return q.UpdateVesselETA(ctx, id, eta) })
}

func (m *MemoryStore) ContainerByID(ctx context.Context, id string) (c model.Container, err error) {
	err = m.run(func(q *memQueries) error { c, err = q.ContainerByID(ctx, id); return err })
	return
}

func (m *MemoryStore) ContainerByNo(ctx context.Context, no string) (c model.Container, err error) {
	err = m.run(func(q *memQueries) error { c, err = q.ContainerByNo(ctx, no); return err })
	return
}

func (m *MemoryStore) SetContainerCRT(ctx context.Context, id string, crt time.Time) error {
	return m.run(func(q *memQueries) error { return q.SetContainerCRT(ctx, id, crt) })
}

func (m *MemoryStore) DeliveryOrderByContainer(ctx context.Context, containerID string) (do model.DeliveryOrder, err error) {
	err = m.run(func(q *memQueries) error { do, err = q.DeliveryOrderByContainer(ctx, containerID); return err })
	return
}

func (m *MemoryStore) UpsertDeliveryOrder(ctx context.Context, in model.DeliveryOrder) (do model.DeliveryOrder, err error) {
	err = m.run(func(q *memQueries) error { do, err = q.UpsertDeliveryOrder(ctx, in); return err })
	return
}

func (m *MemoryStore) CreatePickupRequest(ctx context.Context, req model.PickupRequest) error {
	return m.run(func(q *memQueries) error { return q.CreatePickupRequest(ctx, req) })
}

func (m *MemoryStore) PickupRequestByID(ctx context.Context, id string) (r model.PickupRequest, err error) {
	err = m.run(func(q *memQueries) error { r, err = q.PickupRequestByID(ctx, id); return err })
	return
}

func (m *MemoryStore) SetPickupRequestStatus(ctx context.Context, id string, status model.RequestStatus) error {
	return m.run(func(q *memQueries) error { return q.SetPickupRequestStatus(ctx, id, status) })
}

func (m *MemoryStore) ConfirmPickupRequest(ctx context.Context, id string) (ok bool, err error) {
	err = m.run(func(q *memQueries) error { ok, err = q.ConfirmPickupRequest(ctx, id); return err })
	return ok, err
}

func (m *MemoryStore) UpsertRecommendation(ctx context.Context, in model.Recommendation) (rec model.Recommendation, err error) {
	err = m.run(func(q *memQueries) error { rec, err = q.UpsertRecommendation(ctx, in); return err })
	return
}

func (m *MemoryStore) RecommendationByRequest(ctx context.Context, requestID string) (rec model.Recommendation, err error) {
	err = m.run(func(q *memQueries) error { rec, err = q.RecommendationByRequest(ctx, requestID); return err })
	return
}

func (m *MemoryStore) CreateGateWindow(ctx context.Context, w model.GateCapacity) error {
	return m.run(func(q *memQueries) error { return q.CreateGateWindow(ctx, w) })
}

func (m *MemoryStore) GateWindowBySlot(ctx context.Context, start, end time.Time) (w model.GateCapacity, err error) {
	err = m.run(func(q *memQueries) error { w, err = q.GateWindowBySlot(ctx, start, end); return err })
	return
}

func (m *MemoryStore) GateWindowAt(ctx context.Context, t time.Time) (w model.GateCapacity, err error) {
	err = m.run(func(q *memQueries) error { w, err = q.GateWindowAt(ctx, t); return err })
	return
}

func (m *MemoryStore) OpenGateWindows(ctx context.Context, from, to time.Time, limit int) (ws []model.GateCapacity, err error) {
	err = m.run(func(q *memQueries) error { ws, err = q.OpenGateWindows(ctx, from, to, limit); return err })
	return
}

func (m *MemoryStore) ListGateWindows(ctx context.Context, from, to time.Time) (ws []model.GateCapacity, err error) {
	err = m.run(func(q *memQueries) error { ws, err = q.ListGateWindows(ctx, from, to); return err })
	return
}

func (m *MemoryStore) ReserveSlotCapacity(ctx context.Context, windowID string) (ok bool, err error) {
	err = m.run(func(q *memQueries) error { ok, err = q.ReserveSlotCapacity(ctx, windowID); return err })
	return
}

func (m *MemoryStore) CreateBooking(ctx context.Context, b model.Booking) error {
	return m.run(func(q *memQueries) error { return q.CreateBooking(ctx, b) })
}

func (m *MemoryStore) BookingByID(ctx context.Context, id string) (b model.Booking, err error) {
	err = m.run(func(q *memQueries) error { b, err = q.BookingByID(ctx, id); return err })
	return
}

func (m *MemoryStore) UpdateBooking(ctx context.Context, b model.Booking) error {
	return m.run(func(q *memQueries) error { return q.UpdateBooking(ctx, b) })
}

func (m *MemoryStore) ActiveBookingsByContainer(ctx context.Context, containerID string) (res []storage.BookingDetail, err error) {
	err = m.run(func(q *memQueries) error { res, err = q.ActiveBookingsByContainer(ctx, containerID); return err })
	return
}

func (m *MemoryStore) ConfirmedBookingsInZones(ctx context.Context, zones []string) (res []storage.BookingDetail, err error) {
	err = m.run(func(q *memQueries) error { res, err = q.ConfirmedBookingsInZones(ctx, zones); return err })
	return
}

func (m *MemoryStore) ImpactedBookingsSince(ctx context.Context, since time.Time, limit int) (res []storage.BookingDetail, err error) {
	err = m.run(func(q *memQueries) error { res, err = q.ImpactedBookingsSince(ctx, since, limit); return err })
	return
}

func (m *MemoryStore) ClaimReoptimization(ctx context.Context, disruptionID, bookingID string) (ok bool, err error) {
	err = m.run(func(q *memQueries) error { ok, err = q.ClaimReoptimization(ctx, disruptionID, bookingID); return err })
	return
}

func (m *MemoryStore) CreateAssignment(ctx context.Context, a model.Assignment) error {
	return m.run(func(q *memQueries) error { return q.CreateAssignment(ctx, a) })
}

func (m *MemoryStore) AssignmentByID(ctx context.Context, id string) (a model.Assignment, err error) {
	err = m.run(func(q *memQueries) error { a, err = q.AssignmentByID(ctx, id); return err })
	return
}

func (m *MemoryStore) UpdateAssignment(ctx context.Context, a model.Assignment) error {
	return m.run(func(q *memQueries) error { return q.UpdateAssignment(ctx, a) })
}

func (m *MemoryStore) DriverByID(ctx context.Context, id string) (d model.Driver, err error) {
	err = m.run(func(q *memQueries) error { d, err = q.DriverByID(ctx, id); return err })
	return
}

func (m *MemoryStore) FirstDriverByCompany(ctx context.Context, companyID string) (d model.Driver, err error) {
	err = m.run(func(q *memQueries) error { d, err = q.FirstDriverByCompany(ctx, companyID); return err })
	return
}

func (m *MemoryStore) UpdateDriverPosition(ctx context.Context, id string, lat, lng float64) error {
	return m.run(func(q *memQueries) error { return q.UpdateDriverPosition(ctx, id, lat, lng) })
}

func (m *MemoryStore) CreateDisruption(ctx context.Context, d model.Disruption) error {
	return m.run(func(q *memQueries) error { return q.CreateDisruption(ctx, d) })
}

func (m *MemoryStore) DisruptionByID(ctx context.Context, id string) (d model.Disruption, err error) {
	err = m.run(func(q *memQueries) error { d, err = q.DisruptionByID(ctx, id); return err })
	return
}

func (m *MemoryStore) CountActiveDisruptions(ctx context.Context) (n int, err error) {
	err = m.run(func(q *memQueries) error { n, err = q.CountActiveDisruptions(ctx); return err })
	return
}

func (m *MemoryStore) OpenDepotsByName(ctx context.Context, names []string) (res []model.Depot, err error) {
	err = m.run(func(q *memQueries) error { res, err = q.OpenDepotsByName(ctx, names); return err })
	return
}

func (m *MemoryStore) ReturnInstructionByContainer(ctx context.Context, containerID string) (ins model.EmptyReturnInstruction, err error) {
	err = m.run(func(q *memQueries) error { ins, err = q.ReturnInstructionByContainer(ctx, containerID); return err })
	return
}

func (m *MemoryStore) YardStatuses(ctx context.Context) (res []model.YardStatus, err error) {
	err = m.run(func(q *memQueries) error { res, err = q.YardStatuses(ctx); return err })
	return
}

func (m *MemoryStore) UpsertYardStatus(ctx context.Context, ys model.YardStatus) error {
	return m.run(func(q *memQueries) error { return q.UpsertYardStatus(ctx, ys) })
}

func (m *MemoryStore) FirstUserByCompany(ctx context.Context, companyID string) (u model.User, err error) {
	err = m.run(func(q *memQueries) error { u, err = q.FirstUserByCompany(ctx, companyID); return err })
	return
}

func (m *MemoryStore) CreateNotification(ctx context.Context, n model.Notification) error {
	return m.run(func(q *memQueries) error { return q.CreateNotification(ctx, n) })
}

func (m *MemoryStore) AppendAudit(ctx context.Context, rec model.AuditRecord) error {
	return m.run(func(q *memQueries) error { return q.AppendAudit(ctx, rec) })
}

// Fixture setters and test accessors.

func (m *MemoryStore) AddVessel(v model.Vessel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.vessels[v.ID] = v
}

func (m *MemoryStore) AddContainer(c model.Container) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.containers[c.ID] = c
}

func (m *MemoryStore) AddDriver(d model.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.drivers[d.ID] = d
}

func (m *MemoryStore) AddDepot(d model.Depot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.depots[d.ID] = d
}

func (m *MemoryStore) AddUser(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.users[u.ID] = u
}

func (m *MemoryStore) AddReturnInstruction(ins model.EmptyReturnInstruction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.instructions[ins.ContainerID] = ins
}

// Notifications returns a copy of all persisted notifications.
func (m *MemoryStore) Notifications() []model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]model.Notification, len(m.st.notifications))
	copy(res, m.st.notifications)
	return res
}

// AuditRecords returns a copy of the audit log.
func (m *MemoryStore) AuditRecords() []model.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]model.AuditRecord, len(m.st.audit))
	copy(res, m.st.audit)
	return res
}
