package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// MemoryStore is a map-backed Store for tests. Transactions serialize on one
// mutex and roll back by restoring a snapshot, so the conditional capacity
// increment keeps its all-or-nothing semantics without a database.
type MemoryStore struct {
	mu sync.Mutex
	st *memState
}

var _ storage.Store = (*MemoryStore)(nil)

type claimKey struct {
	disruptionID string
	bookingID    string
}

type memState struct {
	vessels         map[string]model.Vessel
	containers      map[string]model.Container
	deliveryOrders  map[string]model.DeliveryOrder // keyed by container id
	requests        map[string]model.PickupRequest
	recommendations map[string]model.Recommendation // keyed by request id
	windows         map[string]model.GateCapacity
	bookings        map[string]model.Booking
	claims          map[claimKey]bool
	assignments     map[string]model.Assignment
	drivers         map[string]model.Driver
	disruptions     map[string]model.Disruption
	depots          map[string]model.Depot
	instructions    map[string]model.EmptyReturnInstruction // keyed by container id
	yard            map[string]model.YardStatus
	users           map[string]model.User
	notifications   []model.Notification
	audit           []model.AuditRecord
}

func newMemState() *memState {
	return &memState{
		vessels:         map[string]model.Vessel{},
		containers:      map[string]model.Container{},
		deliveryOrders:  map[string]model.DeliveryOrder{},
		requests:        map[string]model.PickupRequest{},
		recommendations: map[string]model.Recommendation{},
		windows:         map[string]model.GateCapacity{},
		bookings:        map[string]model.Booking{},
		claims:          map[claimKey]bool{},
		assignments:     map[string]model.Assignment{},
		drivers:         map[string]model.Driver{},
		disruptions:     map[string]model.Disruption{},
		depots:          map[string]model.Depot{},
		instructions:    map[string]model.EmptyReturnInstruction{},
		yard:            map[string]model.YardStatus{},
		users:           map[string]model.User{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.vessels {
		c.vessels[k] = v
	}
	for k, v := range s.containers {
		c.containers[k] = v
	}
	for k, v := range s.deliveryOrders {
		c.deliveryOrders[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.recommendations {
		c.recommendations[k] = v
	}
	for k, v := range s.windows {
		c.windows[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.claims {
		c.claims[k] = v
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	for k, v := range s.drivers {
		c.drivers[k] = v
	}
	for k, v := range s.disruptions {
		c.disruptions[k] = v
	}
	for k, v := range s.depots {
		c.depots[k] = v
	}
	for k, v := range s.instructions {
		c.instructions[k] = v
	}
	for k, v := range s.yard {
		c.yard[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	c.notifications = append(c.notifications, s.notifications...)
	c.audit = append(c.audit, s.audit...)
	return c
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: newMemState()}
}

// WithTx serializes the whole unit of work under the store mutex and restores
// the pre-transaction snapshot when fn fails.
func (m *MemoryStore) WithTx(ctx context.Context, fn func(tx storage.Queries) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.st.clone()
	if err := fn(&memQueries{st: m.st}); err != nil {
		m.st = snapshot
		return err
	}
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

// memQueries runs against the state without locking; WithTx already holds
// the store mutex. MemoryStore's own methods lock per call.
type memQueries struct {
	st *memState
}

var _ storage.Queries = (*memQueries)(nil)

func (q *memQueries) VesselByID(_ context.Context, id string) (model.Vessel, error) {
	if v, ok := q.st.vessels[id]; ok {
		return v, nil
	}
	return model.Vessel{}, storage.ErrNotFound
}

func (q *memQueries) VesselByCode(_ context.Context, code string) (model.Vessel, error) {
	for _, v := range q.st.vessels {
		if v.Code == code {
			return v, nil
		}
	}
	return model.Vessel{}, storage.ErrNotFound
}

func (q *memQueries) UpdateVesselETA(_ context.Context, id string, eta time.Time) error {
	v, ok := q.st.vessels[id]
	if !ok {
		return storage.ErrNotFound
	}
	v.ETA = eta
	q.st.vessels[id] = v
	return nil
}

func (q *memQueries) ContainerByID(_ context.Context, id string) (model.Container, error) {
	if c, ok := q.st.containers[id]; ok {
		return c, nil
	}
	return model.Container{}, storage.ErrNotFound
}

func (q *memQueries) ContainerByNo(_ context.Context, no string) (model.Container, error) {
	for _, c := range q.st.containers {
		if c.No == no {
			return c, nil
		}
	}
	return model.Container{}, storage.ErrNotFound
}

func (q *memQueries) SetContainerCRT(_ context.Context, id string, crt time.Time) error {
	c, ok := q.st.containers[id]
	if !ok {
		return storage.ErrNotFound
	}
	c.CRT = &crt
	q.st.containers[id] = c
	return nil
}

func (q *memQueries) DeliveryOrderByContainer(_ context.Context, containerID string) (model.DeliveryOrder, error) {
	if do, ok := q.st.deliveryOrders[containerID]; ok {
		return do, nil
	}
	return model.DeliveryOrder{}, storage.ErrNotFound
}

func (q *memQueries) UpsertDeliveryOrder(_ context.Context, do model.DeliveryOrder) (model.DeliveryOrder, error) {
	if do.ID == "" {
		do.ID = do.ContainerID + "-do"
	}
	q.st.deliveryOrders[do.ContainerID] = do
	return do, nil
}

func (q *memQueries) CreatePickupRequest(_ context.Context, req model.PickupRequest) error {
	q.st.requests[req.ID] = req
	return nil
}

func (q *memQueries) PickupRequestByID(_ context.Context, id string) (model.PickupRequest, error) {
	if r, ok := q.st.requests[id]; ok {
		return r, nil
	}
	return model.PickupRequest{}, storage.ErrNotFound
}

func (q *memQueries) SetPickupRequestStatus(_ context.Context, id string, status model.RequestStatus) error {
	r, ok := q.st.requests[id]
	if !ok {
		return storage.ErrNotFound
	}
	r.Status = status
	q.st.requests[id] = r
	return nil
}

func (q *memQueries) ConfirmPickupRequest(_ context.Context, id string) (bool, error) {
	r, ok := q.st.requests[id]
	if !ok || r.Status == model.RequestConfirmed {
		return false, nil
	}
	r.Status = model.RequestConfirmed
	q.st.requests[id] = r
	return true, nil
}

func (q *memQueries) UpsertRecommendation(_ context.Context, rec model.Recommendation) (model.Recommendation, error) {
	if prev, ok := q.st.recommendations[rec.RequestID]; ok {
		rec.ID = prev.ID
	}
	q.st.recommendations[rec.RequestID] = rec
	return rec, nil
}

func (q *memQueries) RecommendationByRequest(_ context.Context, requestID string) (model.Recommendation, error) {
	if rec, ok := q.st.recommendations[requestID]; ok {
		return rec, nil
	}
	return model.Recommendation{}, storage.ErrNotFound
}

func (q *memQueries) CreateGateWindow(_ context.Context, w model.GateCapacity) error {
	q.st.windows[w.ID] = w
	return nil
}

func (q *memQueries) GateWindowBySlot(_ context.Context, start, end time.Time) (model.GateCapacity, error) {
	for _, w := range q.st.windows {
		if w.Start.Equal(start) && w.End.Equal(end) {
			return w, nil
		}
	}
	return model.GateCapacity{}, storage.ErrNotFound
}

func (q *memQueries) GateWindowAt(_ context.Context, t time.Time) (model.GateCapacity, error) {
	var found model.GateCapacity
	ok := false
	for _, w := range q.st.windows {
		if !w.Start.After(t) && w.End.After(t) {
			if !ok || w.Start.Before(found.Start) {
				found, ok = w, true
			}
		}
	}
	if !ok {
		return model.GateCapacity{}, storage.ErrNotFound
	}
	return found, nil
}

func (q *memQueries) OpenGateWindows(_ context.Context, from, to time.Time, limit int) ([]model.GateCapacity, error) {
	var res []model.GateCapacity
	for _, w := range q.st.windows {
		if w.Status == model.GateOpen && !w.Start.Before(from) && w.Start.Before(to) {
			res = append(res, w)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Start.Before(res[j].Start) })
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (q *memQueries) ListGateWindows(_ context.Context, from, to time.Time) ([]model.GateCapacity, error) {
	var res []model.GateCapacity
	for _, w := range q.st.windows {
		if !w.Start.Before(from) && w.Start.Before(to) {
			res = append(res, w)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Start.Before(res[j].Start) })
	return res, nil
}

func (q *memQueries) ReserveSlotCapacity(_ context.Context, windowID string) (bool, error) {
	w, ok := q.st.windows[windowID]
	if !ok {
		return false, nil
	}
	if w.Status != model.GateOpen || w.UsedSlots >= w.MaxSlots {
		return false, nil
	}
	w.UsedSlots++
	q.st.windows[windowID] = w
	return true, nil
}

func (q *memQueries) CreateBooking(_ context.Context, b model.Booking) error {
	q.st.bookings[b.ID] = b
	return nil
}

func (q *memQueries) BookingByID(_ context.Context, id string) (model.Booking, error) {
	if b, ok := q.st.bookings[id]; ok {
		return b, nil
	}
	return model.Booking{}, storage.ErrNotFound
}

func (q *memQueries) UpdateBooking(_ context.Context, b model.Booking) error {
	if _, ok := q.st.bookings[b.ID]; !ok {
		return storage.ErrNotFound
	}
	q.st.bookings[b.ID] = b
	return nil
}

func (q *memQueries) detail(b model.Booking) (storage.BookingDetail, bool) {
	req, ok := q.st.requests[b.RequestID]
	if !ok {
		return storage.BookingDetail{}, false
	}
	c, ok := q.st.containers[req.ContainerID]
	if !ok {
		return storage.BookingDetail{}, false
	}
	return storage.BookingDetail{
		Booking:     b,
		CompanyID:   req.CompanyID,
		ContainerID: c.ID,
		ContainerNo: c.No,
		YardZone:    c.YardZone,
	}, true
}

func (q *memQueries) sortedBookings() []model.Booking {
	res := make([]model.Booking, 0, len(q.st.bookings))
	for _, b := range q.st.bookings {
		res = append(res, b)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (q *memQueries) ActiveBookingsByContainer(_ context.Context, containerID string) ([]storage.BookingDetail, error) {
	var res []storage.BookingDetail
	for _, b := range q.sortedBookings() {
		if !b.Status.Active() {
			continue
		}
		if det, ok := q.detail(b); ok && det.ContainerID == containerID {
			res = append(res, det)
		}
	}
	return res, nil
}

func (q *memQueries) ConfirmedBookingsInZones(_ context.Context, zones []string) ([]storage.BookingDetail, error) {
	inZones := map[string]bool{}
	for _, z := range zones {
		inZones[z] = true
	}
	var res []storage.BookingDetail
	for _, b := range q.sortedBookings() {
		if b.Status != model.BookingConfirmed {
			continue
		}
		if det, ok := q.detail(b); ok && inZones[det.YardZone] {
			res = append(res, det)
		}
	}
	return res, nil
}

func (q *memQueries) ImpactedBookingsSince(_ context.Context, since time.Time, limit int) ([]storage.BookingDetail, error) {
	var res []storage.BookingDetail
	for _, b := range q.sortedBookings() {
		if b.Status != model.BookingRescheduled && b.Status != model.BookingBlocked {
			continue
		}
		if b.UpdatedAt.Before(since) {
			continue
		}
		if det, ok := q.detail(b); ok {
			res = append(res, det)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Booking.UpdatedAt.After(res[j].Booking.UpdatedAt)
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (q *memQueries) ClaimReoptimization(_ context.Context, disruptionID, bookingID string) (bool, error) {
	key := claimKey{disruptionID: disruptionID, bookingID: bookingID}
	if q.st.claims[key] {
		return false, nil
	}
	q.st.claims[key] = true
	return true, nil
}

func (q *memQueries) CreateAssignment(_ context.Context, a model.Assignment) error {
	q.st.assignments[a.ID] = a
	return nil
}

func (q *memQueries) AssignmentByID(_ context.Context, id string) (model.Assignment, error) {
	if a, ok := q.st.assignments[id]; ok {
		return a, nil
	}
	return model.Assignment{}, storage.ErrNotFound
}

func (q *memQueries) UpdateAssignment(_ context.Context, a model.Assignment) error {
	if _, ok := q.st.assignments[a.ID]; !ok {
		return storage.ErrNotFound
	}
	q.st.assignments[a.ID] = a
	return nil
}

func (q *memQueries) DriverByID(_ context.Context, id string) (model.Driver, error) {
	if d, ok := q.st.drivers[id]; ok {
		return d, nil
	}
	return model.Driver{}, storage.ErrNotFound
}

func (q *memQueries) FirstDriverByCompany(_ context.Context, companyID string) (model.Driver, error) {
	var ids []string
	for id, d := range q.st.drivers {
		if d.CompanyID == companyID {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return model.Driver{}, storage.ErrNotFound
	}
	sort.Strings(ids)
	return q.st.drivers[ids[0]], nil
}

func (q *memQueries) UpdateDriverPosition(_ context.Context, id string, lat, lng float64) error {
	d, ok := q.st.drivers[id]
	if !ok {
		return storage.ErrNotFound
	}
	d.Lat, d.Lng = lat, lng
	q.st.drivers[id] = d
	return nil
}

func (q *memQueries) CreateDisruption(_ context.Context, d model.Disruption) error {
	q.st.disruptions[d.ID] = d
	return nil
}

func (q *memQueries) DisruptionByID(_ context.Context, id string) (model.Disruption, error) {
	if d, ok := q.st.disruptions[id]; ok {
		return d, nil
	}
	return model.Disruption{}, storage.ErrNotFound
}

func (q *memQueries) CountActiveDisruptions(_ context.Context) (int, error) {
	n := 0
	for _, d := range q.st.disruptions {
		if d.Active {
			n++
		}
	}
	return n, nil
}

func (q *memQueries) OpenDepotsByName(_ context.Context, names []string) ([]model.Depot, error) {
	byName := map[string]model.Depot{}
	for _, d := range q.st.depots {
		if d.Status == model.DepotOpen {
			byName[d.Name] = d
		}
	}
	var res []model.Depot
	for _, n := range names {
		if d, ok := byName[n]; ok {
			res = append(res, d)
		}
	}
	return res, nil
}

func (q *memQueries) ReturnInstructionByContainer(_ context.Context, containerID string) (model.EmptyReturnInstruction, error) {
	if ins, ok := q.st.instructions[containerID]; ok {
		return ins, nil
	}
	return model.EmptyReturnInstruction{}, storage.ErrNotFound
}

func (q *memQueries) YardStatuses(_ context.Context) ([]model.YardStatus, error) {
	var res []model.YardStatus
	for _, ys := range q.st.yard {
		res = append(res, ys)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Zone < res[j].Zone })
	return res, nil
}

func (q *memQueries) UpsertYardStatus(_ context.Context, ys model.YardStatus) error {
	q.st.yard[ys.Zone] = ys
	return nil
}

func (q *memQueries) FirstUserByCompany(_ context.Context, companyID string) (model.User, error) {
	var ids []string
	for id, u := range q.st.users {
		if u.CompanyID == companyID {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return model.User{}, storage.ErrNotFound
	}
	sort.Strings(ids)
	return q.st.users[ids[0]], nil
}

func (q *memQueries) CreateNotification(_ context.Context, n model.Notification) error {
	q.st.notifications = append(q.st.notifications, n)
	return nil
}

func (q *memQueries) AppendAudit(_ context.Context, rec model.AuditRecord) error {
	q.st.audit = append(q.st.audit, rec)
	return nil
}
