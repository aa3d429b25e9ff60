package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/tannguyen1129/fresh-sync-demo/core/model"
	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so the same query methods
// serve plain calls and transactional ones.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db dbtx
}

var _ storage.Queries = (*queries)(nil)

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func tsPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func ptrTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}

func marshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Vessels and containers.

func (q *queries) VesselByID(ctx context.Context, id string) (model.Vessel, error) {
	return q.vessel(ctx, `SELECT id, code, name, eta, ata, etd, status FROM vessels WHERE id = ?`, id)
}

func (q *queries) VesselByCode(ctx context.Context, code string) (model.Vessel, error) {
	return q.vessel(ctx, `SELECT id, code, name, eta, ata, etd, status FROM vessels WHERE code = ?`, code)
}

func (q *queries) vessel(ctx context.Context, query string, arg any) (model.Vessel, error) {
	var v model.Vessel
	var eta, ata, etd int64
	err := q.db.QueryRowContext(ctx, query, arg).
		Scan(&v.ID, &v.Code, &v.Name, &eta, &ata, &etd, &v.Status)
	if err != nil {
		return model.Vessel{}, mapErr(err)
	}
	v.ETA = time.Unix(eta, 0).UTC()
	v.ATA = time.Unix(ata, 0).UTC()
	v.ETD = time.Unix(etd, 0).UTC()
	return v, nil
}

func (q *queries) UpdateVesselETA(ctx context.Context, id string, eta time.Time) error {
	res, err := q.db.ExecContext(ctx, `UPDATE vessels SET eta = ? WHERE id = ?`, eta.Unix(), id)
	if err != nil {
		return err
	}
	return affected(res)
}

func (q *queries) ContainerByID(ctx context.Context, id string) (model.Container, error) {
	return q.container(ctx, `SELECT id, no, size, is_reefer, vessel_id, yard_zone, crt, status FROM containers WHERE id = ?`, id)
}

func (q *queries) ContainerByNo(ctx context.Context, no string) (model.Container, error) {
	return q.container(ctx, `SELECT id, no, size, is_reefer, vessel_id, yard_zone, crt, status FROM containers WHERE no = ?`, no)
}

func (q *queries) container(ctx context.Context, query string, arg any) (model.Container, error) {
	var c model.Container
	var crt sql.NullInt64
	err := q.db.QueryRowContext(ctx, query, arg).
		Scan(&c.ID, &c.No, &c.Size, &c.IsReefer, &c.VesselID, &c.YardZone, &crt, &c.Status)
	if err != nil {
		return model.Container{}, mapErr(err)
	}
	c.CRT = ptrTime(crt)
	return c, nil
}

func (q *queries) SetContainerCRT(ctx context.Context, id string, crt time.Time) error {
	res, err := q.db.ExecContext(ctx, `UPDATE containers SET crt = ? WHERE id = ?`, crt.Unix(), id)
	if err != nil {
		return err
	}
	return affected(res)
}

// Delivery orders.

func (q *queries) DeliveryOrderByContainer(ctx context.Context, containerID string) (model.DeliveryOrder, error) {
	var do model.DeliveryOrder
	var validUntil int64
	err := q.db.QueryRowContext(ctx,
		`SELECT id, container_id, status, valid_until FROM delivery_orders WHERE container_id = ?`, containerID).
		Scan(&do.ID, &do.ContainerID, &do.Status, &validUntil)
	if err != nil {
		return model.DeliveryOrder{}, mapErr(err)
	}
	do.ValidUntil = time.Unix(validUntil, 0).UTC()
	return do, nil
}

func (q *queries) UpsertDeliveryOrder(ctx context.Context, do model.DeliveryOrder) (model.DeliveryOrder, error) {
	if do.ID == "" {
		do.ID = do.ContainerID + "-do"
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO delivery_orders (id, container_id, status, valid_until) VALUES (?, ?, ?, ?)
		 ON CONFLICT(container_id) DO UPDATE SET status = excluded.status, valid_until = excluded.valid_until`,
		do.ID, do.ContainerID, do.Status, do.ValidUntil.Unix())
	if err != nil {
		return model.DeliveryOrder{}, err
	}
	return q.DeliveryOrderByContainer(ctx, do.ContainerID)
}

// Pickup requests and recommendations.

func (q *queries) CreatePickupRequest(ctx context.Context, req model.PickupRequest) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO pickup_requests (id, company_id, container_id, requested_time, priority, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.CompanyID, req.ContainerID, tsPtr(req.RequestedTime), req.Priority, req.Status, req.CreatedAt.Unix())
	return err
}

func (q *queries) PickupRequestByID(ctx context.Context, id string) (model.PickupRequest, error) {
	var req model.PickupRequest
	var requested sql.NullInt64
	var created int64
	err := q.db.QueryRowContext(ctx,
		`SELECT id, company_id, container_id, requested_time, priority, status, created_at
		 FROM pickup_requests WHERE id = ?`, id).
		Scan(&req.ID, &req.CompanyID, &req.ContainerID, &requested, &req.Priority, &req.Status, &created)
	if err != nil {
		return model.PickupRequest{}, mapErr(err)
	}
	req.RequestedTime = ptrTime(requested)
	req.CreatedAt = time.Unix(created, 0).UTC()
	return req, nil
}

func (q *queries) SetPickupRequestStatus(ctx context.Context, id string, status model.RequestStatus) error {
	res, err := q.db.ExecContext(ctx, `UPDATE pickup_requests SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// ConfirmPickupRequest guards the CONFIRMED transition in SQL so two racing
// reservations cannot both win.
func (q *queries) ConfirmPickupRequest(ctx context.Context, id string) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE pickup_requests SET status = ? WHERE id = ? AND status != ?`,
		model.RequestConfirmed, id, model.RequestConfirmed)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (q *queries) UpsertRecommendation(ctx context.Context, rec model.Recommendation) (model.Recommendation, error) {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO recommendations (id, request_id, slot_start, slot_end, risk_score, explanation, route)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(request_id) DO UPDATE SET
			slot_start = excluded.slot_start, slot_end = excluded.slot_end,
			risk_score = excluded.risk_score, explanation = excluded.explanation, route = excluded.route`,
		rec.ID, rec.RequestID, rec.SlotStart.Unix(), rec.SlotEnd.Unix(), rec.RiskScore, rec.Explanation, marshal(rec.Route))
	if err != nil {
		return model.Recommendation{}, err
	}
	return q.RecommendationByRequest(ctx, rec.RequestID)
}

func (q *queries) RecommendationByRequest(ctx context.Context, requestID string) (model.Recommendation, error) {
	var rec model.Recommendation
	var start, end int64
	var route string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, request_id, slot_start, slot_end, risk_score, explanation, route
		 FROM recommendations WHERE request_id = ?`, requestID).
		Scan(&rec.ID, &rec.RequestID, &start, &end, &rec.RiskScore, &rec.Explanation, &route)
	if err != nil {
		return model.Recommendation{}, mapErr(err)
	}
	rec.SlotStart = time.Unix(start, 0).UTC()
	rec.SlotEnd = time.Unix(end, 0).UTC()
	if err := json.Unmarshal([]byte(route), &rec.Route); err != nil {
		return model.Recommendation{}, err
	}
	return rec, nil
}

// Gate capacity windows.

func (q *queries) CreateGateWindow(ctx context.Context, w model.GateCapacity) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO gate_windows (id, start_ts, end_ts, max_slots, used_slots, peak_hour, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Start.Unix(), w.End.Unix(), w.MaxSlots, w.UsedSlots, w.PeakHour, w.Status)
	return err
}

const gateWindowCols = `SELECT id, start_ts, end_ts, max_slots, used_slots, peak_hour, status FROM gate_windows`

func (q *queries) GateWindowBySlot(ctx context.Context, start, end time.Time) (model.GateCapacity, error) {
	return q.gateWindow(ctx, gateWindowCols+` WHERE start_ts = ? AND end_ts = ?`, start.Unix(), end.Unix())
}

func (q *queries) GateWindowAt(ctx context.Context, t time.Time) (model.GateCapacity, error) {
	return q.gateWindow(ctx, gateWindowCols+` WHERE start_ts <= ? AND end_ts > ? ORDER BY start_ts LIMIT 1`, t.Unix(), t.Unix())
}

func (q *queries) gateWindow(ctx context.Context, query string, args ...any) (model.GateCapacity, error) {
	var w model.GateCapacity
	var start, end int64
	err := q.db.QueryRowContext(ctx, query, args...).
		Scan(&w.ID, &start, &end, &w.MaxSlots, &w.UsedSlots, &w.PeakHour, &w.Status)
	if err != nil {
		return model.GateCapacity{}, mapErr(err)
	}
	w.Start = time.Unix(start, 0).UTC()
	w.End = time.Unix(end, 0).UTC()
	return w, nil
}

func (q *queries) OpenGateWindows(ctx context.Context, from, to time.Time, limit int) ([]model.GateCapacity, error) {
	return q.gateWindows(ctx,
		gateWindowCols+` WHERE start_ts >= ? AND start_ts < ? AND status = ? ORDER BY start_ts LIMIT ?`,
		from.Unix(), to.Unix(), model.GateOpen, limit)
}

func (q *queries) ListGateWindows(ctx context.Context, from, to time.Time) ([]model.GateCapacity, error) {
	return q.gateWindows(ctx,
		gateWindowCols+` WHERE start_ts >= ? AND start_ts < ? ORDER BY start_ts`,
		from.Unix(), to.Unix())
}

func (q *queries) gateWindows(ctx context.Context, query string, args ...any) ([]model.GateCapacity, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []model.GateCapacity
	for rows.Next() {
		var w model.GateCapacity
		var start, end int64
		if err := rows.Scan(&w.ID, &start, &end, &w.MaxSlots, &w.UsedSlots, &w.PeakHour, &w.Status); err != nil {
			return nil, err
		}
		w.Start = time.Unix(start, 0).UTC()
		w.End = time.Unix(end, 0).UTC()
		res = append(res, w)
	}
	return res, rows.Err()
}

// ReserveSlotCapacity is a single conditional update so concurrent reservers
// can never push used_slots past max_slots.
func (q *queries) ReserveSlotCapacity(ctx context.Context, windowID string) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE gate_windows SET used_slots = used_slots + 1
		 WHERE id = ? AND used_slots < max_slots AND status = ?`,
		windowID, model.GateOpen)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Bookings.

func (q *queries) CreateBooking(ctx context.Context, b model.Booking) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO bookings (id, request_id, slot_start, slot_end, status, blocked_reason, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.RequestID, b.SlotStart.Unix(), b.SlotEnd.Unix(), b.Status, b.BlockedReason, b.UpdatedAt.Unix())
	return err
}

func (q *queries) BookingByID(ctx context.Context, id string) (model.Booking, error) {
	var b model.Booking
	var start, end, updated int64
	err := q.db.QueryRowContext(ctx,
		`SELECT id, request_id, slot_start, slot_end, status, blocked_reason, updated_at
		 FROM bookings WHERE id = ?`, id).
		Scan(&b.ID, &b.RequestID, &start, &end, &b.Status, &b.BlockedReason, &updated)
	if err != nil {
		return model.Booking{}, mapErr(err)
	}
	b.SlotStart = time.Unix(start, 0).UTC()
	b.SlotEnd = time.Unix(end, 0).UTC()
	b.UpdatedAt = time.Unix(updated, 0).UTC()
	return b, nil
}

func (q *queries) UpdateBooking(ctx context.Context, b model.Booking) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE bookings SET slot_start = ?, slot_end = ?, status = ?, blocked_reason = ?, updated_at = ?
		 WHERE id = ?`,
		b.SlotStart.Unix(), b.SlotEnd.Unix(), b.Status, b.BlockedReason, b.UpdatedAt.Unix(), b.ID)
	if err != nil {
		return err
	}
	return affected(res)
}

const bookingDetailCols = `
	SELECT b.id, b.request_id, b.slot_start, b.slot_end, b.status, b.blocked_reason, b.updated_at,
	       r.company_id, c.id, c.no, c.yard_zone
	FROM bookings b
	JOIN pickup_requests r ON r.id = b.request_id
	JOIN containers c ON c.id = r.container_id`

func (q *queries) ActiveBookingsByContainer(ctx context.Context, containerID string) ([]storage.BookingDetail, error) {
	return q.bookingDetails(ctx,
		bookingDetailCols+` WHERE c.id = ? AND b.status IN (?, ?)`,
		containerID, model.BookingConfirmed, model.BookingRescheduled)
}

func (q *queries) ConfirmedBookingsInZones(ctx context.Context, zones []string) ([]storage.BookingDetail, error) {
	if len(zones) == 0 {
		return nil, nil
	}
	query := bookingDetailCols + ` WHERE b.status = ? AND c.yard_zone IN (?`
	args := []any{model.BookingConfirmed, zones[0]}
	for _, z := range zones[1:] {
		query += `, ?`
		args = append(args, z)
	}
	query += `)`
	return q.bookingDetails(ctx, query, args...)
}

func (q *queries) ImpactedBookingsSince(ctx context.Context, since time.Time, limit int) ([]storage.BookingDetail, error) {
	return q.bookingDetails(ctx,
		bookingDetailCols+` WHERE b.status IN (?, ?) AND b.updated_at >= ? ORDER BY b.updated_at DESC LIMIT ?`,
		model.BookingRescheduled, model.BookingBlocked, since.Unix(), limit)
}

func (q *queries) bookingDetails(ctx context.Context, query string, args ...any) ([]storage.BookingDetail, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []storage.BookingDetail
	for rows.Next() {
		var det storage.BookingDetail
		var start, end, updated int64
		if err := rows.Scan(
			&det.Booking.ID, &det.Booking.RequestID, &start, &end,
			&det.Booking.Status, &det.Booking.BlockedReason, &updated,
			&det.CompanyID, &det.ContainerID, &det.ContainerNo, &det.YardZone,
		); err != nil {
			return nil, err
		}
		det.Booking.SlotStart = time.Unix(start, 0).UTC()
		det.Booking.SlotEnd = time.Unix(end, 0).UTC()
		det.Booking.UpdatedAt = time.Unix(updated, 0).UTC()
		res = append(res, det)
	}
	return res, rows.Err()
}

// ClaimReoptimization inserts the (disruption, booking) pair if unseen and
// reports whether this call made the claim.
func (q *queries) ClaimReoptimization(ctx context.Context, disruptionID, bookingID string) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO reoptimized_bookings (disruption_id, booking_id) VALUES (?, ?)`,
		disruptionID, bookingID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Assignments and drivers.

func (q *queries) CreateAssignment(ctx context.Context, a model.Assignment) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO assignments (id, booking_id, driver_id, type, status, route, actual_in, actual_out, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.BookingID, a.DriverID, a.Type, a.Status, marshal(a.Route), tsPtr(a.ActualIn), tsPtr(a.ActualOut), a.UpdatedAt.Unix())
	return err
}

func (q *queries) AssignmentByID(ctx context.Context, id string) (model.Assignment, error) {
	var a model.Assignment
	var route string
	var in, out sql.NullInt64
	var updated int64
	err := q.db.QueryRowContext(ctx,
		`SELECT id, booking_id, driver_id, type, status, route, actual_in, actual_out, updated_at
		 FROM assignments WHERE id = ?`, id).
		Scan(&a.ID, &a.BookingID, &a.DriverID, &a.Type, &a.Status, &route, &in, &out, &updated)
	if err != nil {
		return model.Assignment{}, mapErr(err)
	}
	if err := json.Unmarshal([]byte(route), &a.Route); err != nil {
		return model.Assignment{}, err
	}
	a.ActualIn = ptrTime(in)
	a.ActualOut = ptrTime(out)
	a.UpdatedAt = time.Unix(updated, 0).UTC()
	return a, nil
}

func (q *queries) UpdateAssignment(ctx context.Context, a model.Assignment) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE assignments SET status = ?, route = ?, actual_in = ?, actual_out = ?, updated_at = ? WHERE id = ?`,
		a.Status, marshal(a.Route), tsPtr(a.ActualIn), tsPtr(a.ActualOut), a.UpdatedAt.Unix(), a.ID)
	if err != nil {
		return err
	}
	return affected(res)
}

func (q *queries) DriverByID(ctx context.Context, id string) (model.Driver, error) {
	return q.driver(ctx, `SELECT id, company_id, name, license_plate, lat, lng, status FROM drivers WHERE id = ?`, id)
}

func (q *queries) FirstDriverByCompany(ctx context.Context, companyID string) (model.Driver, error) {
	return q.driver(ctx,
		`SELECT id, company_id, name, license_plate, lat, lng, status
		 FROM drivers WHERE company_id = ? ORDER BY id LIMIT 1`, companyID)
}

func (q *queries) driver(ctx context.Context, query string, arg any) (model.Driver, error) {
	var d model.Driver
	err := q.db.QueryRowContext(ctx, query, arg).
		Scan(&d.ID, &d.CompanyID, &d.Name, &d.LicensePlate, &d.Lat, &d.Lng, &d.Status)
	if err != nil {
		return model.Driver{}, mapErr(err)
	}
	return d, nil
}

func (q *queries) UpdateDriverPosition(ctx context.Context, id string, lat, lng float64) error {
	res, err := q.db.ExecContext(ctx, `UPDATE drivers SET lat = ?, lng = ? WHERE id = ?`, lat, lng, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// Disruptions.

func (q *queries) CreateDisruption(ctx context.Context, d model.Disruption) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO disruptions (id, type, severity, start_ts, end_ts, zones, description, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Type, d.Severity, d.Start.Unix(), d.End.Unix(), marshal(d.AffectedZones), d.Description, d.Active)
	return err
}

func (q *queries) DisruptionByID(ctx context.Context, id string) (model.Disruption, error) {
	var d model.Disruption
	var start, end int64
	var zones string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, type, severity, start_ts, end_ts, zones, description, active FROM disruptions WHERE id = ?`, id).
		Scan(&d.ID, &d.Type, &d.Severity, &start, &end, &zones, &d.Description, &d.Active)
	if err != nil {
		return model.Disruption{}, mapErr(err)
	}
	d.Start = time.Unix(start, 0).UTC()
	d.End = time.Unix(end, 0).UTC()
	if err := json.Unmarshal([]byte(zones), &d.AffectedZones); err != nil {
		return model.Disruption{}, err
	}
	return d, nil
}

func (q *queries) CountActiveDisruptions(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM disruptions WHERE active = 1`).Scan(&n)
	return n, err
}

// Depots and return instructions.

// OpenDepotsByName returns open depots in allow-list order, so callers can
// keep the first candidate on cost ties.
func (q *queries) OpenDepotsByName(ctx context.Context, names []string) ([]model.Depot, error) {
	if len(names) == 0 {
		return nil, nil
	}
	query := `SELECT id, name, lat, lng, capacity, current_load, status FROM depots WHERE status = ? AND name IN (?`
	args := []any{model.DepotOpen, names[0]}
	for _, n := range names[1:] {
		query += `, ?`
		args = append(args, n)
	}
	query += `)`
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	byName := make(map[string]model.Depot)
	for rows.Next() {
		var d model.Depot
		if err := rows.Scan(&d.ID, &d.Name, &d.Lat, &d.Lng, &d.Capacity, &d.CurrentLoad, &d.Status); err != nil {
			return nil, err
		}
		byName[d.Name] = d
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var res []model.Depot
	for _, n := range names {
		if d, ok := byName[n]; ok {
			res = append(res, d)
		}
	}
	return res, nil
}

func (q *queries) ReturnInstructionByContainer(ctx context.Context, containerID string) (model.EmptyReturnInstruction, error) {
	var ins model.EmptyReturnInstruction
	var depots string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, container_id, allowed_depots, notes FROM return_instructions WHERE container_id = ?`, containerID).
		Scan(&ins.ID, &ins.ContainerID, &depots, &ins.Notes)
	if err != nil {
		return model.EmptyReturnInstruction{}, mapErr(err)
	}
	if err := json.Unmarshal([]byte(depots), &ins.AllowedDepots); err != nil {
		return model.EmptyReturnInstruction{}, err
	}
	return ins, nil
}

// Yard, users, notifications, audit.

func (q *queries) YardStatuses(ctx context.Context) ([]model.YardStatus, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT zone, occupancy_pct, updated_at FROM yard_statuses ORDER BY zone`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []model.YardStatus
	for rows.Next() {
		var ys model.YardStatus
		var updated int64
		if err := rows.Scan(&ys.Zone, &ys.OccupancyPct, &updated); err != nil {
			return nil, err
		}
		ys.UpdatedAt = time.Unix(updated, 0).UTC()
		res = append(res, ys)
	}
	return res, rows.Err()
}

func (q *queries) UpsertYardStatus(ctx context.Context, ys model.YardStatus) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO yard_statuses (zone, occupancy_pct, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(zone) DO UPDATE SET occupancy_pct = excluded.occupancy_pct, updated_at = excluded.updated_at`,
		ys.Zone, ys.OccupancyPct, ys.UpdatedAt.Unix())
	return err
}

func (q *queries) FirstUserByCompany(ctx context.Context, companyID string) (model.User, error) {
	var u model.User
	err := q.db.QueryRowContext(ctx,
		`SELECT id, company_id, name, email FROM users WHERE company_id = ? ORDER BY id LIMIT 1`, companyID).
		Scan(&u.ID, &u.CompanyID, &u.Name, &u.Email)
	if err != nil {
		return model.User{}, mapErr(err)
	}
	return u, nil
}

func (q *queries) CreateNotification(ctx context.Context, n model.Notification) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, title, message, level, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Message, n.Level, n.CreatedAt.Unix())
	return err
}

func (q *queries) AppendAudit(ctx context.Context, rec model.AuditRecord) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, actor_id, action, entity_type, entity_id, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ActorID, rec.Action, rec.EntityType, rec.EntityID, marshal(rec.Details), rec.CreatedAt.Unix())
	return err
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
