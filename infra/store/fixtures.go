package store

import (
	"context"

	"github.com/tannguyen1129/fresh-sync-demo/core/model"
)

// Fixture upserts used by seeding and tests. These sit outside the engine's
// storage ports: reference data arrives through integration channels in
// production, not through the engine.

func (q *queries) UpsertVessel(ctx context.Context, v model.Vessel) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO vessels (id, code, name, eta, ata, etd, status) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET code = excluded.code, name = excluded.name,
			eta = excluded.eta, ata = excluded.ata, etd = excluded.etd, status = excluded.status`,
		v.ID, v.Code, v.Name, v.ETA.Unix(), v.ATA.Unix(), v.ETD.Unix(), v.Status)
	return err
}

func (q *queries) UpsertContainer(ctx context.Context, c model.Container) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO containers (id, no, size, is_reefer, vessel_id, yard_zone, crt, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET no = excluded.no, size = excluded.size,
			is_reefer = excluded.is_reefer, vessel_id = excluded.vessel_id,
			yard_zone = excluded.yard_zone, crt = excluded.crt, status = excluded.status`,
		c.ID, c.No, c.Size, c.IsReefer, c.VesselID, c.YardZone, tsPtr(c.CRT), c.Status)
	return err
}

func (q *queries) UpsertDriver(ctx context.Context, d model.Driver) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO drivers (id, company_id, name, license_plate, lat, lng, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET company_id = excluded.company_id, name = excluded.name,
			license_plate = excluded.license_plate, lat = excluded.lat, lng = excluded.lng,
			status = excluded.status`,
		d.ID, d.CompanyID, d.Name, d.LicensePlate, d.Lat, d.Lng, d.Status)
	return err
}

func (q *queries) UpsertDepot(ctx context.Context, d model.Depot) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO depots (id, name, lat, lng, capacity, current_load, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, lat = excluded.lat,
			lng = excluded.lng, capacity = excluded.capacity,
			current_load = excluded.current_load, status = excluded.status`,
		d.ID, d.Name, d.Lat, d.Lng, d.Capacity, d.CurrentLoad, d.Status)
	return err
}

func (q *queries) UpsertUser(ctx context.Context, u model.User) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO users (id, company_id, name, email) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET company_id = excluded.company_id,
			name = excluded.name, email = excluded.email`,
		u.ID, u.CompanyID, u.Name, u.Email)
	return err
}

func (q *queries) UpsertReturnInstruction(ctx context.Context, ins model.EmptyReturnInstruction) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO return_instructions (id, container_id, allowed_depots, notes)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(container_id) DO UPDATE SET allowed_depots = excluded.allowed_depots,
			notes = excluded.notes`,
		ins.ID, ins.ContainerID, marshal(ins.AllowedDepots), ins.Notes)
	return err
}
