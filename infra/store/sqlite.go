// Package store provides the SQLite-backed implementation of the storage
// ports, plus an in-memory implementation for tests.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tannguyen1129/fresh-sync-demo/core/storage"
)

// Config holds storage settings.
type Config struct {
	Path string `json:"path"`
}

// SetDefaults applies the default database location.
func (c *Config) SetDefaults() {
	if c.Path == "" {
		c.Path = "freshsync.db"
	}
}

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS vessels (
	id TEXT PRIMARY KEY,
	code TEXT UNIQUE,
	name TEXT,
	eta INTEGER,
	ata INTEGER,
	etd INTEGER,
	status INTEGER
);

CREATE TABLE IF NOT EXISTS containers (
	id TEXT PRIMARY KEY,
	no TEXT UNIQUE,
	size TEXT,
	is_reefer INTEGER,
	vessel_id TEXT,
	yard_zone TEXT,
	crt INTEGER,
	status INTEGER
);

CREATE TABLE IF NOT EXISTS delivery_orders (
	id TEXT PRIMARY KEY,
	container_id TEXT UNIQUE,
	status INTEGER,
	valid_until INTEGER
);

CREATE TABLE IF NOT EXISTS pickup_requests (
	id TEXT PRIMARY KEY,
	company_id TEXT,
	container_id TEXT,
	requested_time INTEGER,
	priority INTEGER,
	status INTEGER,
	created_at INTEGER
);

CREATE TABLE IF NOT EXISTS recommendations (
	id TEXT PRIMARY KEY,
	request_id TEXT UNIQUE,
	slot_start INTEGER,
	slot_end INTEGER,
	risk_score REAL,
	explanation TEXT,
	route TEXT
);

CREATE TABLE IF NOT EXISTS gate_windows (
	id TEXT PRIMARY KEY,
	start_ts INTEGER,
	end_ts INTEGER,
	max_slots INTEGER,
	used_slots INTEGER,
	peak_hour INTEGER,
	status INTEGER
);

CREATE TABLE IF NOT EXISTS bookings (
	id TEXT PRIMARY KEY,
	request_id TEXT,
	slot_start INTEGER,
	slot_end INTEGER,
	status INTEGER,
	blocked_reason TEXT,
	updated_at INTEGER
);

CREATE TABLE IF NOT EXISTS reoptimized_bookings (
	disruption_id TEXT,
	booking_id TEXT,
	PRIMARY KEY (disruption_id, booking_id)
);

CREATE TABLE IF NOT EXISTS assignments (
	id TEXT PRIMARY KEY,
	booking_id TEXT,
	driver_id TEXT,
	type INTEGER,
	status INTEGER,
	route TEXT,
	actual_in INTEGER,
	actual_out INTEGER,
	updated_at INTEGER
);

CREATE TABLE IF NOT EXISTS drivers (
	id TEXT PRIMARY KEY,
	company_id TEXT,
	name TEXT,
	license_plate TEXT,
	lat REAL,
	lng REAL,
	status INTEGER
);

CREATE TABLE IF NOT EXISTS disruptions (
	id TEXT PRIMARY KEY,
	type INTEGER,
	severity INTEGER,
	start_ts INTEGER,
	end_ts INTEGER,
	zones TEXT,
	description TEXT,
	active INTEGER
);

CREATE TABLE IF NOT EXISTS depots (
	id TEXT PRIMARY KEY,
	name TEXT UNIQUE,
	lat REAL,
	lng REAL,
	capacity INTEGER,
	current_load INTEGER,
	status INTEGER
);

CREATE TABLE IF NOT EXISTS return_instructions (
	id TEXT PRIMARY KEY,
	container_id TEXT UNIQUE,
	allowed_depots TEXT,
	notes TEXT
);

CREATE TABLE IF NOT EXISTS yard_statuses (
	zone TEXT PRIMARY KEY,
	occupancy_pct REAL,
	updated_at INTEGER
);

CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	company_id TEXT,
	name TEXT,
	email TEXT
);

CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	user_id TEXT,
	title TEXT,
	message TEXT,
	level INTEGER,
	created_at INTEGER
);

CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	actor_id TEXT,
	action TEXT,
	entity_type TEXT,
	entity_id TEXT,
	details TEXT,
	created_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_bookings_request ON bookings(request_id);
CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status, updated_at);
CREATE INDEX IF NOT EXISTS idx_gate_windows_start ON gate_windows(start_ts);
CREATE INDEX IF NOT EXISTS idx_requests_container ON pickup_requests(container_id);
`

// SQLiteStore implements the storage ports on an embedded SQLite database.
type SQLiteStore struct {
	queries
	db *sql.DB
}

var _ storage.Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{queries: queries{db: db}, db: db}, nil
}

// WithTx runs fn inside a transaction. An error from fn rolls the whole unit
// of work back; nil commits it.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(tx storage.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&queries{db: tx}); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("rollback: %v (cause: %w)", rerr, err)
		}
		return err
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
