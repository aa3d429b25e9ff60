// Package queue provides the SQLite-backed durable job queue and the worker
// that drains it. Delivery is at-least-once: a job stays invisible for its
// lease and comes back when the worker dies mid-flight.
package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	corequeue "github.com/tannguyen1129/fresh-sync-demo/core/queue"
)

// Config holds queue settings.
type Config struct {
	Path                string `json:"path"`
	PollIntervalSeconds int    `json:"poll_interval_seconds"`
	LeaseSeconds        int    `json:"lease_seconds"`
	MaxAttempts         int    `json:"max_attempts"`
}

// SetDefaults applies polling and lease defaults.
func (c *Config) SetDefaults() {
	if c.Path == "" {
		c.Path = "freshsync-jobs.db"
	}
	if c.PollIntervalSeconds <= 0 {
		c.PollIntervalSeconds = 2
	}
	if c.LeaseSeconds <= 0 {
		c.LeaseSeconds = 60
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
}

// ErrEmpty is returned by Dequeue when no job is ready.
var ErrEmpty = errors.New("queue: empty")

const jobsSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	payload TEXT,
	attempts INTEGER DEFAULT 0,
	lease_until INTEGER DEFAULT 0,
	done INTEGER DEFAULT 0,
	created_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_jobs_ready ON jobs(done, lease_until);
`

// SQLiteQueue is a durable job queue on an embedded SQLite database.
type SQLiteQueue struct {
	db  *sql.DB
	cfg Config
	now func() time.Time
}

var _ corequeue.Queue = (*SQLiteQueue)(nil)

// NewSQLiteQueue opens or creates the database at cfg.Path and ensures schema.
func NewSQLiteQueue(cfg Config) (*SQLiteQueue, error) {
	cfg.SetDefaults()
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(jobsSchema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteQueue{db: db, cfg: cfg, now: time.Now}, nil
}

// SetClock overrides the queue's clock. Intended for tests.
func (q *SQLiteQueue) SetClock(now func() time.Time) {
	if now != nil {
		q.now = now
	}
}

// Enqueue stores one named job with a JSON payload. The job is visible to
// workers as soon as the insert commits.
func (q *SQLiteQueue) Enqueue(ctx context.Context, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	_, err = q.db.ExecContext(ctx,
		`INSERT INTO jobs (name, payload, created_at) VALUES (?, ?, ?)`,
		name, string(data), q.now().Unix())
	return err
}

// Dequeue leases the oldest ready job. A job is ready when it is not done,
// its lease has expired and it has attempts left. Returns ErrEmpty when
// nothing is ready.
func (q *SQLiteQueue) Dequeue(ctx context.Context) (corequeue.Job, error) {
	now := q.now().Unix()
	leaseUntil := now + int64(q.cfg.LeaseSeconds)
	for {
		var job corequeue.Job
		var payload string
		err := q.db.QueryRowContext(ctx,
			`SELECT id, name, payload FROM jobs
			 WHERE done = 0 AND lease_until <= ? AND attempts < ?
			 ORDER BY id LIMIT 1`,
			now, q.cfg.MaxAttempts).
			Scan(&job.ID, &job.Name, &payload)
		if errors.Is(err, sql.ErrNoRows) {
			return corequeue.Job{}, ErrEmpty
		}
		if err != nil {
			return corequeue.Job{}, err
		}

		// Conditional lease claim; a concurrent worker may have won the row.
		res, err := q.db.ExecContext(ctx,
			`UPDATE jobs SET lease_until = ?, attempts = attempts + 1
			 WHERE id = ? AND done = 0 AND lease_until <= ?`,
			leaseUntil, job.ID, now)
		if err != nil {
			return corequeue.Job{}, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return corequeue.Job{}, err
		}
		if n == 1 {
			job.Payload = []byte(payload)
			return job, nil
		}
	}
}

// Ack marks the job done so it is never redelivered.
func (q *SQLiteQueue) Ack(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `UPDATE jobs SET done = 1 WHERE id = ?`, id)
	return err
}

// Nack releases the lease so the job is redelivered immediately.
func (q *SQLiteQueue) Nack(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `UPDATE jobs SET lease_until = 0 WHERE id = ? AND done = 0`, id)
	return err
}

// Close closes the underlying database.
func (q *SQLiteQueue) Close() error { return q.db.Close() }
