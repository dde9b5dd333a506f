package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/savegress/taskflow/pkg/models"
)

// ErrNotFound is returned when a job id has no record
var ErrNotFound = errors.New("job not found")

// Store is a SQLite-backed job history
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (or creates) the job database under dataPath
func NewStore(dataPath string) (*Store, error) {
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataPath, "jobs.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		result TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		submitted_at INTEGER NOT NULL,
		started_at INTEGER,
		completed_at INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	CREATE INDEX IF NOT EXISTS idx_jobs_submitted ON jobs(submitted_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Insert records a freshly submitted job
func (s *Store) Insert(ctx context.Context, rec *models.JobRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, type, status, submitted_at) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Type, string(rec.Status), rec.SubmittedAt.UnixNano())
	return err
}

// MarkRunning transitions a job to running
func (s *Store) MarkRunning(ctx context.Context, id string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, started_at = ? WHERE id = ?`,
		string(models.JobStatusRunning), at.UnixNano(), id)
	return err
}

// MarkCompleted transitions a job to completed with its result
func (s *Store) MarkCompleted(ctx context.Context, id, result string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, result = ?, completed_at = ? WHERE id = ?`,
		string(models.JobStatusCompleted), result, at.UnixNano(), id)
	return err
}

// MarkFailed transitions a job to failed with its error message
func (s *Store) MarkFailed(ctx context.Context, id, errMsg string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, completed_at = ? WHERE id = ?`,
		string(models.JobStatusFailed), errMsg, at.UnixNano(), id)
	return err
}

// Get returns one job record, or ErrNotFound
func (s *Store) Get(ctx context.Context, id string) (*models.JobRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, status, result, error, submitted_at, started_at, completed_at
		 FROM jobs WHERE id = ?`, id)

	rec, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// List returns the most recently submitted jobs, newest first
func (s *Store) List(ctx context.Context, limit int) ([]*models.JobRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, status, result, error, submitted_at, started_at, completed_at
		 FROM jobs ORDER BY submitted_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*models.JobRecord{}
	for rows.Next() {
		rec, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Counts aggregates job records by status
func (s *Store) Counts(ctx context.Context) (*models.JobCounts, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := &models.JobCounts{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		switch models.JobStatus(status) {
		case models.JobStatusQueued:
			counts.Queued = n
		case models.JobStatusRunning:
			counts.Running = n
		case models.JobStatusCompleted:
			counts.Completed = n
		case models.JobStatusFailed:
			counts.Failed = n
		}
	}
	return counts, rows.Err()
}

// Cleanup removes finished jobs older than the retention window
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UnixNano()
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM jobs WHERE completed_at IS NOT NULL AND completed_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.JobRecord, error) {
	var rec models.JobRecord
	var status string
	var submitted int64
	var started, completed sql.NullInt64

	if err := row.Scan(&rec.ID, &rec.Type, &status, &rec.Result, &rec.Error,
		&submitted, &started, &completed); err != nil {
		return nil, err
	}

	rec.Status = models.JobStatus(status)
	rec.SubmittedAt = time.Unix(0, submitted)
	if started.Valid {
		t := time.Unix(0, started.Int64)
		rec.StartedAt = &t
	}
	if completed.Valid {
		t := time.Unix(0, completed.Int64)
		rec.CompletedAt = &t
	}
	return &rec, nil
}
