// Package history keeps a SQLite ledger of pipeline runs and their per-file outcomes.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Event types for ledger entries.
const (
	EventConverted = "converted"
	EventFailed    = "failed"
	EventGrouped   = "grouped"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
)

// Run is one pipeline invocation.
type Run struct {
	ID         int64      `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	InputRoot  string     `json:"input_root"`
	OutputRoot string     `json:"output_root"`
	Encoder    string     `json:"encoder"`
	Converted  int        `json:"converted"`
	Failed     int        `json:"failed"`
	Status     string     `json:"status"`
}

// Entry is a single per-file outcome within a run.
type Entry struct {
	ID        int64     `json:"id"`
	RunID     int64     `json:"run_id"`
	Event     string    `json:"event"`
	Path      string    `json:"path"`
	Detail    string    `json:"detail,omitempty"` // Error text for failures, output path for conversions
	CreatedAt time.Time `json:"created_at"`
}

// Filter specifies criteria for listing entries.
type Filter struct {
	RunID *int64
	Event *string
	Limit int
}

// Recorder receives run and entry updates from the pipeline.
type Recorder interface {
	StartRun(ctx context.Context, r *Run) error
	FinishRun(ctx context.Context, r *Run) error
	Add(ctx context.Context, e *Entry) error
}

// Nop is a Recorder that discards everything. It is used when the ledger is disabled.
type Nop struct{}

func (Nop) StartRun(context.Context, *Run) error  { return nil }
func (Nop) FinishRun(context.Context, *Run) error { return nil }
func (Nop) Add(context.Context, *Entry) error     { return nil }

var _ Recorder = (*Store)(nil)

// Store persists runs and entries.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database. The schema must already be applied; see Open.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the ledger database at path and applies the schema.
// path may be ":memory:".
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// StartRun inserts r with status running and sets its ID and StartedAt.
func (s *Store) StartRun(ctx context.Context, r *Run) error {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (started_at, input_root, output_root, encoder, status)
		VALUES (?, ?, ?, ?, ?)`,
		now, r.InputRoot, r.OutputRoot, r.Encoder, StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	r.ID = id
	r.StartedAt = now
	r.Status = StatusRunning
	return nil
}

// FinishRun stores r's counters, encoder and status and stamps FinishedAt.
// An empty status is recorded as completed.
func (s *Store) FinishRun(ctx context.Context, r *Run) error {
	if r.ID == 0 {
		return ErrNotStarted
	}
	if r.Status == "" || r.Status == StatusRunning {
		r.Status = StatusCompleted
	}
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, encoder = ?, converted = ?, failed = ?, status = ?
		WHERE id = ?`,
		now, r.Encoder, r.Converted, r.Failed, r.Status, r.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run %d: %w", r.ID, ErrNotFound)
	}
	r.FinishedAt = &now
	return nil
}

// Add inserts a new entry.
func (s *Store) Add(ctx context.Context, e *Entry) error {
	if e.RunID == 0 {
		return ErrNotStarted
	}
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (run_id, event, path, detail, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.RunID, e.Event, e.Path, e.Detail, now,
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	e.ID = id
	e.CreatedAt = now
	return nil
}

// List returns entries matching the filter, most recent first.
func (s *Store) List(ctx context.Context, f Filter) ([]*Entry, error) {
	var conditions []string
	var args []any

	if f.RunID != nil {
		conditions = append(conditions, "run_id = ?")
		args = append(args, *f.RunID)
	}
	if f.Event != nil {
		conditions = append(conditions, "event = ?")
		args = append(args, *f.Event)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT id, run_id, event, path, detail, created_at
		FROM entries ` + whereClause + ` ORDER BY id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.RunID, &e.Event, &e.Path, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return results, nil
}

const runColumns = `id, started_at, finished_at, input_root, output_root, encoder, converted, failed, status`

// Runs returns the most recent runs, newest first. limit <= 0 returns all runs.
func (s *Store) Runs(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return results, nil
}

// GetRun returns a single run by ID.
func (s *Store) GetRun(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	r := &Run{}
	var finished sql.NullTime
	err := sc.Scan(&r.ID, &r.StartedAt, &finished, &r.InputRoot, &r.OutputRoot,
		&r.Encoder, &r.Converted, &r.Failed, &r.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if finished.Valid {
		t := finished.Time
		r.FinishedAt = &t
	}
	return r, nil
}
