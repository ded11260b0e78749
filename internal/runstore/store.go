package runstore

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
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users then need to delete the run database.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrRunNotFound indicates the requested run does not exist.
var ErrRunNotFound = errors.New("run not found")

const timeLayout = time.RFC3339Nano

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// CreateRun inserts a new run in the running state and returns it.
func (s *Store) CreateRun(ctx context.Context, sourcePath, targetLanguage, provider, model string) (*Run, error) {
	now := time.Now().UTC()
	run := &Run{
		SourcePath:     sourcePath,
		TargetLanguage: targetLanguage,
		Provider:       provider,
		Model:          model,
		Status:         RunStatusRunning,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (source_path, target_language, provider, model, status, error_message, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, '', ?, ?)`,
		run.SourcePath, run.TargetLanguage, run.Provider, run.Model, string(run.Status),
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read run id: %w", err)
	}
	run.ID = id
	return run, nil
}

// FinishRun moves a run into a terminal status.
func (s *Store) FinishRun(ctx context.Context, runID int64, status RunStatus, errorMessage string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE runs SET status = ?, error_message = ?, updated_at = ? WHERE id = ?",
		string(status), strings.TrimSpace(errorMessage), time.Now().UTC().Format(timeLayout), runID)
	if err != nil {
		return fmt.Errorf("update run %d: %w", runID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update run %d: %w", runID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrRunNotFound, runID)
	}
	return nil
}

// GetRun fetches one run by id.
func (s *Store) GetRun(ctx context.Context, runID int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_path, target_language, provider, model, status, error_message, created_at, updated_at
		 FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrRunNotFound, runID)
	}
	return run, err
}

// LatestRun fetches the most recently created run, or ErrRunNotFound when
// the store is empty.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_path, target_language, provider, model, status, error_message, created_at, updated_at
		 FROM runs ORDER BY id DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

// ListRuns returns the newest runs first, capped at limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_path, target_language, provider, model, status, error_message, created_at, updated_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// UpsertSegmentState records segment progress, replacing any earlier state
// of the same segment in the same run.
func (s *Store) UpsertSegmentState(ctx context.Context, state SegmentState) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO segment_states (run_id, segment_id, status, audio_path, remedy, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (run_id, segment_id) DO UPDATE SET
		   status = excluded.status,
		   audio_path = excluded.audio_path,
		   remedy = excluded.remedy,
		   updated_at = excluded.updated_at`,
		state.RunID, state.SegmentID, string(state.Status), state.AudioPath, state.Remedy,
		time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("upsert segment state %d/%d: %w", state.RunID, state.SegmentID, err)
	}
	return nil
}

// SegmentStates lists the stored states of a run ordered by segment id.
func (s *Store) SegmentStates(ctx context.Context, runID int64) ([]SegmentState, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, segment_id, status, audio_path, remedy, updated_at
		 FROM segment_states WHERE run_id = ? ORDER BY segment_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list segment states: %w", err)
	}
	defer rows.Close()

	var states []SegmentState
	for rows.Next() {
		var state SegmentState
		var status, updatedAt string
		if err := rows.Scan(&state.RunID, &state.SegmentID, &status, &state.AudioPath, &state.Remedy, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan segment state: %w", err)
		}
		state.Status = SegmentStatus(status)
		state.UpdatedAt = parseTime(updatedAt)
		states = append(states, state)
	}
	return states, rows.Err()
}

// RunProgress tallies the segment states of a run.
func (s *Store) RunProgress(ctx context.Context, runID int64) (Progress, error) {
	states, err := s.SegmentStates(ctx, runID)
	if err != nil {
		return Progress{}, err
	}
	progress := Progress{Total: len(states)}
	for _, state := range states {
		switch state.Status {
		case SegmentStatusTranslated:
			progress.Translated++
		case SegmentStatusSynthesized:
			progress.Synthesized++
		case SegmentStatusSkipped:
			progress.Skipped++
		case SegmentStatusFailed:
			progress.Failed++
		}
	}
	return progress, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var status, createdAt, updatedAt string
	if err := row.Scan(&run.ID, &run.SourcePath, &run.TargetLanguage, &run.Provider, &run.Model,
		&status, &run.ErrorMessage, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Status = RunStatus(status)
	run.CreatedAt = parseTime(createdAt)
	run.UpdatedAt = parseTime(updatedAt)
	return &run, nil
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(timeLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}
	}
	return parsed
}
