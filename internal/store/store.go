// Package store handles SQLite persistence of progress records.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verapine/tracepad/internal/glyph"
	"github.com/verapine/tracepad/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for per-profile letter progress.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trace_records (
			profile TEXT NOT NULL,
			letter TEXT NOT NULL,
			attempts INTEGER NOT NULL,
			score INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			last_traced TEXT NOT NULL,
			PRIMARY KEY (profile, letter)
		);`,
		`CREATE TABLE IF NOT EXISTS trace_attempts (
			id INTEGER PRIMARY KEY,
			profile TEXT NOT NULL,
			letter TEXT NOT NULL,
			score INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			traced_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trace_records_last_traced ON trace_records(last_traced);`,
		`CREATE INDEX IF NOT EXISTS idx_trace_attempts_profile ON trace_attempts(profile, traced_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SubmitAttempt merges one finished attempt into the profile's record
// for the letter and returns the result. The record merge is a single
// upsert: attempts increments in SQL, score keeps the maximum, completed
// latches true, last_traced always takes the submission time. Two
// concurrent submissions for the same letter therefore never lose an
// attempt to a stale read.
func (s *Store) SubmitAttempt(ctx context.Context, profile string, letter rune, completed bool, scoreVal int) (model.ProgressRecord, error) {
	if strings.TrimSpace(profile) == "" {
		return model.ProgressRecord{}, model.ErrNotAuthenticated
	}
	letter, err := glyph.Normalize(letter)
	if err != nil {
		return model.ProgressRecord{}, err
	}
	scoreVal = clampScore(scoreVal)
	now := s.now().UTC()
	ts := now.Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ProgressRecord{}, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trace_records (profile, letter, attempts, score, completed, last_traced)
		 VALUES (?, ?, 1, ?, ?, ?)
		 ON CONFLICT(profile, letter) DO UPDATE SET
			attempts = attempts + 1,
			score = MAX(score, excluded.score),
			completed = MAX(completed, excluded.completed),
			last_traced = excluded.last_traced`,
		profile, string(letter), scoreVal, boolToInt(completed), ts)
	if err != nil {
		return model.ProgressRecord{}, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trace_attempts (profile, letter, score, completed, traced_at)
		 VALUES (?, ?, ?, ?, ?)`,
		profile, string(letter), scoreVal, boolToInt(completed), ts)
	if err != nil {
		return model.ProgressRecord{}, err
	}

	var rec model.ProgressRecord
	rec, err = scanRecord(tx.QueryRowContext(ctx,
		`SELECT profile, letter, attempts, score, completed, last_traced
		 FROM trace_records WHERE profile = ? AND letter = ?`,
		profile, string(letter)))
	if err != nil {
		return model.ProgressRecord{}, err
	}

	if err = tx.Commit(); err != nil {
		return model.ProgressRecord{}, err
	}
	return rec, nil
}

// ListRecords returns the profile's records, newest first. A non-zero
// letter narrows the result to that letter.
func (s *Store) ListRecords(ctx context.Context, profile string, letter rune) ([]model.ProgressRecord, error) {
	if strings.TrimSpace(profile) == "" {
		return nil, model.ErrNotAuthenticated
	}
	clauses := []string{"profile = ?"}
	args := []any{profile}
	if letter != 0 {
		normalized, err := glyph.Normalize(letter)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, "letter = ?")
		args = append(args, string(normalized))
	}
	query := fmt.Sprintf(`SELECT profile, letter, attempts, score, completed, last_traced
		FROM trace_records
		WHERE %s
		ORDER BY last_traced DESC, letter ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.ProgressRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ListRecentAttempts returns the newest entries from the attempt log.
func (s *Store) ListRecentAttempts(ctx context.Context, profile string, limit int) ([]model.AttemptRecord, error) {
	if strings.TrimSpace(profile) == "" {
		return nil, model.ErrNotAuthenticated
	}
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, profile, letter, score, completed, traced_at
		 FROM trace_attempts
		 WHERE profile = ?
		 ORDER BY traced_at DESC, id DESC
		 LIMIT ?`, profile, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var attempts []model.AttemptRecord
	for rows.Next() {
		var a model.AttemptRecord
		var completed int
		var tracedAt string
		if err := rows.Scan(&a.ID, &a.Profile, &a.Letter, &a.Score, &completed, &tracedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, tracedAt)
		if err != nil {
			return nil, err
		}
		a.Completed = completed != 0
		a.TracedAt = parsed
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// Profiles lists the profiles present in the store, sorted.
func (s *Store) Profiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT profile FROM trace_records ORDER BY profile ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var profiles []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ResetRecords deletes a profile's records and attempt log, optionally
// narrowed to one letter. Administrative entry point only; returns the
// number of deleted records.
func (s *Store) ResetRecords(ctx context.Context, profile string, letter rune) (int64, error) {
	if strings.TrimSpace(profile) == "" {
		return 0, model.ErrNotAuthenticated
	}
	clauses := []string{"profile = ?"}
	args := []any{profile}
	if letter != 0 {
		normalized, err := glyph.Normalize(letter)
		if err != nil {
			return 0, err
		}
		clauses = append(clauses, "letter = ?")
		args = append(args, string(normalized))
	}
	where := strings.Join(clauses, " AND ")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM trace_records WHERE %s`, where), args...)
	if err != nil {
		return 0, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM trace_attempts WHERE %s`, where), args...)
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.ProgressRecord, error) {
	var rec model.ProgressRecord
	var completed int
	var lastTraced string
	if err := row.Scan(&rec.Profile, &rec.Letter, &rec.Attempts, &rec.Score, &completed, &lastTraced); err != nil {
		return model.ProgressRecord{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, lastTraced)
	if err != nil {
		return model.ProgressRecord{}, err
	}
	rec.Completed = completed != 0
	rec.LastTraced = parsed
	return rec, nil
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
