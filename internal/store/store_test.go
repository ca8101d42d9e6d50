package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verapine/tracepad/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "tracepad.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSubmitAttemptCreatesRecord(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	rec, err := st.SubmitAttempt(ctx, "mira", 'a', true, 72)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Letter != "A" {
		t.Fatalf("letter = %q, want A", rec.Letter)
	}
	if rec.Attempts != 1 || rec.Score != 72 || !rec.Completed {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.LastTraced.IsZero() {
		t.Fatal("last_traced not set")
	}
}

func TestSubmitAttemptMergeSemantics(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	// Completed with 60, then failed with 80: attempts counts both,
	// score keeps the max, completed stays latched.
	if _, err := st.SubmitAttempt(ctx, "mira", 'A', true, 60); err != nil {
		t.Fatalf("submit: %v", err)
	}
	rec, err := st.SubmitAttempt(ctx, "mira", 'A', false, 80)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", rec.Attempts)
	}
	if rec.Score != 80 {
		t.Fatalf("score = %d, want 80", rec.Score)
	}
	if !rec.Completed {
		t.Fatal("completed must stay true")
	}
}

func TestSubmitAttemptSequenceProperty(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	submissions := []struct {
		completed bool
		score     int
	}{
		{false, 10}, {false, 55}, {true, 40}, {false, 90}, {false, 5},
	}
	var rec model.ProgressRecord
	var err error
	for _, sub := range submissions {
		rec, err = st.SubmitAttempt(ctx, "kid", 'q', sub.completed, sub.score)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if rec.Attempts != len(submissions) {
		t.Fatalf("attempts = %d, want %d", rec.Attempts, len(submissions))
	}
	if rec.Score != 90 {
		t.Fatalf("score = %d, want 90", rec.Score)
	}
	if !rec.Completed {
		t.Fatal("completed must be true after any passing submission")
	}
}

func TestSubmitAttemptClampsScore(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	rec, err := st.SubmitAttempt(ctx, "kid", 'B', true, 250)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Score != 100 {
		t.Fatalf("score = %d, want 100", rec.Score)
	}
	rec, err = st.SubmitAttempt(ctx, "kid", 'C', false, -5)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Score != 0 {
		t.Fatalf("score = %d, want 0", rec.Score)
	}
}

func TestSubmitAttemptRequiresProfile(t *testing.T) {
	st := openTestStore(t)
	_, err := st.SubmitAttempt(context.Background(), "  ", 'A', true, 50)
	if !errors.Is(err, model.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSubmitAttemptRejectsInvalidLetter(t *testing.T) {
	st := openTestStore(t)
	_, err := st.SubmitAttempt(context.Background(), "kid", '!', true, 50)
	if !errors.Is(err, model.ErrInvalidLetter) {
		t.Fatalf("expected ErrInvalidLetter, got %v", err)
	}
}

func TestListRecordsOrderAndFilter(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	step := 0
	st.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Hour)
	}

	for _, letter := range []rune{'A', 'B', 'C'} {
		if _, err := st.SubmitAttempt(ctx, "mira", letter, true, 50); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	// Other profiles must not leak in.
	if _, err := st.SubmitAttempt(ctx, "theo", 'A', true, 99); err != nil {
		t.Fatalf("submit: %v", err)
	}

	records, err := st.ListRecords(ctx, "mira", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Letter != "C" || records[2].Letter != "A" {
		t.Fatalf("not ordered by last_traced desc: %+v", records)
	}

	only, err := st.ListRecords(ctx, "mira", 'b')
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(only) != 1 || only[0].Letter != "B" {
		t.Fatalf("letter filter broken: %+v", only)
	}
}

func TestListRecordsIdempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.SubmitAttempt(ctx, "kid", 'Z', true, 88); err != nil {
		t.Fatalf("submit: %v", err)
	}
	first, err := st.ListRecords(ctx, "kid", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	second, err := st.ListRecords(ctx, "kid", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("snapshots differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("snapshot %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestListRecentAttempts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	step := 0
	st.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	for i, letter := range []rune{'A', 'A', 'B'} {
		if _, err := st.SubmitAttempt(ctx, "kid", letter, i%2 == 0, 40+i); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	attempts, err := st.ListRecentAttempts(ctx, "kid", 2)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if attempts[0].Letter != "B" {
		t.Fatalf("newest attempt first, got %+v", attempts[0])
	}
}

func TestResetRecords(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for _, letter := range []rune{'A', 'B'} {
		if _, err := st.SubmitAttempt(ctx, "mira", letter, true, 70); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if _, err := st.SubmitAttempt(ctx, "theo", 'A', true, 70); err != nil {
		t.Fatalf("submit: %v", err)
	}

	deleted, err := st.ResetRecords(ctx, "mira", 'A')
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}

	deleted, err = st.ResetRecords(ctx, "mira", 0)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}

	records, err := st.ListRecords(ctx, "theo", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("other profile affected by reset: %+v", records)
	}
	attempts, err := st.ListRecentAttempts(ctx, "mira", 10)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 0 {
		t.Fatalf("attempt log not cleared: %+v", attempts)
	}
}

func TestProfiles(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, p := range []string{"theo", "mira", "theo"} {
		if _, err := st.SubmitAttempt(ctx, p, 'A', true, 50); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	profiles, err := st.Profiles(ctx)
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	if len(profiles) != 2 || profiles[0] != "mira" || profiles[1] != "theo" {
		t.Fatalf("unexpected profiles: %v", profiles)
	}
}
