package progress

import (
	"testing"
	"time"

	"github.com/verapine/tracepad/internal/model"
)

func rec(letter string, completed bool, score int, lastTraced time.Time) model.ProgressRecord {
	return model.ProgressRecord{
		Profile:    "kid",
		Letter:     letter,
		Attempts:   1,
		Score:      score,
		Completed:  completed,
		LastTraced: lastTraced,
	}
}

func lettersUpTo(n int, completed bool, when time.Time) []model.ProgressRecord {
	out := make([]model.ProgressRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, rec(string(rune('A'+i)), completed, 70, when))
	}
	return out
}

func TestCompletionStats(t *testing.T) {
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		records []model.ProgressRecord
		want    Stats
	}{
		{"empty", nil, Stats{Completed: 0, Total: 26, Percentage: 0}},
		{"one", lettersUpTo(1, true, now), Stats{Completed: 1, Total: 26, Percentage: 4}},
		{"halfway", lettersUpTo(13, true, now), Stats{Completed: 13, Total: 26, Percentage: 50}},
		{"all", lettersUpTo(26, true, now), Stats{Completed: 26, Total: 26, Percentage: 100}},
		{"incomplete records do not count", lettersUpTo(5, false, now), Stats{Completed: 0, Total: 26, Percentage: 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := CompletionStats(c.records)
			if got != c.want {
				t.Fatalf("CompletionStats = %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestCompletionStatsClampsDuplicatesAndForeignLetters(t *testing.T) {
	now := time.Now()
	records := []model.ProgressRecord{
		rec("A", true, 70, now),
		rec("a", true, 70, now), // duplicate, case-insensitive
		rec("?", true, 70, now), // outside the target set
	}
	got := CompletionStats(records)
	if got.Completed != 1 {
		t.Fatalf("Completed = %d, want 1", got.Completed)
	}
}

func TestStateOf(t *testing.T) {
	now := time.Now()
	records := []model.ProgressRecord{
		rec("A", true, 80, now),
		rec("B", false, 30, now),
	}
	if s := StateOf(records, 'A'); s != StateCompleted {
		t.Fatalf("A = %v, want completed", s)
	}
	if s := StateOf(records, 'b'); s != StateInProgress {
		t.Fatalf("B = %v, want in-progress", s)
	}
	if s := StateOf(records, 'C'); s != StateLocked {
		t.Fatalf("C = %v, want locked", s)
	}
	if s := StateOf(records, '!'); s != StateLocked {
		t.Fatalf("invalid letter = %v, want locked", s)
	}
}

func TestCurrentStreak(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 6, d, 9, 30, 0, 0, time.UTC)
	}
	now := time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		records []model.ProgressRecord
		want    int
	}{
		{"no records", nil, 0},
		{
			"three consecutive days",
			[]model.ProgressRecord{
				rec("A", true, 70, day(1)),
				rec("B", true, 70, day(2)),
				rec("C", true, 70, day(3)),
			},
			3,
		},
		{
			"gap breaks streak",
			[]model.ProgressRecord{
				rec("A", true, 70, day(1)),
				rec("C", true, 70, day(3)),
			},
			1,
		},
		{
			"today absent",
			[]model.ProgressRecord{
				rec("A", true, 70, day(1)),
				rec("B", true, 70, day(2)),
			},
			0,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CurrentStreak(c.records, now); got != c.want {
				t.Fatalf("CurrentStreak = %d, want %d", got, c.want)
			}
		})
	}
}

func TestScoreOfClampsOutOfRange(t *testing.T) {
	now := time.Now()
	records := []model.ProgressRecord{
		rec("A", true, 400, now),
		rec("B", false, -20, now),
	}
	if got := ScoreOf(records, 'A'); got != 100 {
		t.Fatalf("ScoreOf(A) = %d, want 100", got)
	}
	if got := ScoreOf(records, 'B'); got != 0 {
		t.Fatalf("ScoreOf(B) = %d, want 0", got)
	}
	if got := ScoreOf(records, 'Z'); got != 0 {
		t.Fatalf("ScoreOf(Z) = %d, want 0", got)
	}
}
