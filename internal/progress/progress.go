// Package progress contains pure aggregate computations over progress
// record snapshots: completion stats, per-letter state, streaks, and
// achievement unlocks.
package progress

import (
	"time"

	"github.com/verapine/tracepad/internal/glyph"
	"github.com/verapine/tracepad/internal/model"
)

// LetterState classifies a letter for display.
type LetterState int

// Letter states.
const (
	StateLocked LetterState = iota
	StateInProgress
	StateCompleted
)

// String implements fmt.Stringer.
func (s LetterState) String() string {
	switch s {
	case StateInProgress:
		return "in-progress"
	case StateCompleted:
		return "completed"
	default:
		return "locked"
	}
}

// Stats summarizes overall completion.
type Stats struct {
	Completed  int
	Total      int
	Percentage int
}

// CompletionStats derives overall completion from a record snapshot.
// Letters outside the target set are ignored, duplicates collapse, and
// the completed count never exceeds the target set size.
func CompletionStats(records []model.ProgressRecord) Stats {
	total := len(glyph.Letters)
	completed := map[rune]struct{}{}
	for _, rec := range byLetter(records) {
		if rec.Completed {
			r, _ := glyph.Normalize(firstRune(rec.Letter))
			completed[r] = struct{}{}
		}
	}
	count := len(completed)
	if count > total {
		count = total
	}
	pct := 0
	if total > 0 {
		pct = (count*100 + total/2) / total
	}
	return Stats{Completed: count, Total: total, Percentage: pct}
}

// StateOf returns the display state for one letter: locked with no
// record, completed once any attempt passed, in-progress otherwise.
func StateOf(records []model.ProgressRecord, letter rune) LetterState {
	letter, err := glyph.Normalize(letter)
	if err != nil {
		return StateLocked
	}
	rec, ok := byLetter(records)[letter]
	if !ok {
		return StateLocked
	}
	if rec.Completed {
		return StateCompleted
	}
	return StateInProgress
}

// CurrentStreak counts consecutive calendar days with at least one
// attempt, walking backward from today. Returns 0 when today has none.
// Dates are truncated in now's location.
func CurrentStreak(records []model.ProgressRecord, now time.Time) int {
	days := map[string]struct{}{}
	for _, rec := range records {
		if rec.LastTraced.IsZero() {
			continue
		}
		days[dayKey(rec.LastTraced.In(now.Location()))] = struct{}{}
	}
	streak := 0
	for day := now; ; day = day.AddDate(0, 0, -1) {
		if _, ok := days[dayKey(day)]; !ok {
			break
		}
		streak++
	}
	return streak
}

// ScoreOf returns the clamped best score for a letter, 0 when unknown.
func ScoreOf(records []model.ProgressRecord, letter rune) int {
	letter, err := glyph.Normalize(letter)
	if err != nil {
		return 0
	}
	rec, ok := byLetter(records)[letter]
	if !ok {
		return 0
	}
	return clampScore(rec.Score)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// byLetter collapses a snapshot to one record per valid letter, keeping
// the higher score and latching completed, so malformed snapshots
// degrade instead of distorting the aggregate.
func byLetter(records []model.ProgressRecord) map[rune]model.ProgressRecord {
	out := map[rune]model.ProgressRecord{}
	for _, rec := range records {
		r, err := glyph.Normalize(firstRune(rec.Letter))
		if err != nil {
			continue
		}
		rec.Score = clampScore(rec.Score)
		if prev, ok := out[r]; ok {
			if prev.Score > rec.Score {
				rec.Score = prev.Score
			}
			rec.Completed = rec.Completed || prev.Completed
			rec.Attempts += prev.Attempts
			if prev.LastTraced.After(rec.LastTraced) {
				rec.LastTraced = prev.LastTraced
			}
		}
		out[r] = rec
	}
	return out
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
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
