package progress

import (
	"github.com/verapine/tracepad/internal/glyph"
	"github.com/verapine/tracepad/internal/model"
)

// Summary carries the aggregate values achievement predicates see.
type Summary struct {
	CompletedCount int
	TotalAttempts  int
}

// Achievement is a named milestone with a pure unlock predicate.
type Achievement struct {
	ID      string
	Title   string
	Caption string
	Unlock  func(Summary) bool
}

// Achievements is the declarative milestone table. New milestones are
// added here, not in aggregation code.
var Achievements = []Achievement{
	{
		ID:      "first-letter",
		Title:   "First Letter",
		Caption: "Complete your first letter",
		Unlock:  func(s Summary) bool { return s.CompletedCount >= 1 },
	},
	{
		ID:      "high-five",
		Title:   "High Five",
		Caption: "Complete five letters",
		Unlock:  func(s Summary) bool { return s.CompletedCount >= 5 },
	},
	{
		ID:      "halfway",
		Title:   "Halfway There",
		Caption: "Complete half the alphabet",
		Unlock:  func(s Summary) bool { return s.CompletedCount >= (len(glyph.Letters)+1)/2 },
	},
	{
		ID:      "alphabet-pro",
		Title:   "Alphabet Pro",
		Caption: "Complete every letter",
		Unlock:  func(s Summary) bool { return s.CompletedCount >= len(glyph.Letters) },
	},
	{
		ID:      "busy-pencil",
		Title:   "Busy Pencil",
		Caption: "Trace one hundred times",
		Unlock:  func(s Summary) bool { return s.TotalAttempts >= 100 },
	},
}

// SummaryOf reduces a record snapshot to the values predicates need.
func SummaryOf(records []model.ProgressRecord) Summary {
	attempts := 0
	for _, rec := range byLetter(records) {
		attempts += rec.Attempts
	}
	return Summary{
		CompletedCount: CompletionStats(records).Completed,
		TotalAttempts:  attempts,
	}
}

// Unlocked returns the achievements whose predicates hold for the
// snapshot, in table order.
func Unlocked(records []model.ProgressRecord) []Achievement {
	s := SummaryOf(records)
	var out []Achievement
	for _, a := range Achievements {
		if a.Unlock(s) {
			out = append(out, a)
		}
	}
	return out
}
