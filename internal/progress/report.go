package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/verapine/tracepad/internal/glyph"
	"github.com/verapine/tracepad/internal/model"
)

const sparkChars = " .:-=+*#%@"

// LetterBar renders a one-line sparkline of best scores across the
// alphabet, one column per letter in display order.
func LetterBar(records []model.ProgressRecord) string {
	out := make([]byte, len(glyph.Letters))
	for i, r := range glyph.Letters {
		score := ScoreOf(records, r)
		idx := score * (len(sparkChars) - 1) / 100
		out[i] = sparkChars[idx]
	}
	return string(out)
}

// RenderSummary prints the overall progress report: completion,
// streak, score bar, and unlocked achievements.
func RenderSummary(w io.Writer, records []model.ProgressRecord, now time.Time) error {
	stats := CompletionStats(records)
	if _, err := fmt.Fprintln(w, "Progress"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Letters: %d/%d (%d%%)\n", stats.Completed, stats.Total, stats.Percentage); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Streak: %d day(s)\n", CurrentStreak(records, now)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Attempts: %d\n", SummaryOf(records).TotalAttempts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scores:  [%s]\n", LetterBar(records)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "         [%s]\n", string(glyph.Letters)); err != nil {
		return err
	}
	unlocked := Unlocked(records)
	if _, err := fmt.Fprintf(w, "Achievements: %d/%d\n", len(unlocked), len(Achievements)); err != nil {
		return err
	}
	for _, a := range unlocked {
		if _, err := fmt.Fprintf(w, "  * %s · %s\n", a.Title, a.Caption); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderLetterTable prints per-letter state, score, and attempts.
func RenderLetterTable(w io.Writer, records []model.ProgressRecord) error {
	headers := []string{"Letter", "State", "Score", "Attempts", "Last Traced"}
	rows := make([][]string, 0, len(glyph.Letters))
	index := byLetter(records)
	for _, r := range glyph.Letters {
		rec, ok := index[r]
		last := "-"
		score := "-"
		attempts := "-"
		if ok {
			last = rec.LastTraced.Local().Format("2006-01-02 15:04")
			score = fmt.Sprintf("%d", rec.Score)
			attempts = fmt.Sprintf("%d", rec.Attempts)
		}
		rows = append(rows, []string{
			string(r),
			StateOf(records, r).String(),
			score,
			attempts,
			last,
		})
	}
	rightAlign := map[int]bool{2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
