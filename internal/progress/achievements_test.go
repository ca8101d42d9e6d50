package progress

import (
	"testing"
	"time"
)

func hasAchievement(ids []Achievement, id string) bool {
	for _, a := range ids {
		if a.ID == id {
			return true
		}
	}
	return false
}

func TestUnlockedThresholds(t *testing.T) {
	now := time.Now()

	none := Unlocked(nil)
	if len(none) != 0 {
		t.Fatalf("empty snapshot unlocked %d achievements", len(none))
	}

	one := Unlocked(lettersUpTo(1, true, now))
	if !hasAchievement(one, "first-letter") {
		t.Fatal("first-letter not unlocked at 1 completed")
	}
	if hasAchievement(one, "high-five") {
		t.Fatal("high-five unlocked too early")
	}

	halfway := Unlocked(lettersUpTo(13, true, now))
	if !hasAchievement(halfway, "halfway") {
		t.Fatal("halfway not unlocked at 13 completed")
	}
	if hasAchievement(halfway, "alphabet-pro") {
		t.Fatal("alphabet-pro unlocked at 13 completed")
	}

	all := Unlocked(lettersUpTo(26, true, now))
	if !hasAchievement(all, "alphabet-pro") {
		t.Fatal("alphabet-pro not unlocked at 26 completed")
	}
}

func TestBusyPencilCountsAttempts(t *testing.T) {
	now := time.Now()
	records := lettersUpTo(4, false, now)
	records[0].Attempts = 97
	s := SummaryOf(records)
	if s.TotalAttempts != 100 {
		t.Fatalf("TotalAttempts = %d, want 100", s.TotalAttempts)
	}
	if !hasAchievement(Unlocked(records), "busy-pencil") {
		t.Fatal("busy-pencil not unlocked at 100 attempts")
	}
}
