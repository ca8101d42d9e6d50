package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verapine/tracepad/internal/model"
	"github.com/verapine/tracepad/internal/session"
	"github.com/verapine/tracepad/internal/store"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	return newTestModelWith(t, testConfig())
}

func newTestModelWith(t *testing.T, cfg model.Config) *Model {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tracepad.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	m, err := NewModel(cfg, st, 'a')
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func testConfig() model.Config {
	return model.Config{
		Profile:       "kid",
		Scorer:        "placeholder",
		PassThreshold: 60,
		CelebrateSecs: 1,
	}
}

func TestNewModelArmsSession(t *testing.T) {
	m := newTestModel(t)
	if m.ctrl.State() != session.StateDrawing {
		t.Fatalf("state = %v, want drawing", m.ctrl.State())
	}
	if m.canvas.Target() != 'A' {
		t.Fatalf("target = %q, want A", m.canvas.Target())
	}
}

func TestCellForScreenMapping(t *testing.T) {
	m := newTestModel(t)
	m.width = canvasWidth // no centering offset

	p, inside := m.cellForScreen(0, canvasOffsetY)
	if !inside || p.X != 0 || p.Y != 0 {
		t.Fatalf("top-left mapping wrong: %v inside=%v", p, inside)
	}
	if _, inside := m.cellForScreen(0, 0); inside {
		t.Fatal("header row mapped inside canvas")
	}
	if _, inside := m.cellForScreen(canvasWidth+5, canvasOffsetY); inside {
		t.Fatal("point right of canvas mapped inside")
	}
}

func TestViewShowsGuideAndHeader(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	if !strings.Contains(view, "Trace the letter A") {
		t.Fatalf("header missing:\n%s", view)
	}
	if !strings.Contains(view, "·") {
		t.Fatal("guide cells not rendered")
	}
}

// drawFailingStroke draws one short stroke and returns the submission
// cmd its release dispatched. The caller's config must make short
// strokes fail so the session re-arms instead of celebrating.
func drawFailingStroke(t *testing.T, m *Model) tea.Cmd {
	t.Helper()
	press := tea.MouseMsg{X: 1, Y: canvasOffsetY + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	if _, _ = m.updateMouse(press); !m.mouseInk {
		t.Fatal("press did not start a stroke")
	}
	m.updateMouse(tea.MouseMsg{X: 4, Y: canvasOffsetY + 1, Action: tea.MouseActionMotion})
	_, cmd := m.updateMouse(tea.MouseMsg{X: 4, Y: canvasOffsetY + 1, Action: tea.MouseActionRelease})
	if cmd == nil {
		t.Fatal("failed attempt did not dispatch a submission")
	}
	return cmd
}

func TestFailedAttemptsBothReachStore(t *testing.T) {
	cfg := testConfig()
	cfg.Scorer = "coverage"
	cfg.PassThreshold = 100
	m := newTestModelWith(t, cfg)

	cmd1 := drawFailingStroke(t, m)
	cmd2 := drawFailingStroke(t, m)

	// Outcomes can land in any order; settle the newer one first so the
	// older one arrives stale.
	msg2 := cmd2()
	msg1 := cmd1()
	m.Update(msg2)
	m.Update(msg1)

	records, err := m.store.ListRecords(context.Background(), cfg.Profile, 'A')
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Attempts != 2 {
		t.Fatalf("attempts = %d, want 2; an evaluated attempt was dropped", records[0].Attempts)
	}
	if m.ctrl.Pending() != nil {
		t.Fatal("pending submission not settled")
	}
	if m.submitFailed {
		t.Fatal("successful submissions left the retry affordance up")
	}
}

func TestResetKeyDiscardsInk(t *testing.T) {
	m := newTestModel(t)
	press := tea.MouseMsg{X: 5, Y: canvasOffsetY + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	if _, _ = m.updateMouse(press); !m.mouseInk {
		t.Fatal("press did not start a stroke")
	}
	m.updateMouse(tea.MouseMsg{X: 9, Y: canvasOffsetY + 4, Action: tea.MouseActionMotion})
	m.resetSession()
	if m.canvas.Strokes() != nil {
		t.Fatal("strokes survived reset")
	}
	if m.ctrl.State() != session.StateDrawing {
		t.Fatalf("state after reset = %v, want drawing", m.ctrl.State())
	}
}
