// Package tui provides the Bubble Tea tracing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"github.com/verapine/tracepad/internal/canvas"
	"github.com/verapine/tracepad/internal/model"
	"github.com/verapine/tracepad/internal/picker"
	progressPkg "github.com/verapine/tracepad/internal/progress"
	"github.com/verapine/tracepad/internal/score"
	"github.com/verapine/tracepad/internal/session"
	"github.com/verapine/tracepad/internal/store"
)

// Canvas cell dimensions; terminal cells are roughly twice as tall as
// wide, so the grid leans wide to keep glyph proportions.
const (
	canvasWidth  = 33
	canvasHeight = 15
)

var (
	guideStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	inkStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	celebrateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	retryStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type submitDoneMsg struct {
	id     uuid.UUID
	record model.ProgressRecord
	err    error
}

type celebrationTimeoutMsg struct{}

// Model implements the Bubble Tea tracing UI.
type Model struct {
	config model.Config
	store  *store.Store
	ctrl   *session.Controller
	canvas *canvas.Canvas
	pick   *picker.Picker

	records []model.ProgressRecord

	width  int
	height int

	cursor   model.Point
	penDown  bool
	mouseInk bool

	submitFailed bool
	lastRecord   *model.ProgressRecord
}

// NewModel constructs a tracing TUI model for one profile and target.
func NewModel(cfg model.Config, st *store.Store, target rune) (*Model, error) {
	surface := canvas.New(canvasWidth, canvasHeight)
	if err := surface.SetTarget(target); err != nil {
		return nil, err
	}
	m := &Model{
		config: cfg,
		store:  st,
		canvas: surface,
		pick:   picker.New(),
		cursor: model.Point{X: canvasWidth / 2, Y: canvasHeight / 2},
	}
	ctrl, err := session.New(cfg.Profile, surface.Target(), m.makeEvaluator(), st)
	if err != nil {
		return nil, err
	}
	m.ctrl = ctrl
	m.reloadRecords()
	m.ctrl.Start()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case tea.KeyMsg:
		return m.updateKey(msg)
	case submitDoneMsg:
		settled := m.ctrl.Settle(msg.id, msg.err)
		if msg.err != nil {
			if settled {
				m.submitFailed = true
			}
			return m, nil
		}
		if settled {
			m.submitFailed = false
		}
		rec := msg.record
		m.lastRecord = &rec
		m.reloadRecords()
		return m, nil
	case celebrationTimeoutMsg:
		if m.ctrl.State() == session.StateCelebrating {
			m.nextTarget()
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyUp:
		m.moveCursor(0, -1)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(0, 1)
		return m, nil
	case tea.KeyLeft:
		m.moveCursor(-1, 0)
		return m, nil
	case tea.KeyRight:
		m.moveCursor(1, 0)
		return m, nil
	case tea.KeySpace:
		m.togglePen()
		return m, nil
	case tea.KeyEnter:
		if m.ctrl.State() == session.StateCelebrating {
			m.nextTarget()
			return m, nil
		}
		return m, m.finishStrokes()
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.resetSession()
		return m, nil
	case "n":
		m.nextTarget()
		return m, nil
	case "s":
		if m.submitFailed {
			return m, m.submitCmd()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p, inside := m.cellForScreen(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return m, nil
		}
		if m.ctrl.State() == session.StateCelebrating {
			return m, nil
		}
		m.ctrl.Start()
		m.canvas.StartStroke(p)
		m.mouseInk = true
		m.cursor = p
		return m, nil
	case tea.MouseActionMotion:
		if m.mouseInk {
			m.canvas.ExtendStroke(p)
			m.cursor = p
		}
		return m, nil
	case tea.MouseActionRelease:
		if !m.mouseInk {
			return m, nil
		}
		m.mouseInk = false
		return m, m.finishStrokes()
	default:
		return m, nil
	}
}

func (m *Model) moveCursor(dx, dy int) {
	m.cursor.X += dx
	m.cursor.Y += dy
	if m.cursor.X < 0 {
		m.cursor.X = 0
	}
	if m.cursor.X >= m.canvas.Width() {
		m.cursor.X = m.canvas.Width() - 1
	}
	if m.cursor.Y < 0 {
		m.cursor.Y = 0
	}
	if m.cursor.Y >= m.canvas.Height() {
		m.cursor.Y = m.canvas.Height() - 1
	}
	if m.penDown {
		m.canvas.ExtendStroke(m.cursor)
	}
}

func (m *Model) togglePen() {
	if m.ctrl.State() == session.StateCelebrating {
		return
	}
	if m.penDown {
		m.penDown = false
		m.canvas.EndStroke()
		return
	}
	m.ctrl.Start()
	m.canvas.StartStroke(m.cursor)
	m.penDown = true
}

// finishStrokes closes any open stroke and hands the session to the
// controller. On a pass the submission is dispatched while the
// celebration shows; on a fail the surface is re-armed immediately.
func (m *Model) finishStrokes() tea.Cmd {
	m.penDown = false
	strokes := m.canvas.EndStroke()
	result, ok := m.ctrl.StrokeEnded(strokes)
	if !ok {
		return nil
	}
	if result.Completed {
		return tea.Batch(m.submitCmd(), m.celebrationCmd())
	}
	if len(strokes) > 0 && m.ctrl.Pending() != nil {
		// Failed attempts still count; settle them in the background.
		// Empty sessions dispatch nothing, so an unsettled older
		// submission is only ever retried explicitly.
		m.ctrl.Start()
		return m.submitCmd()
	}
	m.ctrl.Start()
	return nil
}

// submitCmd snapshots the pending submission on the event loop and
// runs the store call off it. bubbletea executes the returned cmd on
// its own goroutine, so the closure must not touch the controller; the
// outcome settles back in Update, keyed by the snapshot's id.
func (m *Model) submitCmd() tea.Cmd {
	id, run, ok := m.ctrl.Dispatch()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		rec, err := run(context.Background())
		return submitDoneMsg{id: id, record: rec, err: err}
	}
}

func (m *Model) celebrationCmd() tea.Cmd {
	secs := m.config.CelebrateSecs
	if secs <= 0 {
		secs = 3
	}
	return tea.Tick(time.Duration(secs)*time.Second, func(time.Time) tea.Msg {
		return celebrationTimeoutMsg{}
	})
}

func (m *Model) resetSession() {
	m.penDown = false
	m.mouseInk = false
	m.canvas.Reset()
	m.ctrl.Reset()
	m.ctrl.Start()
}

func (m *Model) nextTarget() {
	m.ctrl.Acknowledge()
	var next rune
	if m.config.FocusWeak {
		next = m.pick.NextWeighted(m.records, m.canvas.Target(), m.config.WeakFactor)
	} else {
		next = m.pick.Next(m.canvas.Target())
	}
	if err := m.canvas.SetTarget(next); err != nil {
		logErrf("failed to switch target: %v\n", err)
		return
	}
	if err := m.ctrl.SetTarget(next); err != nil {
		logErrf("failed to switch target: %v\n", err)
		return
	}
	m.ctrl.SetEvaluator(m.makeEvaluator())
	m.resetSession()
}

func (m *Model) makeEvaluator() score.Evaluator {
	if m.config.Scorer == "coverage" {
		return score.NewCoverage(m.canvas.GuideCells(), m.canvas.Width(), m.canvas.Height(), m.config.PassThreshold)
	}
	return score.NewPlaceholder()
}

func (m *Model) reloadRecords() {
	records, err := m.store.ListRecords(context.Background(), m.config.Profile, 0)
	if err != nil {
		logErrf("failed to load records: %v\n", err)
		return
	}
	m.records = records
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	offsetX := m.canvasOffsetX()
	pad := strings.Repeat(" ", offsetX)
	for y := 0; y < m.canvas.Height(); y++ {
		b.WriteString(pad)
		for x := 0; x < m.canvas.Width(); x++ {
			b.WriteString(m.renderCell(x, y))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderCell(x, y int) string {
	if !m.mouseInk && x == m.cursor.X && y == m.cursor.Y && m.ctrl.State() != session.StateCelebrating {
		return cursorStyle.Render("+")
	}
	switch m.canvas.CellAt(x, y) {
	case canvas.CellInk:
		return inkStyle.Render("█")
	case canvas.CellGuide:
		return guideStyle.Render("·")
	default:
		return " "
	}
}

func (m *Model) renderHeader() string {
	stats := progressPkg.CompletionStats(m.records)
	streak := progressPkg.CurrentStreak(m.records, time.Now())
	header := fmt.Sprintf("Trace the letter %c   %d/%d letters · streak %dd",
		m.canvas.Target(), stats.Completed, stats.Total, streak)
	return m.centerLine(headerStyle.Render(header), runewidth.StringWidth(header))
}

func (m *Model) renderFooter() string {
	if m.ctrl.State() == session.StateCelebrating {
		text := "Great job!"
		if res := m.ctrl.LastResult(); res != nil {
			text = fmt.Sprintf("Great job! Score %d · enter for the next letter", res.Score)
		}
		return m.centerLine(celebrateStyle.Render(text), runewidth.StringWidth(text))
	}
	if m.submitFailed {
		text := "Could not save your trace · press s to retry"
		return m.centerLine(retryStyle.Render(text), runewidth.StringWidth(text))
	}
	segments := []string{"draw with the mouse or arrows+space", "enter submit", "r retry", "n next", "q quit"}
	if res := m.ctrl.LastResult(); res != nil && !res.Completed && res.Score > 0 {
		segments = append([]string{fmt.Sprintf("score %d, keep tracing", res.Score)}, segments...)
	}
	text := strings.Join(segments, "  ·  ")
	return m.centerLine(footerStyle.Render(text), runewidth.StringWidth(text))
}

func (m *Model) centerLine(rendered string, width int) string {
	if m.width <= width {
		return rendered
	}
	return strings.Repeat(" ", (m.width-width)/2) + rendered
}

func (m *Model) canvasOffsetX() int {
	if m.width <= m.canvas.Width() {
		return 0
	}
	return (m.width - m.canvas.Width()) / 2
}

// canvasOffsetY is the screen row of the first canvas row: one header
// line plus one blank line.
const canvasOffsetY = 2

func (m *Model) cellForScreen(x, y int) (model.Point, bool) {
	p := model.Point{X: x - m.canvasOffsetX(), Y: y - canvasOffsetY}
	inside := p.X >= 0 && p.X < m.canvas.Width() && p.Y >= 0 && p.Y < m.canvas.Height()
	return p, inside
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
