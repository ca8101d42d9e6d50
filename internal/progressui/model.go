// Package progressui provides the Bubble Tea progress dashboard.
package progressui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verapine/tracepad/internal/glyph"
	"github.com/verapine/tracepad/internal/model"
	"github.com/verapine/tracepad/internal/progress"
	"github.com/verapine/tracepad/internal/store"
)

const (
	tabOverview = iota
	tabLetters
	tabAchievements
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	lockedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	unlockedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// Model implements the Bubble Tea progress dashboard.
type Model struct {
	store *store.Store
	cfg   model.ProgressConfig

	records []model.ProgressRecord
	recent  []model.AttemptRecord
	errMsg  string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	letterTable table.Model

	width  int
	height int
}

// NewModel constructs a progress dashboard model.
func NewModel(st *store.Store, cfg model.ProgressConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Letters", "Achievements"},
	}
	m.initViewports()
	m.initLetterTable()
	m.refresh()
	return m
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "R":
			m.refresh()
			return m, nil
		case "g", "home":
			if m.activeTab == tabLetters {
				m.letterTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabLetters {
				m.letterTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabLetters {
				var cmd tea.Cmd
				m.letterTable, cmd = m.letterTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	_, bodyHeight, _ := m.layoutHeights()
	header := m.renderHeader()
	body := m.renderBody(bodyHeight)
	footer := m.renderFooter()
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initLetterTable() {
	columns := []table.Column{
		{Title: "Letter", Width: 6},
		{Title: "State", Width: 12},
		{Title: "Score", Width: 6},
		{Title: "Attempts", Width: 9},
		{Title: "Last Traced", Width: 17},
	}
	m.letterTable = table.New(table.WithColumns(columns), table.WithFocused(true))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.letterTable.SetWidth(m.width)
	m.letterTable.SetHeight(bodyHeight)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabLetters {
		m.letterTable.Focus()
	} else {
		m.letterTable.Blur()
	}
}

func (m *Model) refresh() {
	ctx := context.Background()
	records, err := m.store.ListRecords(ctx, m.cfg.Profile, 0)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	recentLimit := m.cfg.Recent
	if recentLimit <= 0 {
		recentLimit = 8
	}
	recent, err := m.store.ListRecentAttempts(ctx, m.cfg.Profile, recentLimit)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.records = records
	m.recent = recent
	m.applyLetterRows()
	m.renderTabContents()
}

func (m *Model) applyLetterRows() {
	index := map[string]model.ProgressRecord{}
	for _, rec := range m.records {
		index[rec.Letter] = rec
	}
	rows := make([]table.Row, 0, len(glyph.Letters))
	for _, r := range glyph.Letters {
		rec, ok := index[string(r)]
		score, attempts, last := "-", "-", "-"
		if ok {
			score = fmt.Sprintf("%d", rec.Score)
			attempts = fmt.Sprintf("%d", rec.Attempts)
			last = rec.LastTraced.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, table.Row{
			string(r),
			progress.StateOf(m.records, r).String(),
			score,
			attempts,
			last,
		})
	}
	m.letterTable.SetRows(rows)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(m.renderOverview(width))
	m.viewports[tabAchievements].SetContent(m.renderAchievements())
}

func (m *Model) renderOverview(width int) string {
	stats := progress.CompletionStats(m.records)
	streak := progress.CurrentStreak(m.records, time.Now())
	summary := progress.SummaryOf(m.records)

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard("Letters", fmt.Sprintf("%d/%d", stats.Completed, stats.Total)),
		renderCard("Progress", fmt.Sprintf("%d%%", stats.Percentage)),
		renderCard("Streak", fmt.Sprintf("%d day(s)", streak)),
		renderCard("Attempts", fmt.Sprintf("%d", summary.TotalAttempts)),
	)

	lines := []string{cards, ""}
	lines = append(lines,
		headerStyle.Render("Scores  ")+fmt.Sprintf("[%s]", progress.LetterBar(m.records)),
		headerStyle.Render("        ")+fmt.Sprintf("[%s]", string(glyph.Letters)),
		"")
	lines = append(lines, headerStyle.Render("Recent activity"))
	if len(m.recent) == 0 {
		lines = append(lines, "No attempts yet.")
	}
	for _, a := range m.recent {
		mark := "tried"
		if a.Completed {
			mark = "completed"
		}
		lines = append(lines, fmt.Sprintf("%s  %s %s (score %d)",
			a.TracedAt.Local().Format("2006-01-02 15:04"), mark, a.Letter, a.Score))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func renderCard(title, value string) string {
	content := cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(content)
}

func (m *Model) renderAchievements() string {
	unlocked := map[string]bool{}
	for _, a := range progress.Unlocked(m.records) {
		unlocked[a.ID] = true
	}
	lines := make([]string, 0, len(progress.Achievements))
	for _, a := range progress.Achievements {
		if unlocked[a.ID] {
			lines = append(lines, unlockedStyle.Render(fmt.Sprintf("★ %s", a.Title))+"  "+a.Caption)
		} else {
			lines = append(lines, lockedStyle.Render(fmt.Sprintf("☆ %s", a.Title))+"  "+lockedStyle.Render(a.Caption))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	profile := m.cfg.Profile
	if profile == "" {
		profile = "none"
	}
	summary := headerStyle.Render(fmt.Sprintf("Profile: %s", profile))
	return tabs + "\n" + summary
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabLetters {
		return m.letterTable.View()
	}
	vp := m.viewports[m.activeTab]
	vp.Height = height
	return vp.View()
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down  Refresh: R  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}
