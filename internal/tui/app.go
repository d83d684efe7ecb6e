// Package tui provides the interactive Bubble Tea usage dashboard.
package tui

import (
	"time"

	"github.com/theirongolddev/tokentrack/internal/config"
	"github.com/theirongolddev/tokentrack/internal/model"
	"github.com/theirongolddev/tokentrack/internal/store"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// refreshInterval is how often the dashboard re-queries the store. The
// ingest hook writes from a separate process; SQLite's transaction isolation
// means reads here never observe a half-written batch.
const refreshInterval = 10 * time.Second

// Dashboard tabs.
const (
	tabSessions = iota
	tabProjects
	tabModels
	tabDaily
	tabCount
)

var tabNames = []string{"Sessions", "Projects", "Models", "Daily"}

// snapshot is one point-in-time read of every query the dashboard shows.
type snapshot struct {
	Totals   model.Aggregate
	Today    model.Aggregate
	Window   model.WindowStats
	Sessions []model.SessionRow
	Projects []model.ProjectStats
	Models   []model.ModelStats
	Daily    []model.DailyStats
}

// dataMsg is sent when a refresh query round completes.
type dataMsg struct {
	snap snapshot
	err  error
}

// turnsMsg is sent when a session drill-down query completes.
type turnsMsg struct {
	sessionID string
	turns     []model.TurnRow
	err       error
}

type tickMsg time.Time

// App is the root Bubble Tea model.
type App struct {
	st   *store.Store
	cfg  config.Config
	plan config.Plan

	snap   snapshot
	loaded bool
	err    error

	// Session drill-down
	detailID    string
	detailTurns []model.TurnRow

	// UI state
	width     int
	height    int
	activeTab int
	cursor    int
	spinner   spinner.Model
}

// NewApp creates the dashboard model over an open store.
func NewApp(st *store.Store, cfg config.Config) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return App{
		st:      st,
		cfg:     cfg,
		plan:    config.ActivePlan(cfg),
		spinner: sp,
	}
}

// Init kicks off the first data load, the refresh timer, and the spinner.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.refreshCmd(), tickCmd(), a.spinner.Tick)
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd runs every dashboard query off the UI goroutine.
func (a App) refreshCmd() tea.Cmd {
	st := a.st
	limit := a.cfg.General.SessionLimit
	days := a.cfg.General.DailyDays
	return func() tea.Msg {
		var snap snapshot
		var err error

		if snap.Totals, err = st.Totals(); err != nil {
			return dataMsg{err: err}
		}
		if snap.Today, err = st.Today(); err != nil {
			return dataMsg{err: err}
		}
		if snap.Window, err = st.RollingWindow(config.WindowHours); err != nil {
			return dataMsg{err: err}
		}
		if snap.Sessions, err = st.Sessions(limit); err != nil {
			return dataMsg{err: err}
		}
		if snap.Projects, err = st.Projects(); err != nil {
			return dataMsg{err: err}
		}
		if snap.Models, err = st.Models(); err != nil {
			return dataMsg{err: err}
		}
		if snap.Daily, err = st.Daily(days); err != nil {
			return dataMsg{err: err}
		}
		return dataMsg{snap: snap}
	}
}

func (a App) loadTurnsCmd(sessionID string) tea.Cmd {
	st := a.st
	return func() tea.Msg {
		turns, err := st.SessionTurns(sessionID)
		return turnsMsg{sessionID: sessionID, turns: turns, err: err}
	}
}

// Update handles messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tickMsg:
		return a, tea.Batch(a.refreshCmd(), tickCmd())

	case dataMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.snap = msg.snap
		a.loaded = true
		a.err = nil
		a.clampCursor()
		return a, nil

	case turnsMsg:
		if msg.err == nil {
			a.detailID = msg.sessionID
			a.detailTurns = msg.turns
		}
		return a, nil

	case spinner.TickMsg:
		if a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "r", "f5":
		return a, a.refreshCmd()

	case "p":
		if plan, err := config.CyclePlan(); err == nil {
			a.plan = plan
		}
		return a, nil

	case "tab", "right":
		a.activeTab = (a.activeTab + 1) % tabCount
		a.cursor = 0
		return a, nil

	case "shift+tab", "left":
		a.activeTab = (a.activeTab + tabCount - 1) % tabCount
		a.cursor = 0
		return a, nil

	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "down", "j":
		a.cursor++
		a.clampCursor()
		return a, nil

	case "enter":
		if a.activeTab == tabSessions && a.cursor < len(a.snap.Sessions) {
			return a, a.loadTurnsCmd(a.snap.Sessions[a.cursor].SessionID)
		}
		return a, nil

	case "esc":
		a.detailID = ""
		a.detailTurns = nil
		return a, nil
	}

	return a, nil
}

func (a *App) clampCursor() {
	max := 0
	switch a.activeTab {
	case tabSessions:
		max = len(a.snap.Sessions) - 1
	case tabProjects:
		max = len(a.snap.Projects) - 1
	case tabModels:
		max = len(a.snap.Models) - 1
	case tabDaily:
		max = len(a.snap.Daily) - 1
	}
	if max < 0 {
		max = 0
	}
	if a.cursor > max {
		a.cursor = max
	}
}
