// Package tui implements the interactive practice interface with bubbletea.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dennispr/WordPractice/internal/leaderboard"
	"github.com/dennispr/WordPractice/internal/model"
	"github.com/dennispr/WordPractice/internal/session"
	"github.com/dennispr/WordPractice/internal/stats"
	"github.com/dennispr/WordPractice/internal/store"
)

// raceTickInterval drives the race projection refresh while a race run is
// on screen.
const raceTickInterval = 100 * time.Millisecond

// initialsPreference is the preference key remembering the last submitted
// initials, used to prefill the high score prompt.
const initialsPreference = "lastInitials"

type raceTickMsg time.Time

type celebrationDoneMsg struct{}

// Model is the bubbletea model for the practice UI. All screen transitions
// go through the session machine; the model only renders the current screen
// and translates key presses into machine calls.
type Model struct {
	config  model.Config
	store   *store.Store
	board   *leaderboard.Board
	machine *session.Machine

	width  int
	height int

	initials   textinput.Model
	scoreTable table.Model
	selfBar    progress.Model
	bestBar    progress.Model
	recentBar  progress.Model

	stats    model.Stats
	sessions int

	lastCompletion *session.Completion
	lastRank       int
	celebrating    bool
	celebration    string
	confirmReset   bool
}

// NewModel creates the practice UI around an already constructed session
// machine and its storage collaborators.
func NewModel(cfg model.Config, st *store.Store, board *leaderboard.Board, machine *session.Machine) *Model {
	m := &Model{
		config:  cfg,
		store:   st,
		board:   board,
		machine: machine,
	}
	m.initials = newInitialsInput()
	m.scoreTable = newScoreTable()
	m.selfBar = progress.New(progress.WithDefaultGradient())
	m.bestBar = progress.New(progress.WithDefaultGradient())
	m.recentBar = progress.New(progress.WithDefaultGradient())
	m.loadStats()
	m.loadInitialsPreference()
	return m
}

func newInitialsInput() textinput.Model {
	input := textinput.New()
	input.Prompt = "Initials: "
	input.Placeholder = session.DefaultInitials
	input.CharLimit = 3
	input.Width = 4
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newScoreTable() table.Model {
	t := table.New(
		table.WithColumns(scoreColumns()),
		table.WithHeight(leaderboard.TopTenSize+1),
	)
	t.SetStyles(scoreTableStyles())
	return t
}

// loadStats pulls the derived statistics and the session count from the
// stored record in one read. The count lives on the game envelope, not
// on the statistics themselves.
func (m *Model) loadStats() {
	doc, err := m.store.Load(context.Background())
	if err != nil {
		logErrf("failed to load stats: %v\n", err)
		return
	}
	if rec, ok := doc.Games[model.GameID]; ok && rec != nil {
		m.stats = rec.Stats
		m.sessions = rec.Info.TotalSessions
	}
}

func (m *Model) loadInitialsPreference() {
	saved, err := m.store.Preference(context.Background(), initialsPreference)
	if err != nil {
		logErrf("failed to load initials preference: %v\n", err)
		return
	}
	if saved != "" {
		m.initials.SetValue(saved)
	}
}

func (m *Model) refreshScores() {
	scores, err := m.board.GetScores(context.Background(), model.GameID)
	if err != nil {
		logErrf("failed to load high scores: %v\n", err)
		return
	}
	m.scoreTable.SetRows(buildScoreRows(scores.TopTen))
}

// Init implements tea.Model. The machine may already be inside a race
// run when the program starts, so the tick is armed here too.
func (m *Model) Init() tea.Cmd {
	if m.machine.Screen() == session.ScreenRace {
		return raceTick()
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case raceTickMsg:
		if m.machine.Screen() == session.ScreenRace {
			return m, raceTick()
		}
		return m, nil
	case celebrationDoneMsg:
		m.celebrating = false
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) resize() {
	barWidth := m.width - 16
	if barWidth > 48 {
		barWidth = 48
	}
	if barWidth < 10 {
		barWidth = 10
	}
	m.selfBar.Width = barWidth
	m.bestBar.Width = barWidth
	m.recentBar.Width = barWidth

	tableWidth := m.width - 4
	if tableWidth > 44 {
		tableWidth = 44
	}
	if tableWidth > 0 {
		m.scoreTable.SetWidth(tableWidth)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.machine.Screen() {
	case session.ScreenTitle:
		return m.handleTitleKey(msg)
	case session.ScreenPractice, session.ScreenRace:
		return m.handleRunKey(msg)
	case session.ScreenHighScoreInput:
		return m.handleInitialsKey(msg)
	case session.ScreenHighScoreView:
		return m.handleScoresKey(msg)
	case session.ScreenEnd:
		return m.handleEndKey(msg)
	case session.ScreenOptions:
		return m.handleOptionsKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleTitleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "enter", "p":
		return m, m.startRun(session.ModePractice)
	case "r":
		return m, m.startRun(session.ModeRace)
	case "h":
		m.openScores()
		return m, nil
	case "o":
		m.confirmReset = false
		m.machine.AbandonToOptions()
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleRunKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeySpace {
		return m, m.advance()
	}
	switch msg.String() {
	case "right", "enter":
		return m, m.advance()
	case "left":
		m.machine.Retreat()
		return m, nil
	case "esc":
		m.machine.AbandonToTitle()
		return m, nil
	case "o":
		m.confirmReset = false
		m.machine.AbandonToOptions()
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleInitialsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m, m.submitInitials()
	case tea.KeyEsc:
		m.initials.Blur()
		m.machine.AbandonToTitle()
		return m, nil
	}
	var cmd tea.Cmd
	m.initials, cmd = m.initials.Update(msg)
	return m, cmd
}

func (m *Model) handleScoresKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeySpace {
		m.scoreTable.Blur()
		m.machine.AbandonToTitle()
		return m, nil
	}
	switch msg.String() {
	case "q", "esc", "enter":
		m.scoreTable.Blur()
		m.machine.AbandonToTitle()
		return m, nil
	case "p":
		m.scoreTable.Blur()
		return m, m.startRun(session.ModePractice)
	case "r":
		m.scoreTable.Blur()
		return m, m.startRun(session.ModeRace)
	}
	var cmd tea.Cmd
	m.scoreTable, cmd = m.scoreTable.Update(msg)
	return m, cmd
}

func (m *Model) handleEndKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeySpace {
		return m, m.startRun(m.machine.Mode())
	}
	switch msg.String() {
	case "enter", "esc", "q":
		m.machine.AbandonToTitle()
		return m, nil
	case "p":
		return m, m.startRun(session.ModePractice)
	case "r":
		return m, m.startRun(session.ModeRace)
	case "h":
		m.openScores()
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleOptionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "x":
		if !m.confirmReset {
			m.confirmReset = true
			return m, nil
		}
		m.confirmReset = false
		m.resetSavedData()
		return m, nil
	case "esc", "enter", "q", "o":
		m.confirmReset = false
		m.machine.AbandonToTitle()
		return m, nil
	default:
		m.confirmReset = false
		return m, nil
	}
}

// resetSavedData wipes the stored document and clears everything derived
// from it that is still on screen.
func (m *Model) resetSavedData() {
	if err := m.store.Reset(context.Background()); err != nil {
		logErrf("failed to reset saved data: %v\n", err)
		return
	}
	m.stats = model.Stats{}
	m.sessions = 0
	m.lastCompletion = nil
	m.lastRank = 0
	m.initials.SetValue("")
	m.scoreTable.SetRows(nil)
}

func (m *Model) startRun(mode session.Mode) tea.Cmd {
	if err := m.machine.Start(mode); err != nil {
		logErrf("failed to start run: %v\n", err)
	}
	m.lastCompletion = nil
	m.lastRank = 0
	m.celebrating = false
	// An empty sequence completes during Start.
	switch m.machine.Screen() {
	case session.ScreenHighScoreInput:
		m.loadStats()
		m.initials.Focus()
		return textinput.Blink
	case session.ScreenEnd:
		m.loadStats()
		return nil
	}
	if mode == session.ModeRace {
		return raceTick()
	}
	return nil
}

func (m *Model) openScores() {
	m.machine.ViewScores()
	m.lastCompletion = nil
	m.lastRank = 0
	m.refreshScores()
	m.scoreTable.SetCursor(0)
	m.scoreTable.Focus()
}

func (m *Model) advance() tea.Cmd {
	res, err := m.machine.Advance()
	if err != nil {
		logErrf("failed to record run: %v\n", err)
	}
	if res.Completion == nil {
		return nil
	}
	m.lastCompletion = res.Completion
	m.loadStats()
	if m.machine.Screen() == session.ScreenHighScoreInput {
		m.initials.Focus()
		return textinput.Blink
	}
	return nil
}

func (m *Model) submitInitials() tea.Cmd {
	value := m.initials.Value()
	sub, err := m.machine.SubmitInitials(value)
	if err != nil {
		logErrf("failed to save score: %v\n", err)
	}
	m.initials.Blur()
	m.lastRank = sub.Rank
	if trimmed := strings.ToUpper(strings.TrimSpace(value)); trimmed != "" {
		if perr := m.store.SetPreference(context.Background(), initialsPreference, trimmed); perr != nil {
			logErrf("failed to save initials preference: %v\n", perr)
		}
		m.initials.SetValue(trimmed)
	}
	m.refreshScores()
	if m.lastRank >= 1 && m.lastRank <= leaderboard.TopTenSize {
		m.scoreTable.SetCursor(m.lastRank - 1)
	}
	m.scoreTable.Focus()
	if sub.Celebration.Message == "" {
		return nil
	}
	m.celebrating = true
	m.celebration = fmt.Sprintf("%s  %s by %s", sub.Celebration.Message, stats.FormatDuration(sub.Celebration.Score), initialsOrDefault(value))
	return tea.Tick(sub.Celebration.Duration, func(time.Time) tea.Msg {
		return celebrationDoneMsg{}
	})
}

func initialsOrDefault(value string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return session.DefaultInitials
	}
	if len([]rune(trimmed)) > 3 {
		return string([]rune(trimmed)[:3])
	}
	return trimmed
}

func raceTick() tea.Cmd {
	return tea.Tick(raceTickInterval, func(t time.Time) tea.Msg {
		return raceTickMsg(t)
	})
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Nothing sensible to do if stderr is gone.
		_ = err
	}
}
