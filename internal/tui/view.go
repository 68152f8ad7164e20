// Package tui implements the interactive practice interface with bubbletea.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/dennispr/WordPractice/internal/leaderboard"
	"github.com/dennispr/WordPractice/internal/model"
	"github.com/dennispr/WordPractice/internal/session"
	"github.com/dennispr/WordPractice/internal/stats"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C89A3A")).
			Bold(true)
	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	counterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8C8C8C"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E6E6E"))
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E6E6E"))
	bestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C89A3A")).
			Bold(true)
	raceLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B0B0B0")).
			Width(8)
	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4D4F")).
			Bold(true)
	celebrationStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1A1A1A")).
				Background(lipgloss.Color("#C89A3A")).
				Bold(true).
				Padding(0, 2)
)

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.machine.Screen() {
	case session.ScreenTitle:
		content = m.viewTitle()
	case session.ScreenPractice:
		content = m.viewPractice()
	case session.ScreenRace:
		content = m.viewRace()
	case session.ScreenHighScoreInput:
		content = m.viewInitials()
	case session.ScreenHighScoreView:
		content = m.viewScores()
	case session.ScreenEnd:
		content = m.viewEnd()
	case session.ScreenOptions:
		content = m.viewOptions()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footerStyle.Render(footerLine(m.stats)))
	return body + "\n" + footer
}

func (m *Model) viewTitle() string {
	lines := []string{
		titleStyle.Render(strings.ToUpper(model.GameName)),
		"",
		hintStyle.Render("[enter] practice   [r] race   [h] high scores"),
		hintStyle.Render("[o] options        [q] quit"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewPractice() string {
	pos := m.machine.Position()
	lines := []string{
		wordStyle.Render(displayWord(pos)),
		"",
		counterStyle.Render(wordCounter(pos)),
		"",
		hintStyle.Render("[→/space] next   [←] back   [esc] quit run"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewRace() string {
	pos := m.machine.Position()
	elapsed := m.machine.Elapsed()
	rs := m.machine.RaceState()
	p := rs.Project(elapsed.Seconds(), pos.Index)
	lines := []string{
		wordStyle.Render(displayWord(pos)),
		"",
		counterStyle.Render(wordCounter(pos) + "   " + formatElapsed(elapsed)),
		"",
		raceLabelStyle.Render("You") + m.selfBar.ViewAs(p.Self),
		raceLabelStyle.Render(laneLabel(rs.BestInitials, "Best")) + m.bestBar.ViewAs(p.Best),
		raceLabelStyle.Render(laneLabel(rs.RecentInitials, "Recent")) + m.recentBar.ViewAs(p.Recent),
		"",
		hintStyle.Render("[→/space] next   [←] back   [esc] quit run"),
	}
	return strings.Join(lines, "\n")
}

// laneLabel names a reference lane after the score it represents,
// falling back to a generic label for the baseline references.
func laneLabel(initials, fallback string) string {
	if initials == "" {
		return fallback
	}
	return initials
}

func (m *Model) viewInitials() string {
	lines := []string{
		titleStyle.Render("HIGH SCORE!"),
		"",
	}
	if pending := m.machine.Pending(); pending != nil {
		lines = append(lines, counterStyle.Render(fmt.Sprintf("Your time: %s over %d words",
			stats.FormatDuration(pending.Time), pending.WordsCount)))
		if pending.NewBest {
			lines = append(lines, bestStyle.Render("New personal best!"))
		}
	}
	lines = append(lines,
		"",
		m.initials.View(),
		"",
		hintStyle.Render("[enter] save   [esc] skip"),
	)
	return strings.Join(lines, "\n")
}

func (m *Model) viewScores() string {
	var lines []string
	if m.celebrating {
		lines = append(lines, celebrationStyle.Render(m.celebration), "")
	}
	lines = append(lines,
		titleStyle.Render("HIGH SCORES"),
		"",
		m.scoreTable.View(),
	)
	if c := m.lastCompletion; c != nil {
		own := fmt.Sprintf("Your time: %s", stats.FormatDuration(c.Time))
		if m.lastRank > 0 && m.lastRank <= leaderboard.TopTenSize {
			own += fmt.Sprintf(" (rank #%d)", m.lastRank)
		}
		lines = append(lines, "", counterStyle.Render(own))
	}
	lines = append(lines, "", hintStyle.Render("[enter] title   [p] practice   [r] race"))
	return strings.Join(lines, "\n")
}

func (m *Model) viewEnd() string {
	lines := []string{
		titleStyle.Render("RUN COMPLETE"),
		"",
	}
	if c := m.lastCompletion; c != nil {
		lines = append(lines, counterStyle.Render(fmt.Sprintf("Your time: %s over %d words",
			stats.FormatDuration(c.Time), c.WordsCount)))
		if c.NewBest {
			lines = append(lines, bestStyle.Render("New personal best!"))
		}
	}
	lines = append(lines, "", hintStyle.Render("[space] again   [enter] title   [h] high scores"))
	return strings.Join(lines, "\n")
}

func (m *Model) viewOptions() string {
	list := m.config.List
	if list == "" {
		list = "(default)"
	}
	words := "all"
	if m.config.Words > 0 {
		words = fmt.Sprintf("%d", m.config.Words)
	}
	order := "shuffled"
	if m.config.Ordered {
		order = "listed"
	}
	resetHint := hintStyle.Render("[x] reset saved data")
	if m.confirmReset {
		resetHint = dangerStyle.Render("press x again to wipe all saved data")
	}
	lines := []string{
		titleStyle.Render("OPTIONS"),
		"",
		counterStyle.Render("Word list:         " + list),
		counterStyle.Render("Words per run:     " + words),
		counterStyle.Render("Order:             " + order),
		counterStyle.Render(fmt.Sprintf("Sessions recorded: %d", m.sessions)),
		"",
		hintStyle.Render("Edit config.toml or pass flags to change these."),
		resetHint,
		hintStyle.Render("[esc] back"),
	}
	return strings.Join(lines, "\n")
}

func displayWord(pos session.Position) string {
	if pos.Word == "" {
		return "(no words)"
	}
	return pos.Word
}

func wordCounter(pos session.Position) string {
	if pos.Total == 0 {
		return "no words loaded"
	}
	return fmt.Sprintf("word %d of %d", pos.Index+1, pos.Total)
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func footerLine(s model.Stats) string {
	if s.TotalCompletions == 0 {
		return "No completed runs yet"
	}
	best := "-"
	if s.BestTime != nil {
		best = stats.FormatDuration(*s.BestTime)
	}
	segments := []string{
		"Best " + best,
		"Avg " + stats.FormatDuration(s.AverageTime),
		fmt.Sprintf("Runs %d", s.TotalCompletions),
	}
	return strings.Join(segments, "  ")
}

func buildScoreRows(entries []model.ScoreEntry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			e.Initials,
			stats.FormatDuration(e.Time),
			fmt.Sprintf("%d", e.WordsCount),
			e.Date.Format("2006-01-02"),
		})
	}
	return rows
}

func scoreColumns() []table.Column {
	return []table.Column{
		{Title: "Rank", Width: 4},
		{Title: "Initials", Width: 8},
		{Title: "Time", Width: 7},
		{Title: "Words", Width: 5},
		{Title: "Date", Width: 10},
	}
}

func scoreTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#B0B0B0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
