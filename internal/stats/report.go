// Package stats maintains the session ledger and derived statistics.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dennispr/WordPractice/internal/model"
)

const sparkChars = " .:-=+*#%@"

// recentRunWindow caps how many completed runs feed the trend sparkline.
const recentRunWindow = 30

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// FormatDuration renders whole seconds as "45s" or "1m 05s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %02ds", seconds/60, seconds%60)
}

// RenderStats prints the practice summary for one game record.
func RenderStats(w io.Writer, info model.GameInfo, stats model.Stats, sessions []model.Session) error {
	if info.TotalSessions == 0 && len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded yet.")
		return err
	}
	best := "-"
	if stats.BestTime != nil {
		best = FormatDuration(*stats.BestTime)
	}
	avg := "-"
	if stats.TotalCompletions > 0 {
		avg = FormatDuration(stats.AverageTime)
	}
	if _, err := fmt.Fprintln(w, "Word Practice Stats"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", info.TotalSessions); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completed runs: %d\n", stats.TotalCompletions); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Words completed: %d\n", stats.TotalWordsCompleted); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best time: %s\n", best); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Average time: %s\n", avg); err != nil {
		return err
	}
	if !info.FirstPlayed.IsZero() {
		if _, err := fmt.Fprintf(w, "First played: %s\n", info.FirstPlayed.Format("2006-01-02")); err != nil {
			return err
		}
	}
	if !info.LastPlayed.IsZero() {
		if _, err := fmt.Fprintf(w, "Last played: %s\n", info.LastPlayed.Format("2006-01-02")); err != nil {
			return err
		}
	}

	durations := completedDurations(sessions, sparkWindow())
	if len(durations) >= 2 {
		if _, err := fmt.Fprintf(w, "Recent times: %s\n", Sparkline(durations)); err != nil {
			return err
		}
	}
	return nil
}

// RenderScores prints the leaderboard as a table, worst-to-best last.
// With color enabled the first place is highlighted.
func RenderScores(w io.Writer, scores model.HighScores, forceColor bool) error {
	if len(scores.TopTen) == 0 {
		_, err := fmt.Fprintln(w, "No high scores yet.")
		return err
	}
	headers := []string{"Rank", "Initials", "Time", "Words", "Date"}
	rows := make([][]string, 0, len(scores.TopTen))
	for i, entry := range scores.TopTen {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			entry.Initials,
			FormatDuration(entry.Time),
			fmt.Sprintf("%d", entry.WordsCount),
			entry.Date.Format("2006-01-02"),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true}
	lines := formatTable(headers, rows, rightAlign)
	if shouldUseColor(w, forceColor) && len(lines) > 1 {
		lines[1] = colorGold + lines[1] + colorReset
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(scores.Historical) > 0 {
		if _, err := fmt.Fprintf(w, "Displaced from the top ten: %d\n", len(scores.Historical)); err != nil {
			return err
		}
	}
	return nil
}

func completedDurations(sessions []model.Session, limit int) []float64 {
	var durations []float64
	for _, s := range sessions {
		if !s.Completed || s.Duration <= 0 {
			continue
		}
		durations = append(durations, float64(s.Duration))
	}
	if limit > 0 && len(durations) > limit {
		durations = durations[len(durations)-limit:]
	}
	return durations
}

// sparkWindow fits the trend sparkline to the terminal, capped at the
// recent-run window.
func sparkWindow() int {
	width := terminalWidth() - len("Recent times: ")
	if width < 1 {
		width = 1
	}
	if width > recentRunWindow {
		width = recentRunWindow
	}
	return width
}
