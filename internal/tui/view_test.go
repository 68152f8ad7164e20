package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/dennispr/WordPractice/internal/model"
	"github.com/dennispr/WordPractice/internal/session"
)

func TestWordCounter(t *testing.T) {
	got := wordCounter(session.Position{Word: "apple", Index: 2, Total: 10})
	if got != "word 3 of 10" {
		t.Fatalf("expected 'word 3 of 10', got %q", got)
	}
	if got := wordCounter(session.Position{}); got != "no words loaded" {
		t.Fatalf("expected 'no words loaded', got %q", got)
	}
}

func TestDisplayWord(t *testing.T) {
	if got := displayWord(session.Position{Word: "cherry"}); got != "cherry" {
		t.Fatalf("expected 'cherry', got %q", got)
	}
	if got := displayWord(session.Position{}); got != "(no words)" {
		t.Fatalf("expected placeholder for empty word, got %q", got)
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{45 * time.Second, "0:45"},
		{65 * time.Second, "1:05"},
		{125 * time.Second, "2:05"},
		{-3 * time.Second, "0:00"},
	}
	for _, c := range cases {
		if got := formatElapsed(c.in); got != c.want {
			t.Fatalf("formatElapsed(%v): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestFooterLineEmpty(t *testing.T) {
	if got := footerLine(model.Stats{}); got != "No completed runs yet" {
		t.Fatalf("expected placeholder footer, got %q", got)
	}
}

func TestFooterLineFormats(t *testing.T) {
	best := 40
	out := footerLine(model.Stats{
		BestTime:         &best,
		AverageTime:      50,
		TotalCompletions: 2,
	})
	if !containsAll(out, []string{"Best 40s", "Avg 50s", "Runs 2"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestBuildScoreRows(t *testing.T) {
	rows := buildScoreRows([]model.ScoreEntry{
		{Initials: "ABC", Time: 65, WordsCount: 10, Date: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{Initials: "XY", Time: 45, WordsCount: 10, Date: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)},
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	first := rows[0]
	if first[0] != "1" || first[1] != "ABC" || first[2] != "1m 05s" || first[3] != "10" || first[4] != "2025-06-01" {
		t.Fatalf("unexpected first row: %v", first)
	}
	if rows[1][0] != "2" {
		t.Fatalf("expected rank column to follow list order, got %q", rows[1][0])
	}
}

func TestLaneLabel(t *testing.T) {
	if got := laneLabel("ABC", "Best"); got != "ABC" {
		t.Fatalf("expected 'ABC', got %q", got)
	}
	if got := laneLabel("", "Best"); got != "Best" {
		t.Fatalf("expected fallback 'Best', got %q", got)
	}
}

func TestInitialsOrDefault(t *testing.T) {
	if got := initialsOrDefault("  rob  "); got != "ROB" {
		t.Fatalf("expected 'ROB', got %q", got)
	}
	if got := initialsOrDefault(""); got != session.DefaultInitials {
		t.Fatalf("expected default initials, got %q", got)
	}
	if got := initialsOrDefault("robert"); got != "ROB" {
		t.Fatalf("expected truncation to 'ROB', got %q", got)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
