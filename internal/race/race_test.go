package race

import (
	"testing"

	"github.com/dennispr/WordPractice/internal/model"
)

func TestInitUsesLeaderboardTimes(t *testing.T) {
	scores := model.HighScores{TopTen: []model.ScoreEntry{
		{Time: 100, Initials: "AAA"}, {Time: 120, Initials: "BBB"}, {Time: 150, Initials: "CCC"},
	}}
	st := Init(10, scores)
	if st.BestSeconds != 100 {
		t.Fatalf("expected best reference 100, got %d", st.BestSeconds)
	}
	if st.RecentSeconds != 150 {
		t.Fatalf("expected recent reference 150, got %d", st.RecentSeconds)
	}
	if st.BestInitials != "AAA" || st.RecentInitials != "CCC" {
		t.Fatalf("expected reference initials AAA/CCC, got %q/%q", st.BestInitials, st.RecentInitials)
	}
}

func TestInitDefaultsWithoutScores(t *testing.T) {
	st := Init(10, model.HighScores{})
	if st.BestSeconds != DefaultBestSeconds {
		t.Fatalf("expected default best %d, got %d", DefaultBestSeconds, st.BestSeconds)
	}
	if st.RecentSeconds != DefaultRecentSeconds {
		t.Fatalf("expected default recent %d, got %d", DefaultRecentSeconds, st.RecentSeconds)
	}
	if st.BestInitials != "" || st.RecentInitials != "" {
		t.Fatalf("expected no initials for baseline references")
	}
}

func TestProjectHalfway(t *testing.T) {
	scores := model.HighScores{TopTen: []model.ScoreEntry{{Time: 100}}}
	st := Init(10, scores)

	p := st.Project(50, 5)
	if p.Best != 0.5 {
		t.Fatalf("expected best progress 0.5, got %v", p.Best)
	}
	if p.Self != 0.5 {
		t.Fatalf("expected self progress 0.5, got %v", p.Self)
	}
}

func TestProjectCapsAtCompletion(t *testing.T) {
	scores := model.HighScores{TopTen: []model.ScoreEntry{{Time: 100}}}
	st := Init(10, scores)

	p := st.Project(500, 25)
	if p.Best != 1 {
		t.Fatalf("expected best progress capped at 1, got %v", p.Best)
	}
	if p.Recent != 1 {
		t.Fatalf("expected recent progress capped at 1, got %v", p.Recent)
	}
	if p.Self != 1 {
		t.Fatalf("expected self progress capped at 1, got %v", p.Self)
	}
}

func TestProjectZeroWords(t *testing.T) {
	st := Init(0, model.HighScores{})
	p := st.Project(0, 0)
	if p.Self != 1 {
		t.Fatalf("expected immediate completion with no words, got %v", p.Self)
	}
}

func TestProjectReferencesDiverge(t *testing.T) {
	st := Init(10, model.HighScores{})
	p := st.Project(150, 0)
	if p.Best != 0.5 {
		t.Fatalf("expected best progress 0.5 at 150s of %d, got %v", DefaultBestSeconds, p.Best)
	}
	if p.Recent != 0.25 {
		t.Fatalf("expected recent progress 0.25 at 150s of %d, got %v", DefaultRecentSeconds, p.Recent)
	}
}
