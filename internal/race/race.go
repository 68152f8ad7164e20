// Package race projects live run progress against reference times.
package race

import "github.com/dennispr/WordPractice/internal/model"

// Reference durations used when no high scores exist yet.
const (
	DefaultBestSeconds   = 300
	DefaultRecentSeconds = 600
)

// State fixes the reference durations for one race. It is snapshotted
// once at race start; projection afterwards depends only on elapsed
// time and the current word index. The initials are empty when the
// references come from the baselines instead of real scores.
type State struct {
	TotalWords     int
	BestSeconds    int
	RecentSeconds  int
	BestInitials   string
	RecentInitials string
}

// Progress holds positions in [0,1] for the player and both reference
// racers.
type Progress struct {
	Self   float64
	Best   float64
	Recent float64
}

// Init builds race state from a leaderboard snapshot. The fastest
// top-ten time drives the "best" racer and the slowest top-ten time the
// "recent" one; with no scores both fall back to fixed baselines.
func Init(totalWords int, scores model.HighScores) State {
	st := State{
		TotalWords:    totalWords,
		BestSeconds:   DefaultBestSeconds,
		RecentSeconds: DefaultRecentSeconds,
	}
	if len(scores.TopTen) > 0 {
		best := scores.TopTen[0]
		recent := scores.TopTen[len(scores.TopTen)-1]
		st.BestSeconds = best.Time
		st.RecentSeconds = recent.Time
		st.BestInitials = best.Initials
		st.RecentInitials = recent.Initials
	}
	return st
}

// Project returns everyone's progress. The player moves by word index
// while the references move strictly by elapsed time, capped at
// completion; the player wins by reaching the last word before the
// clock catches up.
func (s State) Project(elapsedSeconds float64, wordIndex int) Progress {
	p := Progress{
		Best:   timeProgress(elapsedSeconds, s.BestSeconds),
		Recent: timeProgress(elapsedSeconds, s.RecentSeconds),
	}
	if s.TotalWords <= 0 {
		p.Self = 1
		return p
	}
	p.Self = float64(wordIndex) / float64(s.TotalWords)
	if p.Self > 1 {
		p.Self = 1
	}
	if p.Self < 0 {
		p.Self = 0
	}
	return p
}

func timeProgress(elapsed float64, reference int) float64 {
	if reference <= 0 {
		return 1
	}
	p := elapsed / float64(reference)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}
