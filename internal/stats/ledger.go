// Package stats maintains the session ledger and derived statistics.
package stats

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dennispr/WordPractice/internal/model"
	"github.com/dennispr/WordPractice/internal/store"
)

// Ledger appends sessions to the persisted log and keeps the derived
// statistics in sync with it.
type Ledger struct {
	store *store.Store
}

// NewLedger returns a Ledger backed by the given store.
func NewLedger(st *store.Store) *Ledger {
	return &Ledger{store: st}
}

// RecordResult reports how a recorded session relates to history.
type RecordResult struct {
	Stats   model.Stats
	NewBest bool
}

// RecordSession normalizes the input, appends it to the session log,
// updates the game envelope and re-derives statistics from the full log.
// Malformed input is defaulted field by field, never rejected.
func (l *Ledger) RecordSession(ctx context.Context, gameID string, input model.SessionInput) (RecordResult, error) {
	doc, err := l.store.Load(ctx)
	if err != nil {
		return RecordResult{}, err
	}
	rec := doc.Game(gameID)

	session := normalizeSession(input, time.Now().UTC())
	newBest := session.Completed && session.Duration > 0 &&
		(rec.Stats.BestTime == nil || session.Duration < *rec.Stats.BestTime)

	rec.Sessions = append(rec.Sessions, session)
	rec.Info.TotalSessions++
	rec.Info.LastPlayed = session.EndTime
	if rec.Info.FirstPlayed.IsZero() {
		rec.Info.FirstPlayed = session.StartTime
	}
	rec.Stats = DeriveStats(rec.Sessions)

	if err := l.store.Save(ctx, doc); err != nil {
		return RecordResult{}, err
	}
	return RecordResult{Stats: rec.Stats, NewBest: newBest}, nil
}

// GetStats returns the derived statistics for a game, or zero-value
// defaults when no record exists yet.
func (l *Ledger) GetStats(ctx context.Context, gameID string) (model.Stats, error) {
	doc, err := l.store.Load(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	if rec, ok := doc.Games[gameID]; ok && rec != nil {
		return rec.Stats, nil
	}
	return model.Stats{}, nil
}

// DeriveStats recomputes statistics from the full session log. Only
// completed sessions with a positive duration count; re-deriving from
// scratch on every change keeps the averages drift-free.
func DeriveStats(sessions []model.Session) model.Stats {
	var stats model.Stats
	sum := 0
	for _, s := range sessions {
		if !s.Completed || s.Duration <= 0 {
			continue
		}
		stats.TotalCompletions++
		stats.TotalWordsCompleted += s.WordsCount
		sum += s.Duration
		if stats.BestTime == nil || s.Duration < *stats.BestTime {
			d := s.Duration
			stats.BestTime = &d
		}
	}
	if stats.TotalCompletions > 0 {
		stats.AverageTime = int(math.Round(float64(sum) / float64(stats.TotalCompletions)))
	}
	return stats
}

func normalizeSession(input model.SessionInput, now time.Time) model.Session {
	s := model.Session{
		SessionID:      input.SessionID,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		Duration:       input.Duration,
		Completed:      input.Completed,
		WordsCount:     input.WordsCount,
		Shuffled:       input.Shuffled,
		BackButtonUses: input.BackButtonUses,
	}
	if s.SessionID == "" {
		s.SessionID = uuid.NewString()
	}
	if s.Duration < 0 {
		s.Duration = 0
	}
	if s.WordsCount < 0 {
		s.WordsCount = 0
	}
	if s.BackButtonUses < 0 {
		s.BackButtonUses = 0
	}
	if s.EndTime.IsZero() {
		s.EndTime = now
	}
	if s.StartTime.IsZero() {
		s.StartTime = s.EndTime.Add(-time.Duration(s.Duration) * time.Second)
	}
	return s
}
