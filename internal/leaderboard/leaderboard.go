// Package leaderboard maintains the ranked top-ten high score list and
// the historical list of scores displaced from it.
package leaderboard

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dennispr/WordPractice/internal/model"
	"github.com/dennispr/WordPractice/internal/store"
)

// TopTenSize is how many ranked entries are kept before scores are
// displaced into the historical list.
const TopTenSize = 10

// Board manages high scores inside the persisted profile document.
type Board struct {
	store *store.Store
}

// New returns a Board backed by the given store.
func New(st *store.Store) *Board {
	return &Board{store: st}
}

// IsQualifying reports whether a time would enter the top ten. Any time
// qualifies while fewer than ten entries exist; afterwards the time must
// beat the tenth place strictly, so a tie does not qualify.
func (b *Board) IsQualifying(ctx context.Context, gameID string, seconds int) (bool, error) {
	doc, err := b.store.Load(ctx)
	if err != nil {
		return false, err
	}
	rec, ok := doc.Games[gameID]
	if !ok || rec == nil {
		return true, nil
	}
	return qualifies(rec.HighScores.TopTen, seconds), nil
}

// AddScore commits a score and returns its 1-based rank. The list is
// sorted ascending by time with a stable sort, so equal times rank in
// insertion order. A rank beyond TopTenSize means the entry was
// displaced into the historical list immediately.
func (b *Board) AddScore(ctx context.Context, gameID, initials string, seconds, wordsCount int) (int, error) {
	doc, err := b.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	rec := doc.Game(gameID)
	scores := &rec.HighScores

	now := time.Now().UTC()
	entry := model.ScoreEntry{
		Initials:    normalizeInitials(initials),
		Time:        seconds,
		Date:        now,
		WordsCount:  wordsCount,
		Timestamp:   nextTimestamp(*scores, now),
		WasInTopTen: true,
	}

	scores.TopTen = append(scores.TopTen, entry)
	sort.SliceStable(scores.TopTen, func(i, j int) bool {
		return scores.TopTen[i].Time < scores.TopTen[j].Time
	})

	rank := 0
	for i := range scores.TopTen {
		if scores.TopTen[i].Timestamp == entry.Timestamp {
			rank = i + 1
			break
		}
	}

	for len(scores.TopTen) > TopTenSize {
		evictLast(scores, now)
	}

	if err := b.store.Save(ctx, doc); err != nil {
		return 0, err
	}
	return rank, nil
}

// GetScores returns the current lists. The slices are never nil.
func (b *Board) GetScores(ctx context.Context, gameID string) (model.HighScores, error) {
	empty := model.HighScores{TopTen: []model.ScoreEntry{}, Historical: []model.ScoreEntry{}}
	doc, err := b.store.Load(ctx)
	if err != nil {
		return empty, err
	}
	rec, ok := doc.Games[gameID]
	if !ok || rec == nil {
		return empty, nil
	}
	scores := rec.HighScores
	if scores.TopTen == nil {
		scores.TopTen = []model.ScoreEntry{}
	}
	if scores.Historical == nil {
		scores.Historical = []model.ScoreEntry{}
	}
	return scores, nil
}

func qualifies(topTen []model.ScoreEntry, seconds int) bool {
	if len(topTen) < TopTenSize {
		return true
	}
	return seconds < topTen[len(topTen)-1].Time
}

// evictLast moves the worst entry out of the top ten. The timestamp
// identity guard keeps the historical list duplicate-free even if the
// same entry is processed twice.
func evictLast(scores *model.HighScores, now time.Time) {
	last := scores.TopTen[len(scores.TopTen)-1]
	scores.TopTen = scores.TopTen[:len(scores.TopTen)-1]
	for _, h := range scores.Historical {
		if h.Timestamp == last.Timestamp {
			return
		}
	}
	removed := now
	last.RemovedFromTopTen = &removed
	scores.Historical = append(scores.Historical, last)
}

// nextTimestamp returns a millisecond identity strictly greater than
// every identity already recorded, so inserts within the same
// millisecond stay distinguishable.
func nextTimestamp(scores model.HighScores, now time.Time) int64 {
	ts := now.UnixMilli()
	var maxSeen int64
	for _, e := range scores.TopTen {
		if e.Timestamp > maxSeen {
			maxSeen = e.Timestamp
		}
	}
	for _, e := range scores.Historical {
		if e.Timestamp > maxSeen {
			maxSeen = e.Timestamp
		}
	}
	if ts <= maxSeen {
		ts = maxSeen + 1
	}
	return ts
}

func normalizeInitials(initials string) string {
	initials = strings.ToUpper(strings.TrimSpace(initials))
	runes := []rune(initials)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}
