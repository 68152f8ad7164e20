package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dennispr/WordPractice/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wordpractice.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	})
	return s
}

func TestLoadCreatesDefaults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.UserProfile.UserID == "" {
		t.Fatalf("expected a generated user id")
	}
	if doc.UserProfile.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be set")
	}
	if doc.UserProfile.Preferences == nil {
		t.Fatalf("expected preferences map to be initialized")
	}
	rec, ok := doc.Games[model.GameID]
	if !ok || rec == nil {
		t.Fatalf("expected an empty game record container to be created")
	}
	if rec.Info.Name != model.GameName || rec.Info.Developer != model.GameDeveloper {
		t.Fatalf("expected game identity to be filled, got %+v", rec.Info)
	}
	if len(rec.Sessions) != 0 || len(rec.HighScores.TopTen) != 0 {
		t.Fatalf("expected fresh record to be empty, got %+v", rec)
	}

	again, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again.UserProfile.UserID != doc.UserProfile.UserID {
		t.Fatalf("expected user id %q to survive reload, got %q",
			doc.UserProfile.UserID, again.UserProfile.UserID)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	rec := doc.Game(model.GameID)
	best := 42
	rec.Stats = model.Stats{BestTime: &best, AverageTime: 50, TotalCompletions: 2, TotalWordsCompleted: 20}
	rec.Sessions = append(rec.Sessions, model.Session{
		SessionID:  "session-1",
		StartTime:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 6, 1, 10, 1, 0, 0, time.UTC),
		Duration:   60,
		Completed:  true,
		WordsCount: 10,
		Shuffled:   true,
	})
	rec.HighScores.TopTen = append(rec.HighScores.TopTen, model.ScoreEntry{
		Initials: "ABC", Time: 42, Date: time.Date(2025, 6, 1, 10, 1, 0, 0, time.UTC),
		WordsCount: 10, Timestamp: 1717236060000, WasInTopTen: true,
	})
	doc.UserProfile.Preferences["lastInitials"] = "ABC"

	if err := s.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	got := loaded.Game(model.GameID)
	if got.Stats.BestTime == nil || *got.Stats.BestTime != 42 {
		t.Fatalf("expected bestTime 42, got %v", got.Stats.BestTime)
	}
	if len(got.Sessions) != 1 || got.Sessions[0].SessionID != "session-1" {
		t.Fatalf("expected session log to round-trip, got %v", got.Sessions)
	}
	if got.Sessions[0].Duration != 60 || !got.Sessions[0].Completed {
		t.Fatalf("expected session fields to round-trip, got %+v", got.Sessions[0])
	}
	if len(got.HighScores.TopTen) != 1 || got.HighScores.TopTen[0].Initials != "ABC" {
		t.Fatalf("expected high scores to round-trip, got %v", got.HighScores.TopTen)
	}
	if got.HighScores.TopTen[0].Timestamp != 1717236060000 {
		t.Fatalf("expected score timestamp to round-trip, got %d", got.HighScores.TopTen[0].Timestamp)
	}
	if v, ok := loaded.UserProfile.Preferences["lastInitials"].(string); !ok || v != "ABC" {
		t.Fatalf("expected preference to round-trip, got %v", loaded.UserProfile.Preferences["lastInitials"])
	}
}

func TestLoadReplacesCorruptDocument(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)`,
		profileKey, `{"userProfile": not json`, "")
	if err != nil {
		t.Fatalf("seed corrupt document: %v", err)
	}

	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.UserProfile.UserID == "" {
		t.Fatalf("expected a fresh user id after corruption")
	}

	again, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again.UserProfile.UserID != doc.UserProfile.UserID {
		t.Fatalf("expected replacement document to be persisted")
	}
}

func TestLoadBackfillsPartialDocument(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	partial := `{"userProfile":{"userId":"user-123"},"games":{"word-practice":{"info":{"name":"Word Practice"}}}}`
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)`,
		profileKey, partial, "")
	if err != nil {
		t.Fatalf("seed partial document: %v", err)
	}

	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.UserProfile.UserID != "user-123" {
		t.Fatalf("expected existing user id to be kept, got %q", doc.UserProfile.UserID)
	}
	if doc.UserProfile.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be backfilled")
	}
	if doc.UserProfile.Preferences == nil {
		t.Fatalf("expected preferences to be backfilled")
	}
	rec, ok := doc.Games["word-practice"]
	if !ok || rec == nil {
		t.Fatalf("expected existing game record to be kept")
	}
	if rec.Info.Developer != model.GameDeveloper || rec.Info.Version != model.GameVersion {
		t.Fatalf("expected game identity to be backfilled, got %+v", rec.Info)
	}
	if rec.Sessions == nil {
		t.Fatalf("expected sessions log to be backfilled")
	}
	if rec.HighScores.TopTen == nil || rec.HighScores.Historical == nil {
		t.Fatalf("expected high score lists to be backfilled")
	}
}

func TestLoadLeavesForeignGameIdentityEmpty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	partial := `{"userProfile":{"userId":"user-123"},"games":{"other-game":null,"legacy-game":{"info":{"name":"Legacy Game"}}}}`
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)`,
		profileKey, partial, "")
	if err != nil {
		t.Fatalf("seed partial document: %v", err)
	}

	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	other, ok := doc.Games["other-game"]
	if !ok || other == nil {
		t.Fatalf("expected the null foreign record to be rebuilt")
	}
	if other.Info.Name != "" || other.Info.Developer != "" || other.Info.Version != "" {
		t.Fatalf("expected foreign game identity to stay empty, got %+v", other.Info)
	}
	if other.Sessions == nil || other.HighScores.TopTen == nil || other.HighScores.Historical == nil {
		t.Fatalf("expected foreign record containers to be backfilled")
	}
	legacy := doc.Games["legacy-game"]
	if legacy == nil || legacy.Info.Name != "Legacy Game" || legacy.Info.Developer != "" {
		t.Fatalf("expected existing foreign identity to pass through untouched, got %+v", legacy)
	}
	own := doc.Games[model.GameID]
	if own == nil || own.Info.Name != model.GameName || own.Info.Developer != model.GameDeveloper {
		t.Fatalf("expected own record to carry its identity, got %+v", own)
	}
}

func TestResetMintsNewIdentity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	oldID := doc.UserProfile.UserID

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	fresh, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load after Reset failed: %v", err)
	}
	if fresh.UserProfile.UserID == oldID {
		t.Fatalf("expected a new user id after reset")
	}
	rec := fresh.Games[model.GameID]
	if rec == nil {
		t.Fatalf("expected an empty game record after reset")
	}
	if len(rec.Sessions) != 0 || rec.Info.TotalSessions != 0 || len(rec.HighScores.TopTen) != 0 {
		t.Fatalf("expected reset to wipe all recorded data, got %+v", rec)
	}
}

func TestPreferenceRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	v, err := s.Preference(ctx, "lastInitials")
	if err != nil {
		t.Fatalf("Preference failed: %v", err)
	}
	if v != "" {
		t.Fatalf("expected empty preference, got %q", v)
	}

	if err := s.SetPreference(ctx, "lastInitials", "XYZ"); err != nil {
		t.Fatalf("SetPreference failed: %v", err)
	}
	v, err = s.Preference(ctx, "lastInitials")
	if err != nil {
		t.Fatalf("Preference failed: %v", err)
	}
	if v != "XYZ" {
		t.Fatalf("expected preference XYZ, got %q", v)
	}
}
