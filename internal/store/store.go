// Package store handles SQLite persistence of the profile document.
//
// The whole profile (user identity, per-game stats, high scores and the
// session log) is stored as a single JSON document under one well-known
// key. Every save is a full-document overwrite; callers load, mutate and
// save in one logical step.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dennispr/WordPractice/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// profileKey is the well-known key the profile document lives under.
const profileKey = "profile"

// Store wraps SQLite access for the profile document.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the profile document, repairing whatever it finds. A
// missing or corrupt document is replaced with a fresh default and
// persisted so the minted user identity survives. A readable document
// with missing fields is backfilled in memory and written back on the
// caller's next save.
func (s *Store) Load(ctx context.Context) (*model.Document, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE key = ?`, profileKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return s.resetToDefaults(ctx)
	}
	if err != nil {
		return nil, err
	}

	var doc model.Document
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		// Corrupt document. Start over rather than fail.
		return s.resetToDefaults(ctx)
	}
	if minted := fillDefaults(&doc); minted {
		if err := s.Save(ctx, &doc); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

// Save overwrites the stored profile document.
func (s *Store) Save(ctx context.Context, doc *model.Document) error {
	value, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		profileKey, string(value), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// Reset deletes the stored document. The next Load recreates defaults
// with a freshly generated user identity.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE key = ?`, profileKey)
	return err
}

// Preference returns the string preference stored under key, or empty
// when unset or of another type.
func (s *Store) Preference(ctx context.Context, key string) (string, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	if v, ok := doc.UserProfile.Preferences[key].(string); ok {
		return v, nil
	}
	return "", nil
}

// SetPreference stores a string preference under key.
func (s *Store) SetPreference(ctx context.Context, key, value string) error {
	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	doc.UserProfile.Preferences[key] = value
	return s.Save(ctx, doc)
}

func (s *Store) resetToDefaults(ctx context.Context) (*model.Document, error) {
	doc := &model.Document{}
	fillDefaults(doc)
	if err := s.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// fillDefaults backfills every required field of a partially-populated
// document in one declarative pass, so older or partially-written
// documents upgrade in place on the next read. The app's own game
// record container is created when absent. It reports whether a new
// user identity was minted, the one repair worth persisting immediately.
func fillDefaults(doc *model.Document) bool {
	minted := false
	if doc.UserProfile.UserID == "" {
		doc.UserProfile.UserID = uuid.NewString()
		minted = true
	}
	if doc.UserProfile.CreatedAt.IsZero() {
		doc.UserProfile.CreatedAt = time.Now().UTC()
	}
	if doc.UserProfile.Preferences == nil {
		doc.UserProfile.Preferences = map[string]any{}
	}
	if doc.Games == nil {
		doc.Games = map[string]*model.GameRecord{}
	}
	if _, ok := doc.Games[model.GameID]; !ok {
		doc.Games[model.GameID] = model.NewGameRecord()
	}
	for id, rec := range doc.Games {
		if rec == nil {
			rec = &model.GameRecord{}
			doc.Games[id] = rec
		}
		if id == model.GameID {
			fillGameIdentity(&rec.Info)
		}
		if rec.Info.TotalSessions < 0 {
			rec.Info.TotalSessions = 0
		}
		if rec.Sessions == nil {
			rec.Sessions = []model.Session{}
		}
		if rec.HighScores.TopTen == nil {
			rec.HighScores.TopTen = []model.ScoreEntry{}
		}
		if rec.HighScores.Historical == nil {
			rec.HighScores.Historical = []model.ScoreEntry{}
		}
	}
	return minted
}

// fillGameIdentity restores the identity fields of this app's own
// record. Records of other games are left alone; their identity is not
// ours to invent.
func fillGameIdentity(info *model.GameInfo) {
	if info.Name == "" {
		info.Name = model.GameName
	}
	if info.Developer == "" {
		info.Developer = model.GameDeveloper
	}
	if info.Version == "" {
		info.Version = model.GameVersion
	}
}
