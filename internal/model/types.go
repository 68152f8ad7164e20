// Package model defines shared data structures.
package model

import "time"

// Identity of the game record owned by this app inside the profile document.
// The document can hold records for other games by the same developer; this
// app only ever touches its own.
const (
	GameID        = "word-practice"
	GameName      = "Word Practice"
	GameDeveloper = "dennispr"
	GameVersion   = "1.0.0"
)

// Config defines practice settings.
type Config struct {
	List    string
	Words   int
	Ordered bool
}

// Document is the full persisted profile: one per user, stored under a
// well-known key and always written back whole.
type Document struct {
	UserProfile UserProfile            `json:"userProfile"`
	Games       map[string]*GameRecord `json:"games"`
}

// UserProfile identifies the local user. UserID is minted on first load and
// never changes afterward; only Preferences are mutable.
type UserProfile struct {
	UserID      string         `json:"userId"`
	CreatedAt   time.Time      `json:"createdAt"`
	Preferences map[string]any `json:"preferences"`
}

// GameRecord holds everything recorded for one game identity.
type GameRecord struct {
	Info       GameInfo   `json:"info"`
	Stats      Stats      `json:"stats"`
	HighScores HighScores `json:"highScores"`
	Sessions   []Session  `json:"sessions"`
}

// GameInfo describes the game and its play-history envelope.
type GameInfo struct {
	Name          string    `json:"name"`
	Developer     string    `json:"developer"`
	Version       string    `json:"version"`
	FirstPlayed   time.Time `json:"firstPlayed"`
	LastPlayed    time.Time `json:"lastPlayed"`
	TotalSessions int       `json:"totalSessions"`
}

// Stats are derived from the session log; they are never edited directly.
// BestTime is nil until a completed run with a positive duration exists.
type Stats struct {
	BestTime            *int `json:"bestTime"`
	AverageTime         int  `json:"averageTime"`
	TotalCompletions    int  `json:"totalCompletions"`
	TotalWordsCompleted int  `json:"totalWordsCompleted"`
}

// Session is one attempt at stepping through the word sequence. Entries are
// append-only and immutable once recorded.
type Session struct {
	SessionID      string    `json:"sessionId"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Duration       int       `json:"duration"`
	Completed      bool      `json:"completed"`
	WordsCount     int       `json:"wordsCount"`
	Shuffled       bool      `json:"shuffled"`
	BackButtonUses int       `json:"backButtonUses"`
}

// SessionInput is the ingestion shape for recording a session. Every field is
// optional; the ledger normalizes whatever it gets.
type SessionInput struct {
	SessionID      string
	StartTime      time.Time
	EndTime        time.Time
	Duration       int
	Completed      bool
	WordsCount     int
	Shuffled       bool
	BackButtonUses int
}

// HighScores keeps the ranked top ten plus every entry ever displaced from it.
type HighScores struct {
	TopTen     []ScoreEntry `json:"topTen"`
	Historical []ScoreEntry `json:"historical"`
}

// ScoreEntry is a committed leaderboard score. Timestamp is a monotonic
// millisecond value used as the entry's identity and tie-break key; entries
// move from TopTen to Historical but are never otherwise mutated.
type ScoreEntry struct {
	Initials          string     `json:"initials"`
	Time              int        `json:"time"`
	Date              time.Time  `json:"date"`
	WordsCount        int        `json:"wordsCount"`
	Timestamp         int64      `json:"timestamp"`
	WasInTopTen       bool       `json:"wasInTopTen"`
	RemovedFromTopTen *time.Time `json:"removedFromTopTen,omitempty"`
}

// NewGameRecord returns an empty record carrying this app's game identity.
func NewGameRecord() *GameRecord {
	return &GameRecord{
		Info: GameInfo{
			Name:      GameName,
			Developer: GameDeveloper,
			Version:   GameVersion,
		},
		HighScores: HighScores{TopTen: []ScoreEntry{}, Historical: []ScoreEntry{}},
		Sessions:   []Session{},
	}
}

// Game returns the record for the given game id, creating an empty one if
// the document has none yet.
func (d *Document) Game(id string) *GameRecord {
	if d.Games == nil {
		d.Games = map[string]*GameRecord{}
	}
	rec, ok := d.Games[id]
	if !ok || rec == nil {
		rec = NewGameRecord()
		d.Games[id] = rec
	}
	return rec
}
