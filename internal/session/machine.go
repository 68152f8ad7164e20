// Package session drives the screen flow of a practice run: word
// navigation, timing, completion, and the hand-off between the ledger,
// the leaderboard and the presentation layer.
package session

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dennispr/WordPractice/internal/generator"
	"github.com/dennispr/WordPractice/internal/leaderboard"
	"github.com/dennispr/WordPractice/internal/model"
	"github.com/dennispr/WordPractice/internal/race"
	"github.com/dennispr/WordPractice/internal/stats"
)

// NavCooldown is the minimum interval between accepted navigation
// actions of the same type. Presses inside it are dropped, not queued.
const NavCooldown = 500 * time.Millisecond

// DefaultInitials fills in for an empty initials submission.
const DefaultInitials = "AAA"

// CelebrationDuration hints how long the presentation layer should run
// its celebration effect.
const CelebrationDuration = 3 * time.Second

// Screen identifies the active screen.
type Screen int

const (
	ScreenTitle Screen = iota
	ScreenPractice
	ScreenRace
	ScreenHighScoreInput
	ScreenHighScoreView
	ScreenEnd
	ScreenOptions
)

// Mode selects how a run is presented.
type Mode int

const (
	ModePractice Mode = iota
	ModeRace
)

// Position reports the word being shown and where it sits in the run.
type Position struct {
	Word  string
	Index int
	Total int
}

// Completion summarizes a finished run.
type Completion struct {
	Time       int
	WordsCount int
	NewBest    bool
	Qualifies  bool
	Stats      model.Stats
}

// MoveResult reports the effect of one navigation call. Applied is
// false when the call was dropped by the cooldown or had nothing to do.
type MoveResult struct {
	Applied    bool
	Position   Position
	Completion *Completion
}

// PendingScore holds a qualifying run until initials are submitted.
type PendingScore struct {
	Time       int
	WordsCount int
	NewBest    bool
}

// Celebration signals the presentation layer to play its effect.
type Celebration struct {
	Message  string
	Score    int
	Duration time.Duration
}

// SubmitResult reports a committed score.
type SubmitResult struct {
	Rank        int
	Celebration Celebration
}

// Machine owns the whole run state: the shuffled sequence, the word
// index, session timing and the current screen. All transitions happen
// synchronously inside its methods; there are no ambient globals.
type Machine struct {
	ledger *stats.Ledger
	board  *leaderboard.Board
	gen    *generator.Generator

	words   []string
	limit   int
	ordered bool

	screen   Screen
	mode     Mode
	seq      []string
	index    int
	started  time.Time
	backUses int
	pending  *PendingScore
	race     race.State

	lastAdvance time.Time
	lastRetreat time.Time

	now func() time.Time
}

// New returns a Machine on the title screen. The word list is the full
// source list; each Start draws a fresh sequence from it.
func New(cfg model.Config, ledger *stats.Ledger, board *leaderboard.Board, words []string) *Machine {
	return &Machine{
		ledger:  ledger,
		board:   board,
		gen:     generator.New(),
		words:   words,
		limit:   cfg.Words,
		ordered: cfg.Ordered,
		screen:  ScreenTitle,
		now:     time.Now,
	}
}

// Screen returns the active screen.
func (m *Machine) Screen() Screen {
	return m.screen
}

// Mode returns the mode of the current or last run.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Position returns the current word and its place in the sequence.
func (m *Machine) Position() Position {
	pos := Position{Index: m.index, Total: len(m.seq)}
	if m.index >= 0 && m.index < len(m.seq) {
		pos.Word = m.seq[m.index]
	}
	return pos
}

// Elapsed returns the time since the current run started.
func (m *Machine) Elapsed() time.Duration {
	if m.started.IsZero() {
		return 0
	}
	return m.now().Sub(m.started)
}

// RaceState returns the race references fixed at the last Start.
func (m *Machine) RaceState() race.State {
	return m.race
}

// Pending returns the qualifying run awaiting initials, or nil.
func (m *Machine) Pending() *PendingScore {
	return m.pending
}

// Start begins a run: draws a fresh sequence, resets the index, the
// back counter and both cooldowns, and records the start time. Starting
// invalidates whatever run came before it. A race additionally
// snapshots the leaderboard for its reference racers; if that snapshot
// fails the race still starts against the baseline references and the
// error is returned for logging. An empty sequence completes on the
// spot with a zero-second duration instead of stranding the run.
func (m *Machine) Start(mode Mode) error {
	m.seq = m.gen.Sequence(m.words, m.limit, m.ordered)
	m.index = 0
	m.backUses = 0
	m.pending = nil
	m.started = m.now()
	m.lastAdvance = time.Time{}
	m.lastRetreat = time.Time{}
	m.mode = mode

	var err error
	if mode == ModeRace {
		scores, serr := m.board.GetScores(context.Background(), model.GameID)
		if serr != nil {
			err = fmt.Errorf("failed to load race references: %w", serr)
		}
		m.race = race.Init(len(m.seq), scores)
		m.screen = ScreenRace
	} else {
		m.screen = ScreenPractice
	}
	if len(m.seq) == 0 {
		if _, cerr := m.complete(m.started); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Advance moves to the next word, or completes the run when already at
// the last word. Calls within the cooldown of the previous accepted
// Advance are dropped. The returned error is informational; any
// completion transition has already happened when it is non-nil.
func (m *Machine) Advance() (MoveResult, error) {
	if m.screen != ScreenPractice && m.screen != ScreenRace {
		return MoveResult{Position: m.Position()}, nil
	}
	now := m.now()
	if !m.lastAdvance.IsZero() && now.Sub(m.lastAdvance) < NavCooldown {
		return MoveResult{Position: m.Position()}, nil
	}
	m.lastAdvance = now

	if m.index >= len(m.seq)-1 {
		return m.complete(now)
	}
	m.index++
	return MoveResult{Applied: true, Position: m.Position()}, nil
}

// Retreat moves back one word and counts the use. It shares the
// cooldown rule with Advance but on an independent timer, and does
// nothing at the first word.
func (m *Machine) Retreat() MoveResult {
	if m.screen != ScreenPractice && m.screen != ScreenRace {
		return MoveResult{Position: m.Position()}
	}
	now := m.now()
	if !m.lastRetreat.IsZero() && now.Sub(m.lastRetreat) < NavCooldown {
		return MoveResult{Position: m.Position()}
	}
	if m.index == 0 {
		return MoveResult{Position: m.Position()}
	}
	m.lastRetreat = now
	m.index--
	m.backUses++
	return MoveResult{Applied: true, Position: m.Position()}
}

// SubmitInitials commits the pending score and moves to the high score
// view. Empty input falls back to the default initials. The score is
// committed before the transition; on a storage error the transition
// still happens and the error is returned for logging.
func (m *Machine) SubmitInitials(text string) (SubmitResult, error) {
	if m.screen != ScreenHighScoreInput || m.pending == nil {
		return SubmitResult{}, nil
	}
	initials := strings.TrimSpace(text)
	if initials == "" {
		initials = DefaultInitials
	}
	pending := *m.pending
	rank, err := m.board.AddScore(context.Background(), model.GameID, initials, pending.Time, pending.WordsCount)
	m.pending = nil
	m.screen = ScreenHighScoreView
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to add score: %w", err)
	}

	message := fmt.Sprintf("High score! Rank #%d", rank)
	if pending.NewBest {
		message = "New best time!"
	}
	return SubmitResult{
		Rank: rank,
		Celebration: Celebration{
			Message:  message,
			Score:    pending.Time,
			Duration: CelebrationDuration,
		},
	}, nil
}

// AbandonToTitle discards the in-progress run and returns to the title
// screen. Nothing already persisted is touched.
func (m *Machine) AbandonToTitle() {
	m.resetRun()
	m.screen = ScreenTitle
}

// AbandonToOptions discards the in-progress run and opens the options
// screen.
func (m *Machine) AbandonToOptions() {
	m.resetRun()
	m.screen = ScreenOptions
}

// ViewScores opens the high score view outside a run.
func (m *Machine) ViewScores() {
	m.resetRun()
	m.screen = ScreenHighScoreView
}

// complete finishes the run: the session is recorded first, then the
// time is checked against the leaderboard, then the screen changes.
// Storage errors degrade the result but never block the transition.
func (m *Machine) complete(now time.Time) (MoveResult, error) {
	ctx := context.Background()
	duration := int(math.Round(now.Sub(m.started).Seconds()))
	if duration < 0 {
		duration = 0
	}
	wordsCount := len(m.seq)

	var firstErr error
	res, err := m.ledger.RecordSession(ctx, model.GameID, model.SessionInput{
		SessionID:      uuid.NewString(),
		StartTime:      m.started,
		EndTime:        now,
		Duration:       duration,
		Completed:      true,
		WordsCount:     wordsCount,
		Shuffled:       !m.ordered,
		BackButtonUses: m.backUses,
	})
	if err != nil {
		firstErr = fmt.Errorf("failed to record session: %w", err)
	}

	qualifies, err := m.board.IsQualifying(ctx, model.GameID, duration)
	if err != nil {
		qualifies = false
		if firstErr == nil {
			firstErr = fmt.Errorf("failed to check qualification: %w", err)
		}
	}

	completion := &Completion{
		Time:       duration,
		WordsCount: wordsCount,
		NewBest:    res.NewBest,
		Qualifies:  qualifies,
		Stats:      res.Stats,
	}
	if qualifies {
		m.pending = &PendingScore{Time: duration, WordsCount: wordsCount, NewBest: res.NewBest}
		m.screen = ScreenHighScoreInput
	} else {
		m.screen = ScreenEnd
	}
	return MoveResult{Applied: true, Position: m.Position(), Completion: completion}, firstErr
}

func (m *Machine) resetRun() {
	m.seq = nil
	m.index = 0
	m.backUses = 0
	m.pending = nil
	m.lastAdvance = time.Time{}
	m.lastRetreat = time.Time{}
}
