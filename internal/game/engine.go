// internal/game/engine.go
//
// Game engine for a single tordle session.
// Responsibilities:
//   - Create new games around a fixed secret with a bounded attempt budget.
//   - Validate guesses (length, alphabetic, optional lexicon membership).
//   - Score accepted guesses with Score and track playing → won/lost.
//
// Notes:
//   - A guess rejected by the lexicon does not consume an attempt.
//   - Guesses are normalized here, at the boundary; Score itself never folds case.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

const DefaultAttempts = 6

// Option configures a Game at construction time.
type Option func(*Game)

// WithAttempts overrides the attempt budget. Non-positive values are ignored.
func WithAttempts(n int) Option {
	return func(g *Game) {
		if n > 0 {
			g.MaxAttempts = n
		}
	}
}

// WithLexicon rejects guesses the lexicon does not contain.
func WithLexicon(l Lexicon) Option {
	return func(g *Game) { g.lexicon = l }
}

// WithID sets a caller-chosen identifier instead of a random one.
func WithID(id string) Option {
	return func(g *Game) {
		if id != "" {
			g.ID = id
		}
	}
}

// New constructs a game for the given secret.
func New(secret string, opts ...Option) *Game {
	g := &Game{
		ID:          randomID(),
		Secret:      Normalize(secret),
		MaxAttempts: DefaultAttempts,
		Guesses:     []string{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Normalize trims surrounding whitespace and uppercases s.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// WordLength is the number of letters in the secret.
func (g *Game) WordLength() int { return len([]rune(g.Secret)) }

// Remaining reports how many scored guesses are left.
func (g *Game) Remaining() int {
	return max(g.MaxAttempts-len(g.Guesses), 0)
}

// ApplyGuess validates and scores a guess, mutating the game state.
//
// Validation rules:
//   - Game must not be finished (ErrFinished).
//   - Guess must be WordLength() letters (ErrInvalidGuess).
//   - Guess must be known to the lexicon, if one is set (ErrNotInWordList).
//
// State transitions:
//   - All verdicts Exact → Finished, Won.
//   - Otherwise, attempt budget exhausted → Finished (loss).
func (g *Game) ApplyGuess(guess string) (Turn, error) {
	if g.Finished {
		return Turn{}, ErrFinished
	}
	guess = Normalize(guess)
	if len([]rune(guess)) != g.WordLength() || !isAlpha(guess) {
		return Turn{}, fmt.Errorf("%w: want %d letters, got %q", ErrInvalidGuess, g.WordLength(), guess)
	}
	if g.lexicon != nil && !g.lexicon.Contains(guess) {
		return Turn{}, fmt.Errorf("%w: %s", ErrNotInWordList, guess)
	}

	verdicts, solved, err := Score(g.Secret, guess)
	if err != nil {
		return Turn{}, err
	}
	g.Guesses = append(g.Guesses, guess)

	if solved {
		g.Finished, g.Won = true, true
	} else if len(g.Guesses) >= g.MaxAttempts {
		g.Finished = true
	}

	t := Turn{Guess: guess, Verdicts: verdicts, State: g.State(), Remaining: g.Remaining()}
	g.Turns = append(g.Turns, t)
	return t, nil
}

// Abandon ends an unfinished game as a loss.
func (g *Game) Abandon() {
	g.Finished = true
}

// State reports the coarse state of the game.
func (g *Game) State() State {
	if g.Finished {
		if g.Won {
			return Won
		}
		return Lost
	}
	return Playing
}

// Solved reports whether every verdict is Exact. An empty clue is solved,
// matching Score("", "").
func Solved(v []Verdict) bool {
	return lo.EveryBy(v, func(x Verdict) bool { return x == Exact })
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
