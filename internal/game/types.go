// internal/game/types.go
//
// Core type definitions for the tordle game engine.
// Defines:
//   - Verdict: per-letter result of a guess (exact/present/absent).
//   - State:   coarse lifecycle of a game (playing/won/lost).
//   - Turn:    the outcome of one accepted guess.
//   - Game:    state for a single in-progress or finished game.

package game

import "errors"

// Verdict represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "exact":   letter is correct and in the correct position.
//   - "present": letter exists in the secret but in a different position,
//     and an unclaimed occurrence of it remains.
//   - "absent":  no unclaimed occurrence of the letter is left in the secret.
type Verdict string

const (
	Exact   Verdict = "exact"
	Present Verdict = "present"
	Absent  Verdict = "absent"
)

// State is the lifecycle of a game.
type State string

const (
	Playing State = "playing"
	Won     State = "won"
	Lost    State = "lost"
)

var (
	// ErrLengthMismatch is returned by Score when the guess and secret differ in length.
	ErrLengthMismatch = errors.New("guess and secret differ in length")

	ErrFinished      = errors.New("game finished")
	ErrInvalidGuess  = errors.New("invalid guess")
	ErrNotInWordList = errors.New("not in word list")
)

// Lexicon is the membership check applied to guesses before scoring.
// *words.List satisfies it.
type Lexicon interface {
	Contains(word string) bool
}

// Turn is the outcome of one accepted guess.
type Turn struct {
	Guess     string    `json:"guess"`
	Verdicts  []Verdict `json:"verdicts"`
	State     State     `json:"state"`
	Remaining int       `json:"remaining"`
}

// Game holds the state of a single tordle session.
type Game struct {
	ID          string   // Unique game identifier (random hex string).
	Secret      string   // The solution word (always uppercase).
	MaxAttempts int      // Maximum number of scored guesses (typically 6).
	Guesses     []string // Accepted guesses so far (uppercased).
	Turns       []Turn   // Scored turns, parallel to Guesses.
	Finished    bool     // True once the game is over (won or lost).
	Won         bool     // True if the game was finished with a win.

	lexicon Lexicon
}
