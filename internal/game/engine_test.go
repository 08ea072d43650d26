package game

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

type fakeLexicon map[string]bool

func (f fakeLexicon) Contains(w string) bool { return f[w] }

func TestNewNormalizesSecret(t *testing.T) {
	is := is.New(t)
	g := New("  crane\n")
	is.Equal(g.Secret, "CRANE")
	is.Equal(g.MaxAttempts, DefaultAttempts)
	is.Equal(g.WordLength(), 5)
	is.Equal(len(g.ID), 16)
	is.Equal(g.State(), Playing)
}

func TestApplyGuessWin(t *testing.T) {
	is := is.New(t)
	g := New("CRANE")

	turn, err := g.ApplyGuess("react")
	is.NoErr(err)
	is.Equal(turn.Guess, "REACT")
	is.Equal(turn.State, Playing)
	is.Equal(turn.Remaining, 5)

	turn, err = g.ApplyGuess("Crane")
	is.NoErr(err)
	is.Equal(turn.Verdicts, []Verdict{Exact, Exact, Exact, Exact, Exact})
	is.Equal(turn.State, Won)
	is.True(g.Finished)
	is.True(g.Won)
	is.Equal(len(g.Turns), 2)

	_, err = g.ApplyGuess("CRANE")
	is.True(err == ErrFinished)
}

func TestApplyGuessLoss(t *testing.T) {
	is := is.New(t)
	g := New("CRANE", WithAttempts(2))

	_, err := g.ApplyGuess("SLATE")
	is.NoErr(err)
	turn, err := g.ApplyGuess("PLUMB")
	is.NoErr(err)
	is.Equal(turn.State, Lost)
	is.Equal(turn.Remaining, 0)
	is.Equal(g.State(), Lost)
}

func TestApplyGuessValidation(t *testing.T) {
	lex := fakeLexicon{"CRANE": true, "SLATE": true}
	g := New("crane", WithLexicon(lex), WithAttempts(3))

	cases := []struct {
		guess string
		want  error
	}{
		{"CRAN", ErrInvalidGuess},
		{"CRANES", ErrInvalidGuess},
		{"CR4NE", ErrInvalidGuess},
		{"", ErrInvalidGuess},
		{"QQQQQ", ErrNotInWordList},
	}
	for _, tc := range cases {
		t.Run(tc.guess, func(t *testing.T) {
			is := is.New(t)
			_, err := g.ApplyGuess(tc.guess)
			is.True(err != nil)
			is.True(errors.Is(err, tc.want))
		})
	}

	is := is.New(t)
	// Rejected guesses never cost an attempt.
	is.Equal(g.Remaining(), 3)
	is.Equal(len(g.Guesses), 0)

	_, err := g.ApplyGuess("slate")
	is.NoErr(err)
	is.Equal(g.Remaining(), 2)
}

func TestAbandon(t *testing.T) {
	is := is.New(t)
	g := New("CRANE")
	g.Abandon()
	is.Equal(g.State(), Lost)
	_, err := g.ApplyGuess("CRANE")
	is.True(err == ErrFinished)
}

func TestWithID(t *testing.T) {
	is := is.New(t)
	is.Equal(New("CRANE", WithID("abc")).ID, "abc")
	is.True(New("CRANE", WithID("")).ID != "")
}

func TestSolvedEmpty(t *testing.T) {
	is := is.New(t)
	is.True(Solved(nil))
	_, solved, err := Score("", "")
	is.NoErr(err)
	is.Equal(solved, Solved(nil))
	is.True(Solved([]Verdict{Exact}))
	is.True(!Solved([]Verdict{Exact, Present}))
}
