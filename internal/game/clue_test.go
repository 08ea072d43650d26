package game

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	E = Exact
	P = Present
	A = Absent
)

func TestScore(t *testing.T) {
	cases := []struct {
		secret, guess string
		want          []Verdict
		solved        bool
	}{
		{"CRANE", "CRANE", []Verdict{E, E, E, E, E}, true},
		{"CRANE", "REACT", []Verdict{P, P, E, P, A}, false},
		{"ABBEY", "BABES", []Verdict{P, P, E, E, A}, false},
		{"HELLO", "WORLD", []Verdict{A, P, A, E, A}, false},
		{"ERASE", "SPEED", []Verdict{P, A, P, P, A}, false},
		{"ABBEY", "KEBAB", []Verdict{A, P, E, P, P}, false},
		{"SPOON", "OOOOO", []Verdict{A, A, E, E, A}, false},
		{"ROBOT", "OOZES", []Verdict{P, E, A, A, A}, false},
		{"LEVEL", "EELLL", []Verdict{P, E, P, A, E}, false},
		{"PIZZA", "ZZZZZ", []Verdict{A, A, E, E, A}, false},
	}
	for _, tc := range cases {
		got, solved, err := Score(tc.secret, tc.guess)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s vs %s", tc.secret, tc.guess)
		assert.Equal(t, tc.solved, solved, "%s vs %s", tc.secret, tc.guess)
	}
}

func TestScoreLengthMismatch(t *testing.T) {
	got, solved, err := Score("ABCDE", "AB")
	assert.True(t, errors.Is(err, ErrLengthMismatch))
	assert.Nil(t, got)
	assert.False(t, solved)

	_, _, err = Score("AB", "ABCDE")
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestScoreIsCaseSensitive(t *testing.T) {
	got, solved, err := Score("CRANE", "crane")
	require.NoError(t, err)
	assert.False(t, solved)
	assert.Equal(t, []Verdict{A, A, A, A, A}, got)
}

func TestScoreEarliestDuplicateWins(t *testing.T) {
	// One E in the secret, two misplaced in the guess: the left one claims it.
	got, _, err := Score("ABCDE", "EEXXX")
	require.NoError(t, err)
	assert.Equal(t, []Verdict{P, A, A, A, A}, got)

	// An exact match claims the letter before any misplaced copy can.
	got, _, err = Score("CRANE", "EERIE")
	require.NoError(t, err)
	assert.Equal(t, []Verdict{A, A, P, A, E}, got)
}

// Random words over a small alphabet so duplicates are common.
func TestScoreProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	word := func(n int) string {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteByte("ABCDE"[rng.Intn(5)])
		}
		return b.String()
	}
	for i := 0; i < 2000; i++ {
		n := 1 + rng.Intn(7)
		secret, guess := word(n), word(n)
		verdicts, solved, err := Score(secret, guess)
		require.NoError(t, err)
		require.Len(t, verdicts, n)

		assert.Equal(t, guess == secret, solved, "%s vs %s", secret, guess)
		assert.Equal(t, solved, Solved(verdicts), "%s vs %s", secret, guess)

		credited := map[byte]int{}
		for i, v := range verdicts {
			if v == Exact {
				assert.Equal(t, secret[i], guess[i])
			}
			if v != Absent {
				credited[guess[i]]++
			}
		}
		for c, n := range credited {
			assert.LessOrEqual(t, n, strings.Count(secret, string(c)), "%s vs %s letter %c", secret, guess, c)
		}
	}
}

func TestScoreConcurrent(t *testing.T) {
	done := make(chan []Verdict)
	for i := 0; i < 16; i++ {
		go func() {
			v, _, _ := Score("ABBEY", "BABES")
			done <- v
		}()
	}
	for i := 0; i < 16; i++ {
		assert.Equal(t, []Verdict{P, P, E, E, A}, <-done)
	}
}
