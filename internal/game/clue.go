package game

import "fmt"

// Score classifies every position of guess against secret.
//
// Pass 1 marks exact matches and removes them from a multiset seeded with the
// secret's letters. Pass 2 walks the remaining positions left to right and
// marks a letter present only while the multiset still holds an unclaimed
// occurrence of it, so each secret letter is credited at most once.
//
// Letters are compared as-is; callers normalize case first (see Normalize).
// solved is true iff every position is Exact.
func Score(secret, guess string) (verdicts []Verdict, solved bool, err error) {
	s, g := []rune(secret), []rune(guess)
	if len(s) != len(g) {
		return nil, false, fmt.Errorf("%w: secret has %d letters, guess has %d", ErrLengthMismatch, len(s), len(g))
	}

	verdicts = make([]Verdict, len(g))
	remaining := make(map[rune]int, len(s))
	for _, r := range s {
		remaining[r]++
	}

	solved = true
	for i := range g {
		if g[i] == s[i] {
			verdicts[i] = Exact
			remaining[g[i]]--
			continue
		}
		verdicts[i] = Absent
		solved = false
	}

	for i := range g {
		if verdicts[i] == Exact {
			continue
		}
		if remaining[g[i]] > 0 {
			verdicts[i] = Present
			remaining[g[i]]--
		}
	}
	return verdicts, solved, nil
}
