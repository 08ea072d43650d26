// internal/words/words.go
//
// Word list management for the game engine.
//
// Responsibilities:
//   - Load answer and allowed-guess lists from files, a URL, or the embedded fallback.
//   - Maintain sets for quick lookups (answers only, answers ∪ guesses).
//   - Supply Random, Contains, IsAnswer and Stats.
//
// Source precedence (Load):
//  1. AnswersFile and AllowedFile both set: answers from the first, extra guesses from the second.
//  2. Exactly one file set: that file serves as both lists.
//  3. URL set: fetch one-word-per-line text (Knuth's SGB list by default), with retries.
//     A failed fetch falls back to the embedded list.
//  4. Otherwise the embedded list from the assets package.
//
// Constraints:
//   - Words must be exactly Length letters; anything else is dropped.
//   - Lists are normalized to uppercase and deduplicated, order preserved.
package words

import (
	"bufio"
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tordle/assets"
)

const (
	DefaultURL    = "https://www-cs-faculty.stanford.edu/~knuth/sgb-words.txt"
	DefaultLength = 5
)

var ErrEmpty = errors.New("words: answers list is empty")

// Source selects where Load reads its lists from.
type Source struct {
	AnswersFile string
	AllowedFile string
	URL         string
	Length      int

	// Fetch tuning; zero values get sensible defaults.
	Attempts   uint
	RetryDelay time.Duration
	HTTP       *http.Client
}

// List is an immutable pair of answer and allowed-guess lists.
type List struct {
	length     int
	answers    []string
	answersSet map[string]struct{}
	allowedSet map[string]struct{} // answers ∪ guesses
}

// New builds a List from already-normalized words. Answers are always allowed.
func New(length int, answers, allowed []string) (*List, error) {
	if len(answers) == 0 {
		return nil, ErrEmpty
	}
	l := &List{
		length:     length,
		answers:    answers,
		answersSet: toSet(answers),
		allowedSet: toSet(answers),
	}
	for _, w := range allowed {
		l.allowedSet[w] = struct{}{}
	}
	return l, nil
}

// Load resolves src into a List.
func Load(ctx context.Context, src Source) (*List, error) {
	if src.Length <= 0 {
		src.Length = DefaultLength
	}

	var answers, allowed []string
	var err error
	switch {
	case src.AnswersFile != "" && src.AllowedFile != "":
		if answers, err = readWordFile(src.AnswersFile, src.Length); err != nil {
			return nil, err
		}
		if allowed, err = readWordFile(src.AllowedFile, src.Length); err != nil {
			return nil, err
		}

	case src.AnswersFile != "" || src.AllowedFile != "":
		path := src.AnswersFile + src.AllowedFile
		if answers, err = readWordFile(path, src.Length); err != nil {
			return nil, err
		}

	case src.URL != "":
		answers, err = fetchList(ctx, src)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			log.Warn().Err(err).Str("url", src.URL).Msg("word list fetch failed, using embedded list")
			if answers, err = embedded(src.Length); err != nil {
				return nil, err
			}
		}

	default:
		if answers, err = embedded(src.Length); err != nil {
			return nil, err
		}
	}

	l, err := New(src.Length, answers, allowed)
	if err != nil {
		return nil, err
	}
	a, g := l.Stats()
	log.Debug().Int("answers", a).Int("allowed", g).Msg("word lists loaded")
	return l, nil
}

// Parse reads one word per line, skipping blanks and '#' comments,
// and keeps uppercase words of exactly length letters.
func Parse(r io.Reader, length int) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if len([]rune(w)) != length || !isAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out, sc.Err()
}

func readWordFile(path string, length int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: %w", err)
	}
	defer f.Close()
	return Parse(f, length)
}

func embedded(length int) ([]string, error) {
	b, err := assets.Words()
	if err != nil {
		return nil, fmt.Errorf("words: embedded list: %w", err)
	}
	return Parse(bytes.NewReader(b), length)
}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Length is the word length every entry in the list has.
func (l *List) Length() int { return l.length }

// Answers returns the answer list. Callers must not modify it.
func (l *List) Answers() []string { return l.answers }

// Random returns a cryptographically random answer.
func (l *List) Random() string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(l.answers))))
	if err != nil {
		return l.answers[0]
	}
	return l.answers[n.Int64()]
}

// Contains reports whether w is a valid guess (answers ∪ guesses).
func (l *List) Contains(w string) bool {
	_, ok := l.allowedSet[strings.ToUpper(w)]
	return ok
}

// IsAnswer reports whether w is an answer word.
func (l *List) IsAnswer(w string) bool {
	_, ok := l.answersSet[strings.ToUpper(w)]
	return ok
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *List) Stats() (answersCount int, allowedCount int) {
	return len(l.answers), len(l.allowedSet)
}
