package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/matryer/is"

	"github.com/robalobadob/tordle/internal/config"
	"github.com/robalobadob/tordle/internal/daily"
	"github.com/robalobadob/tordle/internal/dictionary"
	"github.com/robalobadob/tordle/internal/history"
	"github.com/robalobadob/tordle/internal/words"
)

type scriptReader struct {
	lines   []string
	prompts []string
}

func (s *scriptReader) SetPrompt(p string) { s.prompts = append(s.prompts, p) }

func (s *scriptReader) Readline() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	if l == "^C" {
		return "", readline.ErrInterrupt
	}
	return l, nil
}

type fakeDict struct {
	known   map[string]bool
	lookups []string
	err     error
}

func (f *fakeDict) Lookup(_ context.Context, w string) (*dictionary.Entry, error) {
	f.lookups = append(f.lookups, w)
	if f.err != nil {
		return nil, f.err
	}
	if !f.known[w] {
		return nil, dictionary.ErrNotFound
	}
	return &dictionary.Entry{
		Word:     strings.ToLower(w),
		Meanings: []dictionary.Meaning{{PartOfSpeech: "noun", Definitions: []dictionary.Definition{{Definition: "A bird."}}}},
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{Attempts: 6, RequestAttempts: 3, Player: "ana", DailySalt: "salt"}
}

func testList(t *testing.T, answers ...string) *words.List {
	t.Helper()
	l, err := words.New(5, answers, []string{"SLATE", "REACT", "PLUMB"})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestRunWin(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	in := &scriptReader{lines: []string{"react", "qqqqq", "cra", "crane"}}
	dict := &fakeDict{known: map[string]bool{"CRANE": true}}

	sc := NewController(testConfig(), testList(t, "CRANE"), dict, nil, in, &out)
	is.NoErr(sc.Run(context.Background()))

	s := out.String()
	is.True(strings.Contains(s, "6 attempts remaining"))
	is.True(strings.Contains(s, "Not in the word list, try again"))
	is.True(strings.Contains(s, "Guesses are 5 letters, try again"))
	// rejected guesses don't cost attempts
	is.Equal(strings.Count(s, "5 attempts remaining"), 3)
	is.True(strings.Contains(s, "You got it!"))
	is.True(!strings.Contains(s, "Game over"))
	is.True(strings.Contains(s, "[noun]\n  - A bird."))
	is.Equal(in.prompts[0], "Enter a 5-letter word: ")
	is.Equal(dict.lookups, []string{"CRANE"})
}

func TestRunLoss(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	cfg := testConfig()
	cfg.Attempts = 2
	in := &scriptReader{lines: []string{"slate", "plumb", "crane"}}

	sc := NewController(cfg, testList(t, "CRANE"), nil, nil, in, &out)
	is.NoErr(sc.Run(context.Background()))

	s := out.String()
	is.True(strings.Contains(s, "Game over, better luck next time! The word was ..."))
	is.True(!strings.Contains(s, "You got it!"))
	is.Equal(len(in.lines), 1) // third line never read
}

func TestRunQuitRecordsOnlyPlayedGames(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	hist, err := history.Open(ctx, ":memory:")
	is.NoErr(err)
	defer hist.Close()

	// EOF straight away: nothing recorded
	sc := NewController(testConfig(), testList(t, "CRANE"), nil, hist, &scriptReader{}, &bytes.Buffer{})
	is.NoErr(sc.Run(ctx))
	st, err := hist.PlayerStats(ctx, "ana")
	is.NoErr(err)
	is.Equal(st.Played, 0)

	// one guess then Ctrl-C: recorded as a loss
	var out bytes.Buffer
	sc = NewController(testConfig(), testList(t, "CRANE"), nil, hist, &scriptReader{lines: []string{"slate", "^C"}}, &out)
	is.NoErr(sc.Run(ctx))
	st, err = hist.PlayerStats(ctx, "ana")
	is.NoErr(err)
	is.Equal(st.Played, 1)
	is.Equal(st.Wins, 0)
	is.True(strings.Contains(out.String(), "Played: 1  Win%: 0"))
}

func TestChooseSecretSkipsUndefinedWords(t *testing.T) {
	is := is.New(t)
	dict := &fakeDict{known: map[string]bool{}}
	sc := NewController(testConfig(), testList(t, "CRANE"), dict, nil, &scriptReader{}, &bytes.Buffer{})

	word, entry, err := sc.chooseSecret(context.Background(), nil)
	is.NoErr(err)
	is.Equal(word, "CRANE")
	is.True(entry == nil)
	is.Equal(len(dict.lookups), 3)
}

func TestChooseSecretDictionaryDown(t *testing.T) {
	is := is.New(t)
	dict := &fakeDict{err: errors.New("connection refused")}
	sc := NewController(testConfig(), testList(t, "CRANE"), dict, nil, &scriptReader{}, &bytes.Buffer{})

	word, entry, err := sc.chooseSecret(context.Background(), nil)
	is.NoErr(err)
	is.Equal(word, "CRANE")
	is.True(entry == nil)
	is.Equal(len(dict.lookups), 1)
}

func TestRunDaily(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	hist, err := history.Open(ctx, ":memory:")
	is.NoErr(err)
	defer hist.Close()

	day := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	list := testList(t, "CRANE", "SLATE", "REACT", "PLUMB")
	word := daily.Pick(day, "salt", list.Answers()).Word

	cfg := testConfig()
	cfg.Daily = true
	sc := NewController(cfg, list, nil, hist, &scriptReader{lines: []string{word}}, &bytes.Buffer{})
	sc.now = func() time.Time { return day }
	is.NoErr(sc.Run(ctx))

	played, err := hist.AlreadyPlayed(ctx, "ana", "2024-05-01")
	is.NoErr(err)
	is.True(played)

	var out bytes.Buffer
	sc = NewController(cfg, list, nil, hist, &scriptReader{lines: []string{word}}, &out)
	sc.now = func() time.Time { return day }
	is.NoErr(sc.Run(ctx))
	is.True(strings.Contains(out.String(), "You already solved the 2024-05-01 challenge"))
}
