// Package shell runs the interactive terminal game: pick a secret, read
// guesses until the word is found or the attempts run out, then show the
// answer's definition.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tordle/internal/config"
	"github.com/robalobadob/tordle/internal/daily"
	"github.com/robalobadob/tordle/internal/dictionary"
	"github.com/robalobadob/tordle/internal/game"
	"github.com/robalobadob/tordle/internal/history"
	"github.com/robalobadob/tordle/internal/render"
	"github.com/robalobadob/tordle/internal/words"
)

// LineReader is the subset of *readline.Instance the game needs.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// Definer looks up the meaning of a word. *dictionary.Client satisfies it.
type Definer interface {
	Lookup(ctx context.Context, word string) (*dictionary.Entry, error)
}

type Controller struct {
	cfg   *config.Config
	words *words.List
	dict  Definer        // nil: no definitions
	hist  *history.Store // nil: nothing is recorded
	in    LineReader
	p     *render.Painter
	now   func() time.Time
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// NewReadline builds the terminal line reader.
func NewReadline(historyFile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
}

// NewController wires a game shell. dict and hist may be nil.
func NewController(cfg *config.Config, list *words.List, dict Definer, hist *history.Store, in LineReader, out io.Writer) *Controller {
	return &Controller{
		cfg:   cfg,
		words: list,
		dict:  dict,
		hist:  hist,
		in:    in,
		p:     render.NewPainter(out),
		now:   time.Now,
	}
}

func (sc *Controller) println(s string, c render.Color) { sc.p.Println(s, c) }

func (sc *Controller) show(s string) {
	fmt.Fprintln(sc.p.Writer(), s)
}

// Run plays one game.
func (sc *Controller) Run(ctx context.Context) error {
	var challenge *daily.Challenge
	if sc.cfg.Daily {
		c := daily.Pick(sc.now(), sc.cfg.DailySalt, sc.words.Answers())
		challenge = &c
		if sc.hist != nil {
			played, err := sc.hist.AlreadyPlayed(ctx, sc.cfg.Player, c.Date)
			if err != nil {
				log.Warn().Err(err).Msg("daily lookup")
			}
			if played {
				sc.println(fmt.Sprintf("You already solved the %s challenge, come back tomorrow!", c.Date), render.AttemptsColor)
				return nil
			}
		}
	}

	secret, entry, err := sc.chooseSecret(ctx, challenge)
	if err != nil {
		return err
	}

	sc.show(sc.p.Title())
	sc.show(sc.p.Turtle())

	g := game.New(secret, game.WithAttempts(sc.cfg.Attempts), game.WithLexicon(sc.words))
	started := sc.now()
	quit := sc.loop(ctx, g)

	if !g.Won {
		sc.println("Game over, better luck next time! The word was ...", render.GameOverColor)
		sc.show(sc.p.BlockWordMono(g.Secret, render.GameOverColor))
	}

	sc.record(ctx, g, challenge, started, quit)

	if entry != nil {
		sc.show(sc.p.FormatEntry(entry))
	}
	return nil
}

// loop reads guesses until the game ends. It reports whether the player quit.
func (sc *Controller) loop(ctx context.Context, g *game.Game) bool {
	prompt := sc.p.Paint(fmt.Sprintf("Enter a %d-letter word: ", g.WordLength()), render.PromptColor, false)
	for !g.Finished {
		sc.println(fmt.Sprintf("%d attempts remaining", g.Remaining()), render.AttemptsColor)
		sc.in.SetPrompt(prompt)

		line, err := sc.in.Readline()
		if errors.Is(err, readline.ErrInterrupt) && len(line) > 0 {
			continue
		}
		if err != nil || ctx.Err() != nil {
			if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, readline.ErrInterrupt) {
				log.Warn().Err(err).Msg("read guess")
			}
			g.Abandon()
			return true
		}

		turn, err := g.ApplyGuess(line)
		switch {
		case errors.Is(err, game.ErrNotInWordList):
			sc.println("Not in the word list, try again\n", render.ErrorColor)
			continue
		case errors.Is(err, game.ErrInvalidGuess):
			sc.println(fmt.Sprintf("Guesses are %d letters, try again\n", g.WordLength()), render.ErrorColor)
			continue
		case err != nil:
			log.Error().Err(err).Str("gameId", g.ID).Msg("apply guess")
			g.Abandon()
			return true
		}

		art, err := sc.p.BlockWord(turn.Guess, render.VerdictColors(turn.Verdicts))
		if err != nil {
			log.Error().Err(err).Msg("render guess")
		}
		sc.show(art)

		if turn.State == game.Won {
			sc.println("You got it!", render.SuccessColor)
			sc.show("")
		}
	}
	return false
}

// chooseSecret draws the secret and its definition. Random draws skip words
// the dictionary doesn't know, up to RequestAttempts tries; the daily word is
// fixed, so a missing definition is simply not shown.
func (sc *Controller) chooseSecret(ctx context.Context, challenge *daily.Challenge) (string, *dictionary.Entry, error) {
	if challenge != nil {
		if challenge.Word == "" {
			return "", nil, words.ErrEmpty
		}
		return challenge.Word, sc.define(ctx, challenge.Word), nil
	}

	word := sc.words.Random()
	if sc.dict == nil || sc.cfg.NoDefinition {
		return word, nil, nil
	}
	for i := uint(0); i < sc.cfg.RequestAttempts; i++ {
		if i > 0 {
			word = sc.words.Random()
		}
		entry, err := sc.dict.Lookup(ctx, word)
		switch {
		case err == nil:
			return word, entry, nil
		case errors.Is(err, dictionary.ErrNotFound):
			log.Debug().Str("word", word).Msg("no definition, drawing another word")
		case ctx.Err() != nil:
			return "", nil, ctx.Err()
		default:
			log.Warn().Err(err).Msg("dictionary unavailable, playing without a definition")
			return word, nil, nil
		}
	}
	return word, nil, nil
}

func (sc *Controller) define(ctx context.Context, word string) *dictionary.Entry {
	if sc.dict == nil || sc.cfg.NoDefinition {
		return nil
	}
	entry, err := sc.dict.Lookup(ctx, word)
	if err != nil {
		log.Warn().Err(err).Str("word", word).Msg("definition unavailable")
		return nil
	}
	return entry
}

// record stores the finished game and prints the player's stats. Games quit
// before any guess are not recorded.
func (sc *Controller) record(ctx context.Context, g *game.Game, challenge *daily.Challenge, started time.Time, quit bool) {
	if sc.hist == nil || (quit && len(g.Guesses) == 0) {
		return
	}
	// context may already be cancelled when the player interrupted
	ctx = context.WithoutCancel(ctx)

	if err := sc.hist.RecordGame(ctx, history.RecordFromGame(g, sc.cfg.Player, started)); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("record game")
	}
	if challenge != nil && g.Won {
		err := sc.hist.InsertDailyResult(ctx, history.DailyResult{
			Player:    sc.cfg.Player,
			Date:      challenge.Date,
			WordIndex: challenge.Index,
			Guesses:   len(g.Guesses),
			ElapsedMs: int(sc.now().Sub(started).Milliseconds()),
		})
		if err != nil {
			log.Warn().Err(err).Msg("record daily result")
		}
	}

	st, err := sc.hist.PlayerStats(ctx, sc.cfg.Player)
	if err != nil {
		log.Warn().Err(err).Msg("player stats")
		return
	}
	sc.println(fmt.Sprintf("Played: %d  Win%%: %d  Streak: %d  Max streak: %d",
		st.Played, st.WinRate(), st.CurrentStreak, st.MaxStreak), render.AttemptsColor)
}
