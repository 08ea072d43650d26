package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/robalobadob/tordle/internal/config"
	"github.com/robalobadob/tordle/internal/dictionary"
	"github.com/robalobadob/tordle/internal/history"
	"github.com/robalobadob/tordle/internal/httpserver"
	"github.com/robalobadob/tordle/internal/shell"
	"github.com/robalobadob/tordle/internal/store"
	"github.com/robalobadob/tordle/internal/words"
)

const usage = `usage: tordle [flags] [play|serve]

  play   guess the word in the terminal (default)
  serve  run the HTTP game server
`

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd := "play"
	if len(cfg.Args) > 0 {
		cmd = cfg.Args[0]
	}
	setupLogging(cmd, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "play":
		err = play(ctx, cfg)
	case "serve":
		err = serve(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("exited")
	}
}

// setupLogging logs human-readable warnings to stderr while playing and
// JSON to stdout when serving.
func setupLogging(cmd, level string) {
	def := zerolog.WarnLevel
	if cmd == "serve" {
		def = zerolog.InfoLevel
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.SetGlobalLevel(def)
	if level == "" {
		return
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", level).Msg("unknown log level")
	}
}

func loadWords(ctx context.Context, cfg *config.Config) (*words.List, error) {
	return words.Load(ctx, words.Source{
		AnswersFile: cfg.AnswersFile,
		AllowedFile: cfg.AllowedFile,
		URL:         cfg.WordsURL,
		Length:      cfg.WordLength,
		Attempts:    cfg.RequestAttempts,
		RetryDelay:  cfg.RetryDelay,
	})
}

func newDictionary(cfg *config.Config) *dictionary.Client {
	d := dictionary.New(cfg.DictionaryURL, cfg.RequestAttempts)
	d.RetryDelay = cfg.RetryDelay
	return d
}

func play(ctx context.Context, cfg *config.Config) error {
	list, err := loadWords(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}

	var hist *history.Store
	if cfg.DBPath != "" {
		hist, err = history.Open(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer hist.Close()
	}

	var dict shell.Definer
	if !cfg.NoDefinition {
		dict = newDictionary(cfg)
	}

	rl, err := shell.NewReadline(cfg.HistoryFile)
	if err != nil {
		return err
	}
	defer rl.Close()

	return shell.NewController(cfg, list, dict, hist, rl, rl.Stdout()).Run(ctx)
}

func serve(ctx context.Context, cfg *config.Config) error {
	list, err := loadWords(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}
	a, g := list.Stats()
	log.Info().Int("answers", a).Int("allowed", g).Msg("word lists loaded")

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = config.DefaultServeDB
	}
	hist, err := history.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer hist.Close()

	var dict httpserver.Definer
	if !cfg.NoDefinition {
		dict = newDictionary(cfg)
	}

	srv := httpserver.New(cfg, store.NewMemoryStore(), hist, list, dict)
	log.Info().Str("port", cfg.Port).Msg("starting tordle server")
	return srv.Run(ctx, ":"+cfg.Port)
}
