// Package config resolves runtime settings from, in increasing precedence:
// built-in defaults, a .env file, environment variables, and command-line flags.
//
// Environment names follow the TORDLE_ prefix; the server settings also honor
// the unprefixed names used by earlier deployments (PORT, JWT_SECRET, ...).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/robalobadob/tordle/internal/dictionary"
	"github.com/robalobadob/tordle/internal/words"
)

const DefaultServeDB = "./data/tordle.db"

type Config struct {
	LogLevel string

	// word source
	WordsURL    string
	AnswersFile string
	AllowedFile string
	Offline     bool
	WordLength  int

	// game
	Attempts        int
	RequestAttempts uint
	RetryDelay      time.Duration
	DictionaryURL   string
	NoDefinition    bool
	Daily           bool
	DailySalt       string
	Player          string
	HistoryFile     string

	// persistence
	DBPath string

	// server
	Port           string
	ClientOrigin   string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	Production     bool

	// Args are the positional arguments left after flag parsing.
	Args []string
}

type setting struct {
	key   string
	def   any
	usage string
	envs  []string
}

var settings = []setting{
	{"log-level", "", "zerolog level (debug, info, warn, error)", []string{"TORDLE_LOG_LEVEL", "LOG_LEVEL"}},
	{"words-url", words.DefaultURL, "URL of a one-word-per-line list", []string{"TORDLE_WORDS_URL"}},
	{"answers-file", "", "answers list file", []string{"TORDLE_ANSWERS_FILE", "WORDS_ANSWERS_FILE"}},
	{"allowed-file", "", "extra allowed guesses file", []string{"TORDLE_ALLOWED_FILE", "WORDS_ALLOWED_FILE"}},
	{"offline", false, "use the embedded word list and skip definitions", []string{"TORDLE_OFFLINE"}},
	{"length", 5, "word length", []string{"TORDLE_WORD_LENGTH"}},
	{"attempts", 6, "guesses per game", []string{"TORDLE_ATTEMPTS"}},
	{"request-attempts", 5, "tries for each network request", []string{"TORDLE_REQUEST_ATTEMPTS"}},
	{"retry-delay", 500 * time.Millisecond, "initial backoff between network tries", []string{"TORDLE_RETRY_DELAY"}},
	{"dictionary-url", dictionary.DefaultBaseURL, "dictionary API base URL", []string{"TORDLE_DICTIONARY_URL"}},
	{"no-definition", false, "don't look up the secret's definition", []string{"TORDLE_NO_DEFINITION"}},
	{"daily", false, "play the daily challenge word", []string{"TORDLE_DAILY"}},
	{"daily-salt", "local_dev_salt", "salt for daily word selection", []string{"TORDLE_DAILY_SALT", "DAILY_SALT"}},
	{"player", "", "player name recorded in history", []string{"TORDLE_PLAYER", "USER"}},
	{"history-file", "", "readline history file", []string{"TORDLE_HISTORY_FILE"}},
	{"db", "", "SQLite database path (empty disables history when playing)", []string{"TORDLE_DB", "DB_PATH"}},
	{"port", "5175", "HTTP listen port", []string{"TORDLE_PORT", "PORT"}},
	{"client-origin", "http://localhost:5173", "allowed CORS origin", []string{"TORDLE_CLIENT_ORIGIN", "CLIENT_ORIGIN"}},
	{"jwt-secret", "dev_secret_change_me", "HS256 signing secret", []string{"TORDLE_JWT_SECRET", "JWT_SECRET"}},
	{"jwt-expires-days", 14, "auth token lifetime in days", []string{"TORDLE_JWT_EXPIRES_DAYS", "JWT_EXPIRES_DAYS"}},
	{"cookie-name", "tordle_token", "auth cookie name", []string{"TORDLE_COOKIE_NAME", "COOKIE_NAME"}},
	{"production", false, "secure cookies (SameSite=None; Secure)", []string{"TORDLE_PRODUCTION"}},
}

// Load reads .env (if present), the environment, and args.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	fs := pflag.NewFlagSet("tordle", pflag.ContinueOnError)
	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		if err := v.BindEnv(append([]string{s.key}, s.envs...)...); err != nil {
			return nil, err
		}
		switch d := s.def.(type) {
		case string:
			fs.String(s.key, d, s.usage)
		case bool:
			fs.Bool(s.key, d, s.usage)
		case int:
			fs.Int(s.key, d, s.usage)
		case time.Duration:
			fs.Duration(s.key, d, s.usage)
		}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	c := &Config{
		LogLevel:        v.GetString("log-level"),
		WordsURL:        v.GetString("words-url"),
		AnswersFile:     v.GetString("answers-file"),
		AllowedFile:     v.GetString("allowed-file"),
		Offline:         v.GetBool("offline"),
		WordLength:      v.GetInt("length"),
		Attempts:        v.GetInt("attempts"),
		RequestAttempts: v.GetUint("request-attempts"),
		RetryDelay:      v.GetDuration("retry-delay"),
		DictionaryURL:   v.GetString("dictionary-url"),
		NoDefinition:    v.GetBool("no-definition"),
		Daily:           v.GetBool("daily"),
		DailySalt:       v.GetString("daily-salt"),
		Player:          v.GetString("player"),
		HistoryFile:     v.GetString("history-file"),
		DBPath:          v.GetString("db"),
		Port:            v.GetString("port"),
		ClientOrigin:    v.GetString("client-origin"),
		JWTSecret:       v.GetString("jwt-secret"),
		JWTExpiresDays:  v.GetInt("jwt-expires-days"),
		CookieName:      v.GetString("cookie-name"),
		Production:      v.GetBool("production") || os.Getenv("NODE_ENV") == "production",
		Args:            fs.Args(),
	}
	if c.Offline {
		c.WordsURL = ""
		c.NoDefinition = true
	}
	if c.Player == "" {
		c.Player = "player"
	}
	return c, c.validate()
}

func (c *Config) validate() error {
	if c.WordLength < 1 {
		return fmt.Errorf("config: length must be positive, got %d", c.WordLength)
	}
	if c.Attempts < 1 {
		return fmt.Errorf("config: attempts must be positive, got %d", c.Attempts)
	}
	if c.RequestAttempts < 1 {
		return fmt.Errorf("config: request-attempts must be positive, got %d", c.RequestAttempts)
	}
	return nil
}
