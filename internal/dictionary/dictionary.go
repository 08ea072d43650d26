// Package dictionary looks up word definitions from a
// dictionaryapi.dev-compatible endpoint (GET {base}/{word} → JSON array).
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// ErrNotFound means the dictionary has no entry for the word. It is never retried.
var ErrNotFound = errors.New("dictionary: no entry")

type Definition struct {
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
}

type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
}

// Entry is the first entry the API returns for a word.
type Entry struct {
	Word     string    `json:"word"`
	Phonetic string    `json:"phonetic,omitempty"`
	Meanings []Meaning `json:"meanings"`
}

// Client is safe for concurrent use.
type Client struct {
	BaseURL    string
	HTTP       *http.Client
	Attempts   uint
	RetryDelay time.Duration
}

// New returns a client for baseURL, or DefaultBaseURL when empty.
func New(baseURL string, attempts uint) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTP:       &http.Client{Timeout: 10 * time.Second},
		Attempts:   attempts,
		RetryDelay: 500 * time.Millisecond,
	}
}

// Lookup fetches the entry for word. Transport failures, 5xx responses and
// malformed bodies are retried up to c.Attempts times.
func (c *Client) Lookup(ctx context.Context, word string) (*Entry, error) {
	endpoint := c.BaseURL + "/" + url.PathEscape(strings.ToLower(word))
	attempts := c.Attempts
	if attempts == 0 {
		attempts = 5
	}
	httpc := c.HTTP
	if httpc == nil {
		httpc = http.DefaultClient
	}

	return retry.DoWithData(
		func() (*Entry, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, retry.Unrecoverable(err)
			}
			req.Header.Set("Accept", "application/json")
			resp, err := httpc.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return nil, retry.Unrecoverable(fmt.Errorf("%w: %s", ErrNotFound, word))
			case resp.StatusCode >= 500:
				return nil, fmt.Errorf("dictionary: %s: %s", word, resp.Status)
			case resp.StatusCode != http.StatusOK:
				return nil, retry.Unrecoverable(fmt.Errorf("dictionary: %s: %s", word, resp.Status))
			}
			return decode(resp.Body, word)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Str("word", word).Uint("attempt", n+1).Msg("retrying dictionary lookup")
		}),
	)
}

func decode(r io.Reader, word string) (*Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("dictionary: decode %s: %w", word, err)
	}
	if len(entries) == 0 {
		return nil, retry.Unrecoverable(fmt.Errorf("%w: %s", ErrNotFound, word))
	}
	return &entries[0], nil
}
