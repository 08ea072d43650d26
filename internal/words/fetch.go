package words

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

const (
	defaultAttempts   = 5
	defaultRetryDelay = 500 * time.Millisecond
)

// fetchList downloads src.URL and parses it. Transport errors and 5xx
// responses are retried; other non-200 statuses fail immediately.
func fetchList(ctx context.Context, src Source) ([]string, error) {
	client := src.HTTP
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	attempts := src.Attempts
	if attempts == 0 {
		attempts = defaultAttempts
	}
	delay := src.RetryDelay
	if delay == 0 {
		delay = defaultRetryDelay
	}

	list, err := retry.DoWithData(
		func() ([]string, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
			if err != nil {
				return nil, retry.Unrecoverable(err)
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode >= 500:
				return nil, fmt.Errorf("words: %s: %s", src.URL, resp.Status)
			case resp.StatusCode != http.StatusOK:
				return nil, retry.Unrecoverable(fmt.Errorf("words: %s: %s", src.URL, resp.Status))
			}
			return Parse(resp.Body, src.Length)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Msg("retrying word list fetch")
		}),
	)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %s returned no %d-letter words", ErrEmpty, src.URL, src.Length)
	}
	return list, nil
}
