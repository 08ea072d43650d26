// Package daily derives the daily-challenge word from the calendar date.
// Every player gets the same word on the same UTC day; the salt keeps the
// sequence unguessable from the public word list.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// Challenge is the word of one day.
type Challenge struct {
	Date  string
	Index int
	Word  string
}

// Pick selects the challenge for t from answers. Word is empty when answers is.
func Pick(t time.Time, salt string, answers []string) Challenge {
	c := Challenge{Date: DateKey(t)}
	if len(answers) == 0 {
		return c
	}
	c.Index = WordIndex(t, salt, len(answers))
	c.Word = answers[c.Index]
	return c
}
