package daily

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestDateKeyIsUTC(t *testing.T) {
	is := is.New(t)
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2024-03-02 05:00 in UTC+10 is still March 1st in UTC.
	is.Equal(DateKey(time.Date(2024, 3, 2, 5, 0, 0, 0, loc)), "2024-03-01")
}

func TestWordIndexDeterministic(t *testing.T) {
	is := is.New(t)
	day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	later := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)

	is.Equal(WordIndex(day, "salt", 100), WordIndex(later, "salt", 100))
	is.Equal(WordIndex(day, "salt", 0), 0)

	seen := map[int]bool{}
	for d := 0; d < 30; d++ {
		i := WordIndex(day.AddDate(0, 0, d), "salt", 1000)
		is.True(i >= 0 && i < 1000)
		seen[i] = true
	}
	is.True(len(seen) > 20) // spread across days

	differs := false
	for d := 0; d < 10; d++ {
		at := day.AddDate(0, 0, d)
		if WordIndex(at, "salt", 1000) != WordIndex(at, "pepper", 1000) {
			differs = true
		}
	}
	is.True(differs)
}

func TestPick(t *testing.T) {
	is := is.New(t)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	answers := []string{"CRANE", "SLATE", "WHICH"}

	c := Pick(day, "salt", answers)
	is.Equal(c.Date, "2024-03-01")
	is.Equal(c.Word, answers[c.Index])
	is.Equal(Pick(day, "salt", answers), c)

	empty := Pick(day, "salt", nil)
	is.Equal(empty.Word, "")
	is.Equal(empty.Date, "2024-03-01")
}
