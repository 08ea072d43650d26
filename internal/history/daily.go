package history

import (
	"context"
)

/* ----------------------- Daily Challenge helpers ------------------------ */

// DailyResult is a single player's win of the daily challenge.
// Stored in daily_results with UNIQUE(player, date).
type DailyResult struct {
	Player    string `json:"player"`
	Date      string `json:"date"`      // YYYY-MM-DD, UTC
	WordIndex int    `json:"wordIndex"` // index of the day's answer word
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"` // first guess to win
}

// LeaderboardRow is one line of the daily leaderboard.
type LeaderboardRow struct {
	Player    string `json:"player"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"`
}

// AlreadyPlayed reports whether player has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, player, date string) (bool, error) {
	var cnt int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE player=? AND date=?`,
		player, date,
	).Scan(&cnt); err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// InsertDailyResult stores r; a second result for the same player and date is ignored.
func (s *Store) InsertDailyResult(ctx context.Context, r DailyResult) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO daily_results (player, date, word_index, guesses, elapsed_ms)
        VALUES (?, ?, ?, ?, ?)`,
		r.Player, r.Date, r.WordIndex, r.Guesses, r.ElapsedMs,
	)
	return err
}

// DailyLeaderboard returns the fastest results for date, ordered by elapsed
// time, then guesses, then submission time. limit defaults to 20.
func (s *Store) DailyLeaderboard(ctx context.Context, date string, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT player, guesses, elapsed_ms
        FROM daily_results
        WHERE date=?
        ORDER BY elapsed_ms ASC, guesses ASC, created_at ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, limit)
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.Player, &r.Guesses, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
