package history

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/robalobadob/tordle/internal/game"
)

// GameRecord is one finished game.
type GameRecord struct {
	ID         string     `json:"id"`
	Player     string     `json:"-"`
	Secret     string     `json:"secret"`
	Status     game.State `json:"status"`
	Guesses    int        `json:"guesses"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt"`
}

// RecordFromGame snapshots a finished game for player.
func RecordFromGame(g *game.Game, player string, started time.Time) GameRecord {
	return GameRecord{
		ID:         g.ID,
		Player:     player,
		Secret:     g.Secret,
		Status:     g.State(),
		Guesses:    len(g.Guesses),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
}

// RecordGame stores a finished game. Recording the same ID twice keeps the latest.
func (s *Store) RecordGame(ctx context.Context, r GameRecord) error {
	if r.Status != game.Won && r.Status != game.Lost {
		return fmt.Errorf("history: game %s not finished (%s)", r.ID, r.Status)
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO games (id, player, secret, status, guesses, started_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Player, r.Secret, string(r.Status), r.Guesses, formatTime(r.StartedAt), formatTime(r.FinishedAt),
	)
	return err
}

// RecentGames lists a player's games, newest first.
func (s *Store) RecentGames(ctx context.Context, player string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, player, secret, status, guesses, started_at, finished_at
        FROM games WHERE player=? ORDER BY finished_at DESC LIMIT ?`, player, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRecord{}
	for rows.Next() {
		var r GameRecord
		var status, started, finished string
		if err := rows.Scan(&r.ID, &r.Player, &r.Secret, &status, &r.Guesses, &started, &finished); err != nil {
			return nil, err
		}
		r.Status = game.State(status)
		r.StartedAt, r.FinishedAt = parseTime(started), parseTime(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats summarizes a player's history.
type Stats struct {
	Played        int         `json:"gamesPlayed"`
	Wins          int         `json:"wins"`
	CurrentStreak int         `json:"streak"`
	MaxStreak     int         `json:"maxStreak"`
	Distribution  map[int]int `json:"distribution"` // guesses → wins
}

// WinRate is the percentage of games won, 0 when nothing was played.
func (st Stats) WinRate() int {
	if st.Played == 0 {
		return 0
	}
	return st.Wins * 100 / st.Played
}

// PlayerStats computes stats from every recorded game of player, in finish order.
func (s *Store) PlayerStats(ctx context.Context, player string) (Stats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, guesses FROM games WHERE player=? ORDER BY finished_at ASC`, player)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	type result struct {
		won     bool
		guesses int
	}
	var results []result
	for rows.Next() {
		var status string
		var r result
		if err := rows.Scan(&status, &r.guesses); err != nil {
			return Stats{}, err
		}
		r.won = game.State(status) == game.Won
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	st := Stats{
		Played:       len(results),
		Wins:         lo.CountBy(results, func(r result) bool { return r.won }),
		Distribution: map[int]int{},
	}
	for _, r := range results {
		if !r.won {
			st.CurrentStreak = 0
			continue
		}
		st.CurrentStreak++
		st.MaxStreak = max(st.MaxStreak, st.CurrentStreak)
		st.Distribution[r.guesses]++
	}
	return st, nil
}

// ClaimGames moves every game recorded under from to player to.
func (s *Store) ClaimGames(ctx context.Context, from, to string) error {
	if from == "" || to == "" || from == to {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE games SET player=? WHERE player=?`, to, from); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `UPDATE OR IGNORE daily_results SET player=? WHERE player=?`, to, from)
	return err
}
