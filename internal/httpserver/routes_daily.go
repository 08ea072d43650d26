// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today’s daily game
//   - GET  /daily/leaderboard → fetch top results for today (or a given date)
//
// Each player gets one game per day (wins enforced by DB, losses by the in-memory session).
// Sessions live in the shared session store; wins are persisted to DB.
// Deterministic word selection is based on date + salt.

package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tordle/internal/daily"
	"github.com/robalobadob/tordle/internal/game"
	"github.com/robalobadob/tordle/internal/store"
)

const leaderboardSize = 20

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv    *Server
	now    func() time.Time
	mu     sync.Mutex        // guards active and date
	active map[string]string // player|date → game ID, today only
	date   string
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	s.daily = &dailyServer{srv: s, now: time.Now, active: make(map[string]string)}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
		r.Post("/guess", s.daily.handleGuess)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

func (d *dailyServer) challenge() daily.Challenge {
	return daily.Pick(d.now(), d.srv.cfg.DailySalt, d.srv.words.Answers())
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
	Length int    `json:"length"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the player already has a DB row for today → Played=true.
// - Otherwise create/reuse a session and return its GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	player := d.srv.playerID(w, r)
	c := d.challenge()
	if c.Word == "" {
		writeError(w, http.StatusServiceUnavailable, "no_words")
		return
	}

	if d.srv.hist != nil {
		played, err := d.srv.hist.AlreadyPlayed(r.Context(), player, c.Date)
		if err != nil {
			log.Warn().Err(err).Msg("daily lookup")
		}
		if played {
			writeJSON(w, http.StatusOK, dailyNewRes{Date: c.Date, Played: true, Length: len([]rune(c.Word))})
			return
		}
	}

	key := player + "|" + c.Date
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.date != c.Date {
		// yesterday's games can't be resumed
		clear(d.active)
		d.date = c.Date
	}
	if id, ok := d.active[key]; ok {
		if sess, err := d.srv.store.Get(r.Context(), id); err == nil {
			sess.Lock()
			finished := sess.Game.Finished
			sess.Unlock()
			// one attempt per day: a finished (lost) game is not replayed
			writeJSON(w, http.StatusOK, dailyNewRes{GameID: id, Date: c.Date, Played: finished, Length: sess.Game.WordLength()})
			return
		}
	}

	challenge := c
	sess := &store.Session{
		Game:    game.New(c.Word, game.WithAttempts(d.srv.cfg.Attempts), game.WithLexicon(d.srv.words)),
		Player:  player,
		Started: d.now(),
		Daily:   &challenge,
	}
	if err := d.srv.store.Save(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.active[key] = sess.Game.ID
	writeJSON(w, http.StatusOK, dailyNewRes{GameID: sess.Game.ID, Date: c.Date, Length: sess.Game.WordLength()})
}

// -----------------------------------------------------------------------------
// /daily/guess

// handleGuess applies a guess to the caller's daily session. Sessions belong
// to the player who started them.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	player := d.srv.playerID(w, r)

	var req guessReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := d.srv.store.Get(r.Context(), req.GameID)
	if err != nil || sess.Daily == nil || sess.Player != player {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	d.srv.applyGuess(w, r, sess, req.Guess)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string             `json:"date"`
	Top  []leaderboardEntry `json:"top"`
}

type leaderboardEntry struct {
	Player    string `json:"player"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	if d.srv.hist == nil {
		writeJSON(w, http.StatusOK, lbRes{Date: date, Top: []leaderboardEntry{}})
		return
	}
	rows, err := d.srv.hist.DailyLeaderboard(r.Context(), date, leaderboardSize)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	top := make([]leaderboardEntry, 0, len(rows))
	for _, row := range rows {
		top = append(top, leaderboardEntry{Player: d.srv.displayName(r, row.Player), Guesses: row.Guesses, ElapsedMs: row.ElapsedMs})
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: top})
}
