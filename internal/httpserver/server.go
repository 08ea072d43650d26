// internal/httpserver/server.go
//
// HTTP server wiring for the tordle backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, CORS, timeouts, panic recovery).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess,
//     GET /game/{id}, GET /game/{id}/definition.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Guests are identified by an anonymous cookie; their games move to the
//     account on signup/login.
//   - Finished games are written to history on a best-effort basis.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tordle/internal/config"
	"github.com/robalobadob/tordle/internal/dictionary"
	"github.com/robalobadob/tordle/internal/game"
	"github.com/robalobadob/tordle/internal/history"
	"github.com/robalobadob/tordle/internal/store"
	"github.com/robalobadob/tordle/internal/words"
)

const (
	shutdownTimeout = 20 * time.Second
	sessionIdle     = 24 * time.Hour
	sweepEvery      = 10 * time.Minute
)

// Definer looks up a word's meaning. *dictionary.Client satisfies it.
type Definer interface {
	Lookup(ctx context.Context, word string) (*dictionary.Entry, error)
}

// Server bundles router, session store, history and word list.
type Server struct {
	r     *chi.Mux
	cfg   *config.Config
	store store.Store
	hist  *history.Store
	words *words.List
	dict  Definer // nil: definitions disabled
	daily *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, st store.Store, hist *history.Store, list *words.List, dict Definer) *Server {
	s := &Server{r: chi.NewRouter(), cfg: cfg, store: st, hist: hist, words: list, dict: dict}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("requestId", chimw.GetReqID(r.Context())).
			Int("status", status).
			Dur("duration", d).
			Msg("request")
	}))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.ClientOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "tordle",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/guess", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		a, g := s.words.Stats()
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "answers": a, "allowed": g})
	})

	// Game endpoints: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Get("/game/{id}", s.handleGetGame)
		r.Get("/game/{id}/definition", s.handleDefinition)
		s.mountDaily(r)
	})

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Router exposes the router (useful for tests).
func (s *Server) Router() http.Handler { return s.r }

// Run serves on addr until ctx is done, then shuts down gracefully.
// Idle sessions are swept in the background.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		t := time.NewTicker(sweepEvery)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				if n := s.store.Sweep(ctx, now.Add(-sessionIdle)); n > 0 {
					log.Info().Int("sessions", n).Msg("swept idle sessions")
				}
			}
		}
	}()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info().Msg("got quit signal...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ----------------------------- helpers -------------------------------------

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<16)).Decode(v)
}

// validAnswer reports whether a fixed answer can be won: the configured
// length, letters only, and accepted as a guess.
func validAnswer(secret string, list *words.List) bool {
	if len([]rune(secret)) != list.Length() {
		return false
	}
	if strings.IndexFunc(secret, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
		return false
	}
	return list.Contains(secret)
}

// guessError maps game errors to a status and error code.
func guessError(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrFinished):
		return http.StatusConflict, "game_finished"
	case errors.Is(err, game.ErrNotInWordList):
		return http.StatusUnprocessableEntity, "not_in_word_list"
	case errors.Is(err, game.ErrInvalidGuess), errors.Is(err, game.ErrLengthMismatch):
		return http.StatusBadRequest, "invalid_guess"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Answer string `json:"answer"` // fixed answer, honored outside production (testing)
}

type newGameRes struct {
	GameID   string `json:"gameId"`
	Length   int    `json:"length"`
	Attempts int    `json:"attempts"`
}

// handleNewGame creates an in-memory game for the current player.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = decode(r, &req) // empty body is fine

	secret := s.words.Random()
	if req.Answer != "" && !s.cfg.Production {
		secret = game.Normalize(req.Answer)
		if !validAnswer(secret, s.words) {
			writeError(w, http.StatusBadRequest, "invalid_answer")
			return
		}
	}
	sess := &store.Session{
		Game:    game.New(secret, game.WithAttempts(s.cfg.Attempts), game.WithLexicon(s.words)),
		Player:  s.playerID(w, r),
		Started: time.Now(),
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{
		GameID:   sess.Game.ID,
		Length:   sess.Game.WordLength(),
		Attempts: sess.Game.MaxAttempts,
	})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type guessRes struct {
	Verdicts  []game.Verdict `json:"verdicts"`
	Solved    bool           `json:"solved"`
	State     game.State     `json:"state"`
	Remaining int            `json:"remaining"`
	Guesses   int            `json:"guesses"`
	Answer    string         `json:"answer,omitempty"` // revealed once the game is over
}

// handleGuess applies a guess to a free-play game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.store.Get(r.Context(), req.GameID)
	if err != nil || sess.Daily != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	s.applyGuess(w, r, sess, req.Guess)
}

// applyGuess scores guess under the session lock and records finished games.
func (s *Server) applyGuess(w http.ResponseWriter, r *http.Request, sess *store.Session, guess string) {
	sess.Lock()
	defer sess.Unlock()

	turn, err := sess.Game.ApplyGuess(guess)
	if err != nil {
		status, code := guessError(err)
		writeError(w, status, code)
		return
	}

	res := guessRes{
		Verdicts:  turn.Verdicts,
		Solved:    turn.State == game.Won,
		State:     turn.State,
		Remaining: turn.Remaining,
		Guesses:   len(sess.Game.Guesses),
	}
	if sess.Game.Finished {
		res.Answer = sess.Game.Secret
		s.recordFinished(r.Context(), sess)
	}
	writeJSON(w, http.StatusOK, res)
}

// recordFinished persists a finished game (best effort, non-fatal if it fails).
func (s *Server) recordFinished(ctx context.Context, sess *store.Session) {
	if s.hist == nil {
		return
	}
	g := sess.Game
	if err := s.hist.RecordGame(ctx, history.RecordFromGame(g, sess.Player, sess.Started)); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("record game")
	}
	if sess.Daily != nil && g.Won {
		err := s.hist.InsertDailyResult(ctx, history.DailyResult{
			Player:    sess.Player,
			Date:      sess.Daily.Date,
			WordIndex: sess.Daily.Index,
			Guesses:   len(g.Guesses),
			ElapsedMs: int(time.Since(sess.Started).Milliseconds()),
		})
		if err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("record daily result")
		}
	}
}

type gameRes struct {
	GameID    string      `json:"gameId"`
	State     game.State  `json:"state"`
	Length    int         `json:"length"`
	Remaining int         `json:"remaining"`
	Turns     []game.Turn `json:"turns"`
	Answer    string      `json:"answer,omitempty"`
}

// handleGetGame returns the board so far; the answer only once finished.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	sess.Lock()
	g := sess.Game
	res := gameRes{
		GameID:    g.ID,
		State:     g.State(),
		Length:    g.WordLength(),
		Remaining: g.Remaining(),
		Turns:     append([]game.Turn{}, g.Turns...),
	}
	if g.Finished {
		res.Answer = g.Secret
	}
	sess.Unlock()
	writeJSON(w, http.StatusOK, res)
}

// handleDefinition looks up the answer of a finished game.
func (s *Server) handleDefinition(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	sess.Lock()
	finished, secret := sess.Game.Finished, sess.Game.Secret
	sess.Unlock()

	if !finished {
		writeError(w, http.StatusConflict, "game_in_progress")
		return
	}
	if s.dict == nil {
		writeError(w, http.StatusServiceUnavailable, "definitions_disabled")
		return
	}
	entry, err := s.dict.Lookup(r.Context(), strings.ToLower(secret))
	switch {
	case errors.Is(err, dictionary.ErrNotFound):
		writeError(w, http.StatusNotFound, "no_definition")
	case err != nil:
		log.Warn().Err(err).Str("word", secret).Msg("dictionary lookup")
		writeError(w, http.StatusBadGateway, "dictionary_unavailable")
	default:
		writeJSON(w, http.StatusOK, entry)
	}
}
