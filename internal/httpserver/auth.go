// internal/httpserver/auth.go
//
// Accounts, tokens and player identity.
//   - POST /auth/signup, /auth/login, /auth/logout; GET /auth/me (requires auth).
//   - GET /stats/me, /games/mine for the current player (guest or user).
//   - Tokens are HS256 JWTs, sent as an HttpOnly cookie or a Bearer header.
//   - Guests get an anonymous cookie ID; their games move to the account on
//     signup/login.

package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/tordle/internal/history"
)

const (
	anonCookie  = "tordle_anon"
	anonPrefix  = "anon_"
	anonExpires = 365 * 24 * time.Hour
)

type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ctxUserKey struct{}

type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) mountAuthRoutes() {
	s.r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
			s.clearAuthCookie(w)
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.With(s.requireAuth()).Get("/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, currentUser(r))
		})
	})
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Get("/stats/me", s.handleStats)
		r.Get("/games/mine", s.handleMyGames)
	})
}

// ------------------------------ handlers -----------------------------------

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if s.hist == nil {
		writeError(w, http.StatusServiceUnavailable, "accounts_disabled")
		return
	}
	var req credentials
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := validateSignup(req.Username, req.Password); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_signup", "message": err.Error()})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	u := &history.User{ID: newID(""), Username: req.Username, PasswordHash: string(hash)}
	switch err := s.hist.CreateUser(r.Context(), u); {
	case errors.Is(err, history.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken")
		return
	case err != nil:
		log.Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	s.startSession(w, r, u, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.hist == nil {
		writeError(w, http.StatusServiceUnavailable, "accounts_disabled")
		return
	}
	var req credentials
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	u, err := s.hist.UserByName(r.Context(), strings.TrimSpace(req.Username))
	if err != nil && !errors.Is(err, history.ErrNotFound) {
		log.Error().Err(err).Msg("find user")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	s.startSession(w, r, u, http.StatusOK)
}

// startSession issues the auth cookie and moves the guest's games to u.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, u *history.User, status int) {
	token, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if c, err := r.Cookie(anonCookie); err == nil && strings.HasPrefix(c.Value, anonPrefix) {
		if err := s.hist.ClaimGames(r.Context(), c.Value, u.ID); err != nil {
			log.Warn().Err(err).Str("user", u.ID).Msg("claim guest games")
		}
	}
	s.setAuthCookie(w, token, exp)
	writeJSON(w, status, map[string]any{"user": authUser{ID: u.ID, Username: u.Username}, "token": token})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.hist == nil {
		writeError(w, http.StatusServiceUnavailable, "history_disabled")
		return
	}
	st, err := s.hist.PlayerStats(r.Context(), s.playerID(w, r))
	if err != nil {
		log.Error().Err(err).Msg("player stats")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"played":        st.Played,
		"wins":          st.Wins,
		"winRate":       st.WinRate(),
		"currentStreak": st.CurrentStreak,
		"maxStreak":     st.MaxStreak,
		"distribution":  st.Distribution,
	})
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	if s.hist == nil {
		writeError(w, http.StatusServiceUnavailable, "history_disabled")
		return
	}
	games, err := s.hist.RecentGames(r.Context(), s.playerID(w, r), 50)
	if err != nil {
		log.Error().Err(err).Msg("recent games")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": games})
}

// ----------------------------- middleware ----------------------------------

// withOptionalAuth attaches the user when a valid token is present and
// continues as a guest otherwise.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u := s.authenticate(r); u != nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := s.authenticate(r)
			if u == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
		})
	}
}

// authenticate validates the request's token and checks the user still exists.
func (s *Server) authenticate(r *http.Request) *authUser {
	tokenStr := s.bearerOrCookie(r)
	if tokenStr == "" || s.hist == nil {
		return nil
	}
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil
	}
	if _, err := s.hist.UserByID(r.Context(), claims.Subject); err != nil {
		return nil
	}
	return &authUser{ID: claims.Subject, Username: claims.Username}
}

func currentUser(r *http.Request) *authUser {
	u, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return u
}

// ------------------------------ identity -----------------------------------

// playerID is the user's ID when logged in, otherwise the guest's anonymous ID.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if u := currentUser(r); u != nil {
		return u.ID
	}
	return s.ensureAnonID(w, r)
}

// ensureAnonID reads the anonymous cookie, issuing one when missing.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookie); err == nil && strings.HasPrefix(c.Value, anonPrefix) {
		return c.Value
	}
	id := newID(anonPrefix)
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: s.sameSite(),
		Expires:  time.Now().Add(anonExpires),
	})
	// later reads in this request see the same ID
	r.AddCookie(&http.Cookie{Name: anonCookie, Value: id})
	return id
}

// displayName resolves a player ID for public listings.
func (s *Server) displayName(r *http.Request, player string) string {
	if strings.HasPrefix(player, anonPrefix) || s.hist == nil {
		return "guest"
	}
	u, err := s.hist.UserByID(r.Context(), player)
	if err != nil {
		return "guest"
	}
	return u.Username
}

// ------------------------------- tokens ------------------------------------

func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(time.Duration(s.cfg.JWTExpiresDays) * 24 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := token.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

func (s *Server) sameSite() http.SameSite {
	if s.cfg.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: s.sameSite(),
		Expires:  exp,
	})
}

func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: s.sameSite(),
		MaxAge:   -1,
	})
}

func (s *Server) bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// ------------------------------ helpers ------------------------------------

func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8-100 chars")
	}
	return nil
}

func newID(prefix string) string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return prefix + hex.EncodeToString(b)
}
