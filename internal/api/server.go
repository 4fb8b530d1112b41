// Package api serves the table over local HTTP.
// GET endpoints are public. POST endpoints require a bearer token when an
// admin key is configured.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexharbor/internal/engine"
	"github.com/talgya/hexharbor/internal/game"
	"github.com/talgya/hexharbor/internal/persistence"
)

const maxActionBody = 64 << 10

// MatchStore reads the match archive.
type MatchStore interface {
	RecentMatches(ctx context.Context, limit int) ([]persistence.Match, error)
	MatchLog(ctx context.Context, id string) ([]string, error)
}

// Server serves one table over HTTP.
type Server struct {
	Table        *engine.Table
	DB           MatchStore // nil disables match history
	Port         int
	AdminKey     string // bearer token for POST endpoints; empty leaves them open
	TargetPoints int

	// AdviceLimiter throttles advice requests per IP. Nil uses 30 per hour.
	AdviceLimiter *RateLimiter
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	limiter := s.AdviceLimiter
	if limiter == nil {
		limiter = NewRateLimiter(30, time.Hour)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/state", s.handleState)
	mux.HandleFunc("GET /api/v1/matches", s.handleMatches)
	mux.HandleFunc("GET /api/v1/matches/{id}/log", s.handleMatchLog)

	mux.HandleFunc("POST /api/v1/action", s.adminOnly(s.handleAction))
	mux.HandleFunc("POST /api/v1/reset", s.adminOnly(s.handleReset))
	mux.HandleFunc("POST /api/v1/advice", s.adminOnly(RateLimitMiddleware(limiter, s.handleAdvice)))

	return corsMiddleware(mux)
}

// Start serves the API in a goroutine. Shut the returned server down to stop.
func (s *Server) Start() *http.Server {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "history", s.DB != nil)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// CORS_ORIGINS adds a comma-separated list to the localhost dev servers.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey != "" && !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// stateView is the state plus the derived values a client would otherwise
// recompute.
type stateView struct {
	game.State
	MatchID        string             `json:"matchId"`
	ActingPlayerID int                `json:"actingPlayerId"`
	TargetPoints   int                `json:"targetPoints"`
	Scores         map[int]game.Score `json:"scores"`
}

func (s *Server) view(snap engine.Snapshot) stateView {
	st := snap.State
	v := stateView{
		State:        st,
		MatchID:      snap.MatchID,
		TargetPoints: s.TargetPoints,
		Scores:       make(map[int]game.Score, len(st.Players)),
	}
	if p, ok := st.ActingPlayer(); ok {
		v.ActingPlayerID = p.ID
	}
	for _, p := range st.Players {
		v.Scores[p.ID] = p.Score()
	}
	return v
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view(s.Table.Snapshot()))
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxActionBody))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	a, err := game.UnmarshalAction(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap := s.Table.Submit(a)
	slog.Debug("action", "type", a.Type(), "phase", snap.State.Phase)
	writeJSON(w, http.StatusOK, s.view(snap))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	snap := s.Table.Submit(game.NewGame{})
	slog.Info("table reset", "match", snap.MatchID)
	writeJSON(w, http.StatusOK, s.view(snap))
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	if !s.Table.RequestAdvice(r.Context()) {
		writeJSON(w, http.StatusConflict, map[string]string{"status": "busy"})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "thinking"})
}

type matchView struct {
	persistence.Match
	Finished string `json:"finished"`
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if s.DB == nil {
		writeJSON(w, http.StatusOK, []matchView{})
		return
	}

	matches, err := s.DB.RecentMatches(r.Context(), limit)
	if err != nil {
		slog.Error("recent matches", "error", err)
		http.Error(w, "archive unavailable", http.StatusInternalServerError)
		return
	}
	out := make([]matchView, len(matches))
	for i, m := range matches {
		out[i] = matchView{Match: m, Finished: humanize.Time(m.FinishedAt)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMatchLog(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "match history disabled", http.StatusNotFound)
		return
	}
	lines, err := s.DB.MatchLog(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("match log", "error", err)
		http.Error(w, "archive unavailable", http.StatusInternalServerError)
		return
	}
	if len(lines) == 0 {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Debug("write response", "error", err)
	}
}
