package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/talgya/hexharbor/internal/ai"
	"github.com/talgya/hexharbor/internal/engine"
	"github.com/talgya/hexharbor/internal/entropy"
	"github.com/talgya/hexharbor/internal/game"
	"github.com/talgya/hexharbor/internal/persistence"
)

type stubAdvisor struct{}

func (stubAdvisor) Advise(context.Context, game.State) string { return "Buy a card." }

type stubStore struct {
	matches []persistence.Match
	logs    map[string][]string
	err     error
	limit   int
}

func (s *stubStore) RecentMatches(_ context.Context, limit int) ([]persistence.Match, error) {
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.matches[:min(limit, len(s.matches))], nil
}

func (s *stubStore) MatchLog(_ context.Context, id string) ([]string, error) {
	return s.logs[id], s.err
}

func newServer(t *testing.T, adminKey string, db MatchStore) (*Server, *httptest.Server) {
	t.Helper()
	m := game.NewMachine(entropy.NewSeeded(1))
	tbl := engine.NewTable(m, ai.NewController(entropy.NewSeeded(2)),
		engine.WithAIDelay(time.Hour),
		engine.WithAdvisor(stubAdvisor{}),
	)
	t.Cleanup(tbl.Close)

	s := &Server{
		Table:         tbl,
		DB:            db,
		AdminKey:      adminKey,
		TargetPoints:  m.TargetPoints(),
		AdviceLimiter: NewRateLimiter(2, time.Hour),
	}
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func do(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type stateBody struct {
	Phase          game.Phase         `json:"gamePhase"`
	Players        []game.Player      `json:"players"`
	Log            []string           `json:"log"`
	MatchID        string             `json:"matchId"`
	ActingPlayerID int                `json:"actingPlayerId"`
	TargetPoints   int                `json:"targetPoints"`
	Scores         map[int]game.Score `json:"scores"`
}

func decodeState(t *testing.T, resp *http.Response) stateBody {
	t.Helper()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var st stateBody
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return st
}

func TestGetState(t *testing.T) {
	_, srv := newServer(t, "", nil)
	st := decodeState(t, do(t, http.MethodGet, srv.URL+"/api/v1/state", "", ""))

	if st.Phase != game.PhaseGameStart || len(st.Players) != 2 {
		t.Errorf("unexpected state %+v", st)
	}
	if st.ActingPlayerID != 1 || st.TargetPoints != 10 || st.MatchID == "" {
		t.Errorf("missing derived fields: %+v", st)
	}
	if len(st.Scores) != 2 || st.Scores[1].Total != 0 {
		t.Errorf("unexpected scores %+v", st.Scores)
	}
}

func TestPostAction(t *testing.T) {
	_, srv := newServer(t, "", nil)

	tests := []struct {
		name   string
		body   string
		status int
		phase  game.Phase
	}{
		{"start", `{"type":"START_GAME"}`, http.StatusOK, game.PhaseSetupRound1},
		{"rejected rule still 200", `{"type":"START_GAME"}`, http.StatusOK, game.PhaseSetupRound1},
		{"unknown type", `{"type":"FLY"}`, http.StatusBadRequest, ""},
		{"malformed", `{"type":`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/api/v1/action", "", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			if tt.status == http.StatusOK {
				if st := decodeState(t, resp); st.Phase != tt.phase {
					t.Errorf("expected %s, got %s", tt.phase, st.Phase)
				}
			}
		})
	}
}

func TestAdminKey(t *testing.T) {
	_, srv := newServer(t, "sekrit", nil)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "guess", http.StatusUnauthorized},
		{"right", "sekrit", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/api/v1/action", tt.token, `{"type":"ADD_PLAYER"}`)
			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}

	if resp := do(t, http.MethodGet, srv.URL+"/api/v1/state", "", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("state should stay public, got %d", resp.StatusCode)
	}
}

func TestReset(t *testing.T) {
	s, srv := newServer(t, "", nil)
	s.Table.Dispatch(game.StartGame{})
	before := s.Table.MatchID()

	st := decodeState(t, do(t, http.MethodPost, srv.URL+"/api/v1/reset", "", ""))
	if st.Phase != game.PhaseGameStart || st.MatchID == before {
		t.Errorf("reset did not deal a new match: %s %s", st.Phase, st.MatchID)
	}
}

func TestAdviceRateLimit(t *testing.T) {
	s, srv := newServer(t, "", nil)

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/advice", "", "")
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	deadline := time.Now().Add(5 * time.Second)
	for s.Table.State().Thinking && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := s.Table.State().Advice; got != "Buy a card." {
		t.Errorf("unexpected advice %q", got)
	}

	do(t, http.MethodPost, srv.URL+"/api/v1/advice", "", "")
	resp = do(t, http.MethodPost, srv.URL+"/api/v1/advice", "", "")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestMatches(t *testing.T) {
	finished := time.Now().Add(-time.Hour)
	store := &stubStore{
		matches: []persistence.Match{
			{ID: "a", WinnerName: "Red", FinishedAt: finished},
			{ID: "b", WinnerName: "Blue", FinishedAt: finished},
		},
		logs: map[string][]string{"a": {"Red wins!"}},
	}
	_, srv := newServer(t, "", store)

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/matches?limit=1", "", "")
	var got []struct {
		ID       string `json:"id"`
		Finished string `json:"finished"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if store.limit != 1 || len(got) != 1 || got[0].ID != "a" || got[0].Finished != "1 hour ago" {
		t.Errorf("unexpected matches %+v (limit %d)", got, store.limit)
	}

	do(t, http.MethodGet, srv.URL+"/api/v1/matches?limit=9999", "", "")
	if store.limit != 20 {
		t.Errorf("out-of-range limit should fall back to 20, got %d", store.limit)
	}

	if resp := do(t, http.MethodGet, srv.URL+"/api/v1/matches/a/log", "", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for a known log, got %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, srv.URL+"/api/v1/matches/zzz/log", "", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown log, got %d", resp.StatusCode)
	}

	store.err = errors.New("disk on fire")
	if resp := do(t, http.MethodGet, srv.URL+"/api/v1/matches", "", ""); resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
}

func TestMatchesWithoutArchive(t *testing.T) {
	_, srv := newServer(t, "", nil)
	resp := do(t, http.MethodGet, srv.URL+"/api/v1/matches", "", "")
	var got []any
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil || len(got) != 0 {
		t.Errorf("expected an empty list, got %v (%v)", got, err)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, srv := newServer(t, "", nil)
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/action", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("missing allow-origin header")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote, xff, want string
	}{
		{"10.0.0.1:5555", "", "10.0.0.1"},
		{"[::1]:80", "", "::1"},
		{"10.0.0.1:5555", "203.0.113.9, 10.0.0.1", "203.0.113.9"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tt.remote
		if tt.xff != "" {
			r.Header.Set("X-Forwarded-For", tt.xff)
		}
		if got := clientIP(r); got != tt.want {
			t.Errorf("%s / %q: expected %s, got %s", tt.remote, tt.xff, tt.want, got)
		}
	}
}
