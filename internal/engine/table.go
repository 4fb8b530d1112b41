// Package engine drives a match: it owns the authoritative state, serialises
// every action through the reducer, and schedules computer turns.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/hexharbor/internal/ai"
	"github.com/talgya/hexharbor/internal/audio"
	"github.com/talgya/hexharbor/internal/game"
	"github.com/talgya/hexharbor/internal/persistence"
)

const (
	DefaultAIDelay = 1500 * time.Millisecond
	maxAIRejects   = 3
	archiveTimeout = 5 * time.Second
)

// Advisor produces strategy text for a snapshot.
type Advisor interface {
	Advise(ctx context.Context, s game.State) string
}

// Archive records finished matches.
type Archive interface {
	SaveMatch(ctx context.Context, m persistence.Match, log []string) error
}

// Table holds one live match.
type Table struct {
	machine *game.Machine
	ctrl    *ai.Controller
	advisor Advisor
	sound   audio.Player
	archive Archive
	delay   time.Duration

	mu        sync.Mutex
	state     game.State
	matchID   string
	startedAt time.Time
	turns     int
	archived  bool

	timer     *time.Timer
	gen       uint64 // bumped whenever the state moves; stale timer callbacks compare against it
	rejects   int
	stalled   bool
	adviceSeq uint64
	closed    bool
	wg        sync.WaitGroup

	ctx    context.Context // canceled by Close
	cancel context.CancelFunc
}

// Option configures a Table.
type Option func(*Table)

func WithAdvisor(a Advisor) Option { return func(t *Table) { t.advisor = a } }

func WithAudio(p audio.Player) Option { return func(t *Table) { t.sound = p } }

func WithArchive(a Archive) Option { return func(t *Table) { t.archive = a } }

// WithAIDelay sets the pause before each computer move.
func WithAIDelay(d time.Duration) Option { return func(t *Table) { t.delay = d } }

// NewTable deals a new game and starts scheduling computer turns.
func NewTable(m *game.Machine, ctrl *ai.Controller, opts ...Option) *Table {
	t := &Table{
		machine: m,
		ctrl:    ctrl,
		sound:   audio.Nop{},
		delay:   DefaultAIDelay,
	}
	t.ctx, t.cancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(t)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked(m.NewGame())
	t.scheduleLocked()
	return t
}

// Snapshot is a state paired with the match it belongs to.
type Snapshot struct {
	MatchID string
	State   game.State
}

// State returns the current state.
func (t *Table) State() game.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// MatchID identifies the current match in the archive.
func (t *Table) MatchID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.matchID
}

// Snapshot returns the state and its match ID as one read.
func (t *Table) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{MatchID: t.matchID, State: t.state}
}

// Dispatch applies a player action and returns the resulting state.
func (t *Table) Dispatch(a game.Action) game.State {
	return t.Submit(a).State
}

// Submit applies a player action and returns the resulting state together
// with the match it landed in.
func (t *Table) Submit(a game.Action) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.applyLocked(a)
	t.rejects = 0
	t.stalled = false
	t.scheduleLocked()
	return Snapshot{MatchID: t.matchID, State: t.state}
}

// Reset deals a fresh match.
func (t *Table) Reset() game.State {
	return t.Dispatch(game.NewGame{})
}

// Step runs one computer decision immediately. It reports whether an action
// was applied.
func (t *Table) Step() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	ok := t.stepLocked()
	t.scheduleLocked()
	return ok
}

// RunUntilOver steps computer players back to back until the match ends, the
// AI has nothing to do, or ctx is done. A table still on the board preview is
// started first. Meant for all-AI tables.
func (t *Table) RunUntilOver(ctx context.Context) (game.State, error) {
	t.mu.Lock()
	if t.state.Phase == game.PhaseGameStart {
		t.applyLocked(game.StartGame{})
	}
	t.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return t.State(), err
		}
		t.mu.Lock()
		t.stopTimerLocked()
		over := t.state.Phase == game.PhaseGameOver
		progressed := !over && t.stepLocked()
		s := t.state
		if over || !progressed {
			t.scheduleLocked()
		}
		t.mu.Unlock()
		if over || !progressed {
			return s, nil
		}
	}
}

// RequestAdvice asks the advisor about the current player in the background.
// It returns false when a request is already pending or no advisor is set.
// The call outlives ctx's cancellation but not Close.
func (t *Table) RequestAdvice(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.advisor == nil || t.closed || t.state.Thinking {
		return false
	}
	t.applyLocked(game.SetThinking{Thinking: true})
	t.adviceSeq++
	seq, match, turn, snap := t.adviceSeq, t.matchID, t.turns, t.state

	actx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(t.ctx, cancel)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer stop()
		defer cancel()
		text := t.advisor.Advise(actx, snap)

		t.mu.Lock()
		defer t.mu.Unlock()
		if t.closed || seq != t.adviceSeq {
			return
		}
		if match == t.matchID && turn == t.turns {
			t.applyLocked(game.SetAdvice{Advice: text})
		} else {
			slog.Debug("dropping advice for a finished turn", "match", match)
		}
		t.applyLocked(game.SetThinking{Thinking: false})
	}()
	return true
}

// Close stops the AI timer, cancels pending advice and waits for background
// work to finish.
func (t *Table) Close() {
	t.mu.Lock()
	t.closed = true
	t.stopTimerLocked()
	t.mu.Unlock()
	t.cancel()
	t.wg.Wait()
}

func (t *Table) resetLocked(s game.State) {
	t.state = s
	t.matchID = uuid.NewString()
	t.startedAt = time.Now()
	t.turns = 0
	t.archived = false
	t.rejects = 0
	t.stalled = false
	t.adviceSeq++
	slog.Info("new match", "match", t.matchID, "hexes", len(s.Board.Hexes))
}

// applyLocked runs a through the reducer, hands any sound cue to the audio
// player and clears it. It reports whether the reducer rejected a.
func (t *Table) applyLocked(a game.Action) bool {
	if _, ok := a.(game.NewGame); ok {
		t.resetLocked(t.machine.Apply(t.state, a))
		t.playLocked()
		return false
	}

	prev := t.state
	next := t.machine.Apply(prev, a)
	rejected := next.Sound == game.SoundError
	if rejected {
		slog.Debug("action rejected", "action", a.Type(), "reason", next.Log[len(next.Log)-1])
	}
	if a.Type() == game.TypeEndTurn && !rejected {
		t.turns++
		slog.Debug("turn ended", "turn", humanize.Ordinal(t.turns), "next", next.Players[next.Current].Name)
	}
	t.state = next
	t.playLocked()

	if t.state.Phase == game.PhaseGameOver && prev.Phase != game.PhaseGameOver {
		t.archiveLocked()
	}
	return rejected
}

func (t *Table) playLocked() {
	if t.state.Sound == game.SoundNone {
		return
	}
	t.sound.Play(t.state.Sound)
	t.state = t.machine.Apply(t.state, game.ClearSound{})
}

func (t *Table) archiveLocked() {
	if t.archived {
		return
	}
	t.archived = true

	winner, ok := t.state.Winner(t.machine.TargetPoints())
	if !ok {
		return
	}
	players := make([]string, len(t.state.Players))
	for i, p := range t.state.Players {
		players[i] = p.Name
	}
	m := persistence.Match{
		ID:           t.matchID,
		StartedAt:    t.startedAt,
		FinishedAt:   time.Now(),
		WinnerID:     winner.ID,
		WinnerName:   winner.Name,
		Players:      players,
		Turns:        t.turns,
		TargetPoints: t.machine.TargetPoints(),
	}
	slog.Info("match over",
		"match", m.ID,
		"winner", m.WinnerName,
		"turns", m.Turns,
		"duration", strings.TrimSpace(humanize.RelTime(m.StartedAt, m.FinishedAt, "", "")),
	)
	if t.archive == nil {
		return
	}

	log := t.state.Log
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := t.archive.SaveMatch(ctx, m, log); err != nil {
			slog.Error("archive match", "match", m.ID, "error", err)
		}
	}()
}

// stepLocked asks the controller for the acting AI player's move. An AI with
// nothing to do in normal play after rolling ends its turn.
func (t *Table) stepLocked() bool {
	if t.stalled {
		return false
	}
	a := t.ctrl.Decide(t.state)
	if a == nil {
		if t.state.Phase != game.PhasePlaying || !t.state.Rolled() {
			return false
		}
		if p, ok := t.state.CurrentPlayer(); !ok || !p.IsAI {
			return false
		}
		a = game.EndTurn{}
	}

	if !t.applyLocked(a) {
		t.rejects = 0
		return true
	}

	t.rejects++
	if t.rejects < maxAIRejects {
		return true
	}
	t.rejects = 0
	if t.state.Phase == game.PhasePlaying && t.state.Rolled() && !t.applyLocked(game.EndTurn{}) {
		slog.Warn("computer player stuck, ending its turn", "phase", t.state.Phase)
		return true
	}
	slog.Warn("computer player stuck, waiting for input", "phase", t.state.Phase)
	t.stalled = true
	return false
}

func (t *Table) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

// scheduleLocked arms the AI timer when a computer player must act next.
func (t *Table) scheduleLocked() {
	t.stopTimerLocked()
	if t.closed || t.stalled || t.state.Phase == game.PhaseGameOver || t.state.Phase == game.PhaseGameStart {
		return
	}
	p, ok := t.state.ActingPlayer()
	if !ok || !p.IsAI {
		return
	}

	gen := t.gen
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if gen != t.gen || t.closed {
			return
		}
		t.timer = nil
		t.stepLocked()
		t.scheduleLocked()
	})
}
