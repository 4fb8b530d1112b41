package game

import (
	"fmt"

	"github.com/talgya/hexharbor/internal/board"
	"github.com/talgya/hexharbor/internal/entropy"
)

// DefaultTargetPoints ends the game.
const DefaultTargetPoints = 10

// Machine applies actions to states. It owns the randomness used for boards,
// decks and steals; everything else about a transition is determined by the
// state and the action.
type Machine struct {
	rng          entropy.Source
	targetPoints int
}

// Option configures a Machine.
type Option func(*Machine)

// WithTargetPoints sets the victory threshold.
func WithTargetPoints(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.targetPoints = n
		}
	}
}

// NewMachine creates a reducer drawing from rng.
func NewMachine(rng entropy.Source, opts ...Option) *Machine {
	m := &Machine{rng: rng, targetPoints: DefaultTargetPoints}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TargetPoints returns the victory threshold.
func (m *Machine) TargetPoints() int {
	return m.targetPoints
}

// NewGame deals a fresh board and deck with the default two-seat roster.
func (m *Machine) NewGame() State {
	b := board.Generate(m.rng)
	return State{
		Players: []Player{
			newPlayer(1, "Red", Red, false),
			newPlayer(2, "Blue", Blue, true),
		},
		Board:       b,
		Deck:        NewDeck(m.rng),
		RobberHexID: b.Desert(),
		Phase:       PhaseGameStart,
		SetupStep:   StepSettlement,
		Log:         []string{"Look over the board, then start the game."},
	}
}

// Apply returns the state that follows s under a. Illegal actions come back
// as s plus a log line and an error cue; unknown references come back as s.
func (m *Machine) Apply(s State, a Action) State {
	if a == nil {
		return s
	}
	if s.Phase == PhaseGameOver && !allowedAfterGameOver(a) {
		return reject(s, "The game is over. Start a new game to keep playing.")
	}

	switch a := a.(type) {
	case NewGame:
		return m.NewGame()
	case StartGame:
		return m.startGame(s)
	case ToggleAI:
		return m.toggleAI(s, a)
	case AddPlayer:
		return m.addPlayer(s)
	case RemovePlayer:
		return m.removePlayer(s, a)
	case RollDice:
		return m.rollDice(s, a)
	case DiscardResource:
		return m.discard(s, a)
	case MoveRobber:
		return m.moveRobber(s, a)
	case StealResource:
		return m.steal(s, a)
	case BuildSettlement:
		return m.buildSettlement(s, a)
	case BuildCity:
		return m.buildCity(s, a)
	case BuildRoad:
		return m.buildRoad(s, a)
	case BuyDevCard:
		return m.buyDevCard(s)
	case PlayDevCard:
		return m.playDevCard(s, a)
	case ResolveMonopoly:
		return m.resolveMonopoly(s, a)
	case ResolveYearOfPlenty:
		return m.resolveYearOfPlenty(s, a)
	case TradeBank:
		return m.tradeBank(s, a)
	case EndTurn:
		return m.endTurn(s)
	case SetAdvice:
		s.Advice = a.Advice
		return s
	case ClearAdvice:
		s.Advice = ""
		return s
	case SetThinking:
		s.Thinking = a.Thinking
		return s
	case ClearSound:
		s.Sound = SoundNone
		return s
	}
	return s
}

// reject logs reason and sets the error cue, leaving everything else as is.
func reject(s State, reason string) State {
	s = s.addLog(reason)
	s.Sound = SoundError
	return s
}

// checkWin ends the game if seat i has reached the target. It returns the
// state and whether the game ended; on a win the log line and cue are set.
func (m *Machine) checkWin(s State, i int, how string) (State, bool) {
	p := s.Players[i]
	if p.VP < m.targetPoints {
		return s, false
	}
	s.Phase = PhaseGameOver
	s.SetupStep = StepNone
	s.Sound = SoundStart
	s = s.addLog(fmt.Sprintf("%s %s and reached %d points. %s wins!", p.Name, how, p.VP, p.Name))
	return s, true
}
