// Package game holds the match state and the reducer that advances it.
//
// State values are snapshots: every transition returns a new State and never
// writes through a slice still referenced by the previous one.
package game

import (
	"slices"

	"github.com/talgya/hexharbor/internal/board"
	"github.com/talgya/hexharbor/internal/rules"
)

// Phase is the top-level game phase.
type Phase string

const (
	PhaseGameStart     Phase = "GAME_START"
	PhaseSetupRound1   Phase = "SETUP_ROUND_1"
	PhaseSetupRound2   Phase = "SETUP_ROUND_2"
	PhasePlaying       Phase = "PLAYING"
	PhaseRobberDiscard Phase = "ROBBER_DISCARD"
	PhaseRobberMove    Phase = "ROBBER_MOVE"
	PhaseRobberSteal   Phase = "ROBBER_STEAL"
	PhaseDevMonopoly   Phase = "DEV_MONOPOLY"
	PhaseDevYOP        Phase = "DEV_YOP"
	PhaseGameOver      Phase = "GAME_OVER"
)

// Setup reports whether p is one of the two placement rounds.
func (p Phase) Setup() bool {
	return p == PhaseSetupRound1 || p == PhaseSetupRound2
}

// SetupStep alternates within a setup round.
type SetupStep string

const (
	StepNone       SetupStep = ""
	StepSettlement SetupStep = "SETTLEMENT"
	StepRoad       SetupStep = "ROAD"
)

// Sound is the one-shot outcome cue left for the audio layer.
type Sound string

const (
	SoundNone     Sound = ""
	SoundStart    Sound = "START"
	SoundDice     Sound = "DICE"
	SoundCoin     Sound = "COIN"
	SoundBuild    Sound = "BUILD"
	SoundRobber   Sound = "ROBBER"
	SoundSteal    Sound = "STEAL"
	SoundTrade    Sound = "TRADE"
	SoundEndTurn  Sound = "END_TURN"
	SoundPlayCard Sound = "PLAY_CARD"
	SoundError    Sound = "ERROR"
	SoundClick    Sound = "CLICK"
)

// Color identifies a seat.
type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	White  Color = "white"
	Orange Color = "orange"
)

// Colors is the seat order used when adding players.
var Colors = []Color{Red, Blue, White, Orange}

// Seating limits.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// Starting piece counts.
const (
	StartRoads       = 15
	StartSettlements = 5
	StartCities      = 4
)

// Player is one seat at the table. IDs start at 1; board.Unowned is 0.
type Player struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Color           Color      `json:"color"`
	IsAI            bool       `json:"isAI"`
	Resources       rules.Hand `json:"resources"`
	VP              int        `json:"vp"`
	DevCards        []DevCard  `json:"devCards"`
	NewDevCards     []DevCard  `json:"newDevCards"`
	RoadsLeft       int        `json:"roadsLeft"`
	SettlementsLeft int        `json:"settlementsLeft"`
	CitiesLeft      int        `json:"citiesLeft"`
	ToDiscard       int        `json:"toDiscard"`
}

func newPlayer(id int, name string, color Color, ai bool) Player {
	return Player{
		ID:              id,
		Name:            name,
		Color:           color,
		IsAI:            ai,
		DevCards:        []DevCard{},
		NewDevCards:     []DevCard{},
		RoadsLeft:       StartRoads,
		SettlementsLeft: StartSettlements,
		CitiesLeft:      StartCities,
	}
}

// HasCard reports whether c is in the usable hand.
func (p Player) HasCard(c DevCard) bool {
	return slices.Contains(p.DevCards, c)
}

// State is the whole match.
type State struct {
	Players     []Player    `json:"players"`
	Current     int         `json:"currentPlayerIndex"`
	Board       board.Board `json:"board"`
	Deck        []DevCard   `json:"devCardDeck"`
	RobberHexID string      `json:"robberHexId"`
	Dice        [2]int      `json:"dice"`
	Phase       Phase       `json:"gamePhase"`
	SetupStep   SetupStep   `json:"setupStep"`
	Log         []string    `json:"log"`
	Advice      string      `json:"aiAdvice"`
	Thinking    bool        `json:"isAiThinking"`
	Sound       Sound       `json:"soundEffect"`
}

// CurrentPlayer returns the player whose turn it is.
func (s State) CurrentPlayer() (Player, bool) {
	if s.Current < 0 || s.Current >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.Current], true
}

// ActingIndex returns the seat expected to act next: the first player owing a
// discard during ROBBER_DISCARD, otherwise the current player. -1 if nobody.
func (s State) ActingIndex() int {
	if s.Phase == PhaseRobberDiscard {
		return slices.IndexFunc(s.Players, func(p Player) bool { return p.ToDiscard > 0 })
	}
	if s.Current < 0 || s.Current >= len(s.Players) {
		return -1
	}
	return s.Current
}

// ActingPlayer returns the player at ActingIndex.
func (s State) ActingPlayer() (Player, bool) {
	i := s.ActingIndex()
	if i < 0 {
		return Player{}, false
	}
	return s.Players[i], true
}

// PlayerIndex returns the seat of the player with the given ID, or -1.
func (s State) PlayerIndex(id int) int {
	return slices.IndexFunc(s.Players, func(p Player) bool { return p.ID == id })
}

// Rolled reports whether dice have been rolled this turn.
func (s State) Rolled() bool {
	return s.Dice[0] > 0
}

// Winner returns the first player at or above target points.
func (s State) Winner(target int) (Player, bool) {
	for _, p := range s.Players {
		if p.VP >= target {
			return p, true
		}
	}
	return Player{}, false
}

// withPlayer returns s with seat i replaced on a fresh slice.
func (s State) withPlayer(i int, p Player) State {
	players := slices.Clone(s.Players)
	players[i] = p
	s.Players = players
	return s
}

func (s State) addLog(msgs ...string) State {
	s.Log = append(slices.Clip(s.Log), msgs...)
	return s
}
