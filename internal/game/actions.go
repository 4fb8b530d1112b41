package game

import "github.com/talgya/hexharbor/internal/board"

// ActionType is the wire tag of an action.
type ActionType string

const (
	TypeNewGame         ActionType = "INIT_GAME"
	TypeStartGame       ActionType = "START_GAME"
	TypeToggleAI        ActionType = "TOGGLE_PLAYER_AI"
	TypeAddPlayer       ActionType = "ADD_PLAYER"
	TypeRemovePlayer    ActionType = "REMOVE_PLAYER"
	TypeRollDice        ActionType = "ROLL_DICE"
	TypeBuildSettlement ActionType = "BUILD_SETTLEMENT"
	TypeBuildCity       ActionType = "BUILD_CITY"
	TypeBuildRoad       ActionType = "BUILD_ROAD"
	TypeBuyDevCard      ActionType = "BUY_DEV_CARD"
	TypePlayDevCard     ActionType = "PLAY_DEV_CARD"
	TypeResolveMonopoly ActionType = "RESOLVE_MONOPOLY"
	TypeResolveYOP      ActionType = "RESOLVE_YOP"
	TypeEndTurn         ActionType = "END_TURN"
	TypeTradeBank       ActionType = "TRADE_BANK"
	TypeDiscard         ActionType = "DISCARD_RESOURCE"
	TypeMoveRobber      ActionType = "MOVE_ROBBER"
	TypeSteal           ActionType = "STEAL_RESOURCE"
	TypeSetAdvice       ActionType = "SET_AI_ADVICE"
	TypeClearAdvice     ActionType = "CLEAR_AI_ADVICE"
	TypeSetThinking     ActionType = "SET_AI_THINKING"
	TypeClearSound      ActionType = "CLEAR_SOUND_EFFECT"
)

// Action is the closed set of inputs to Machine.Apply. Only types in this
// package implement it.
type Action interface {
	Type() ActionType
	action()
}

type (
	// NewGame discards the match and deals a fresh board and deck.
	NewGame struct{}
	// StartGame leaves the board preview and begins setup.
	StartGame struct{}
	// ToggleAI flips computer control for a player.
	ToggleAI struct {
		PlayerID int `json:"playerId"`
	}
	// AddPlayer seats a computer player in the next free colour.
	AddPlayer struct{}
	// RemovePlayer unseats a player and clears their pieces from the board.
	RemovePlayer struct {
		PlayerID int `json:"playerId"`
	}
	// RollDice records two die faces chosen by the caller.
	RollDice struct {
		Dice [2]int `json:"roll"`
	}
	BuildSettlement struct {
		NodeID string `json:"nodeId"`
	}
	BuildCity struct {
		NodeID string `json:"nodeId"`
	}
	BuildRoad struct {
		EdgeID string `json:"edgeId"`
	}
	BuyDevCard  struct{}
	PlayDevCard struct {
		Card DevCard `json:"cardType"`
	}
	ResolveMonopoly struct {
		Resource board.Resource `json:"resource"`
	}
	ResolveYearOfPlenty struct {
		Resources [2]board.Resource `json:"resources"`
	}
	EndTurn   struct{}
	TradeBank struct {
		Give    board.Resource `json:"resourceGiven"`
		Receive board.Resource `json:"resourceReceived"`
	}
	// DiscardResource drops one unit for whichever player owes a discard.
	DiscardResource struct {
		Resource board.Resource `json:"resource"`
	}
	MoveRobber struct {
		HexID string `json:"hexId"`
	}
	StealResource struct {
		TargetPlayerID int `json:"targetPlayerId"`
	}
	SetAdvice struct {
		Advice string `json:"advice"`
	}
	ClearAdvice struct{}
	SetThinking struct {
		Thinking bool `json:"isThinking"`
	}
	// ClearSound acknowledges the pending sound cue.
	ClearSound struct{}
)

func (NewGame) Type() ActionType             { return TypeNewGame }
func (StartGame) Type() ActionType           { return TypeStartGame }
func (ToggleAI) Type() ActionType            { return TypeToggleAI }
func (AddPlayer) Type() ActionType           { return TypeAddPlayer }
func (RemovePlayer) Type() ActionType        { return TypeRemovePlayer }
func (RollDice) Type() ActionType            { return TypeRollDice }
func (BuildSettlement) Type() ActionType     { return TypeBuildSettlement }
func (BuildCity) Type() ActionType           { return TypeBuildCity }
func (BuildRoad) Type() ActionType           { return TypeBuildRoad }
func (BuyDevCard) Type() ActionType          { return TypeBuyDevCard }
func (PlayDevCard) Type() ActionType         { return TypePlayDevCard }
func (ResolveMonopoly) Type() ActionType     { return TypeResolveMonopoly }
func (ResolveYearOfPlenty) Type() ActionType { return TypeResolveYOP }
func (EndTurn) Type() ActionType             { return TypeEndTurn }
func (TradeBank) Type() ActionType           { return TypeTradeBank }
func (DiscardResource) Type() ActionType     { return TypeDiscard }
func (MoveRobber) Type() ActionType          { return TypeMoveRobber }
func (StealResource) Type() ActionType       { return TypeSteal }
func (SetAdvice) Type() ActionType           { return TypeSetAdvice }
func (ClearAdvice) Type() ActionType         { return TypeClearAdvice }
func (SetThinking) Type() ActionType         { return TypeSetThinking }
func (ClearSound) Type() ActionType          { return TypeClearSound }

func (NewGame) action()             {}
func (StartGame) action()           {}
func (ToggleAI) action()            {}
func (AddPlayer) action()           {}
func (RemovePlayer) action()        {}
func (RollDice) action()            {}
func (BuildSettlement) action()     {}
func (BuildCity) action()           {}
func (BuildRoad) action()           {}
func (BuyDevCard) action()          {}
func (PlayDevCard) action()         {}
func (ResolveMonopoly) action()     {}
func (ResolveYearOfPlenty) action() {}
func (EndTurn) action()             {}
func (TradeBank) action()           {}
func (DiscardResource) action()     {}
func (MoveRobber) action()          {}
func (StealResource) action()       {}
func (SetAdvice) action()           {}
func (ClearAdvice) action()         {}
func (SetThinking) action()         {}
func (ClearSound) action()          {}

// allowedAfterGameOver reports whether a stays legal once the match ends: a
// reset, or an action that only touches the advisory, thinking or sound fields.
func allowedAfterGameOver(a Action) bool {
	switch a.(type) {
	case SetAdvice, ClearAdvice, SetThinking, ClearSound, NewGame:
		return true
	}
	return false
}
