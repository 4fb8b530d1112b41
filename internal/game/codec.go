package game

import (
	"encoding/json"
	"fmt"
)

var actionTypes = map[ActionType]func() Action{
	TypeNewGame:         func() Action { return &NewGame{} },
	TypeStartGame:       func() Action { return &StartGame{} },
	TypeToggleAI:        func() Action { return &ToggleAI{} },
	TypeAddPlayer:       func() Action { return &AddPlayer{} },
	TypeRemovePlayer:    func() Action { return &RemovePlayer{} },
	TypeRollDice:        func() Action { return &RollDice{} },
	TypeBuildSettlement: func() Action { return &BuildSettlement{} },
	TypeBuildCity:       func() Action { return &BuildCity{} },
	TypeBuildRoad:       func() Action { return &BuildRoad{} },
	TypeBuyDevCard:      func() Action { return &BuyDevCard{} },
	TypePlayDevCard:     func() Action { return &PlayDevCard{} },
	TypeResolveMonopoly: func() Action { return &ResolveMonopoly{} },
	TypeResolveYOP:      func() Action { return &ResolveYearOfPlenty{} },
	TypeEndTurn:         func() Action { return &EndTurn{} },
	TypeTradeBank:       func() Action { return &TradeBank{} },
	TypeDiscard:         func() Action { return &DiscardResource{} },
	TypeMoveRobber:      func() Action { return &MoveRobber{} },
	TypeSteal:           func() Action { return &StealResource{} },
	TypeSetAdvice:       func() Action { return &SetAdvice{} },
	TypeClearAdvice:     func() Action { return &ClearAdvice{} },
	TypeSetThinking:     func() Action { return &SetThinking{} },
	TypeClearSound:      func() Action { return &ClearSound{} },
}

// MarshalAction encodes a as a flat JSON object tagged with "type".
func MarshalAction(a Action) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", a.Type(), err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("marshal %s: %w", a.Type(), err)
	}
	tag, _ := json.Marshal(a.Type())
	fields["type"] = tag
	return json.Marshal(fields)
}

// UnmarshalAction decodes a tagged action produced by MarshalAction or by a
// client using the same vocabulary.
func UnmarshalAction(data []byte) (Action, error) {
	var head struct {
		Type ActionType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	newAction, ok := actionTypes[head.Type]
	if !ok {
		return nil, fmt.Errorf("unknown action type %q", head.Type)
	}
	ptr := newAction()
	if err := json.Unmarshal(data, ptr); err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	return deref(ptr), nil
}

// deref turns the decoding target back into the value form Apply matches on.
func deref(a Action) Action {
	switch a := a.(type) {
	case *NewGame:
		return *a
	case *StartGame:
		return *a
	case *ToggleAI:
		return *a
	case *AddPlayer:
		return *a
	case *RemovePlayer:
		return *a
	case *RollDice:
		return *a
	case *BuildSettlement:
		return *a
	case *BuildCity:
		return *a
	case *BuildRoad:
		return *a
	case *BuyDevCard:
		return *a
	case *PlayDevCard:
		return *a
	case *ResolveMonopoly:
		return *a
	case *ResolveYearOfPlenty:
		return *a
	case *EndTurn:
		return *a
	case *TradeBank:
		return *a
	case *DiscardResource:
		return *a
	case *MoveRobber:
		return *a
	case *StealResource:
		return *a
	case *SetAdvice:
		return *a
	case *ClearAdvice:
		return *a
	case *SetThinking:
		return *a
	case *ClearSound:
		return *a
	}
	return a
}
