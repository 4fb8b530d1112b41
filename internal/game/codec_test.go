package game

import (
	"encoding/json"
	"testing"

	"github.com/talgya/hexharbor/internal/board"
)

func TestActionCodec(t *testing.T) {
	tests := []struct {
		name   string
		action Action
	}{
		{"roll", RollDice{Dice: [2]int{3, 5}}},
		{"road", BuildRoad{EdgeID: "edge_a_b"}},
		{"trade", TradeBank{Give: board.Sheep, Receive: board.Ore}},
		{"yop", ResolveYearOfPlenty{Resources: [2]board.Resource{board.Wheat, board.Ore}}},
		{"play", PlayDevCard{Card: Monopoly}},
		{"end", EndTurn{}},
		{"thinking", SetThinking{Thinking: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalAction(tt.action)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			got, err := UnmarshalAction(data)
			if err != nil {
				t.Fatalf("unmarshal %s: %v", data, err)
			}
			if got != tt.action {
				t.Errorf("expected %#v, got %#v", tt.action, got)
			}
		})
	}
}

func TestUnmarshalClientActions(t *testing.T) {
	tests := []struct {
		body string
		want Action
	}{
		{`{"type":"BUILD_SETTLEMENT","nodeId":"node_0_-600"}`, BuildSettlement{NodeID: "node_0_-600"}},
		{`{"type":"TRADE_BANK","resourceGiven":"Wood","resourceReceived":"Brick"}`, TradeBank{Give: board.Wood, Receive: board.Brick}},
		{`{"type":"STEAL_RESOURCE","targetPlayerId":2}`, StealResource{TargetPlayerID: 2}},
		{`{"type":"START_GAME"}`, StartGame{}},
	}
	for _, tt := range tests {
		got, err := UnmarshalAction([]byte(tt.body))
		if err != nil {
			t.Errorf("%s: %v", tt.body, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: expected %#v, got %#v", tt.body, tt.want, got)
		}
	}
}

func TestUnmarshalActionErrors(t *testing.T) {
	for _, body := range []string{
		`{"type":"FLY_AWAY"}`,
		`{"type":"TRADE_BANK","resourceGiven":"Gold","resourceReceived":"Ore"}`,
		`not json`,
	} {
		if _, err := UnmarshalAction([]byte(body)); err == nil {
			t.Errorf("expected an error for %s", body)
		}
	}
}

func TestMarshalActionCarriesType(t *testing.T) {
	data, err := MarshalAction(MoveRobber{HexID: "hex_0_0"})
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatal(err)
	}
	if fields["type"] != "MOVE_ROBBER" || fields["hexId"] != "hex_0_0" {
		t.Errorf("unexpected encoding %s", data)
	}
}
