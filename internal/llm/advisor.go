package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talgya/hexharbor/internal/board"
	"github.com/talgya/hexharbor/internal/game"
	"github.com/talgya/hexharbor/internal/rules"
)

// Fixed replies when no model answer is available.
const (
	FallbackUnconfigured = "Set AI_API_KEY to enable the strategy advisor."
	FallbackFailed       = "The island spirits are silent right now. (advisor error)"
)

const adviceMaxTokens = 150

const adviceSystem = `You are an expert player of hex-tile settlement board games.
Give the current player one short strategy tip of at most 2 sentences.
Focus on what to build or trade next given their resources. Be witty but practical.`

// Advisor produces free-text strategy commentary. It never touches game state.
type Advisor struct {
	client *Client
}

// NewAdvisor wraps client, which may be nil.
func NewAdvisor(client *Client) *Advisor {
	return &Advisor{client: client}
}

// Summary is the reduced state shown to the model.
type Summary struct {
	Player        string                `json:"player"`
	Resources     rules.Hand            `json:"resources"`
	VictoryPoints int                   `json:"victoryPoints"`
	DevCards      int                   `json:"usableDevCards"`
	LastRoll      int                   `json:"lastRoll"`
	Phase         game.Phase            `json:"phase"`
	Board         string                `json:"board"`
	Costs         map[string]rules.Hand `json:"buildingCosts"`
}

// Summarize reduces s to what the advisor needs about the current player.
func Summarize(s game.State) Summary {
	p, _ := s.CurrentPlayer()
	costs := make(map[string]rules.Hand, len(rules.Costs))
	for item, cost := range rules.Costs {
		var h rules.Hand
		for r, n := range cost {
			h = h.Add(r, n)
		}
		costs[string(item)] = h
	}
	return Summary{
		Player:        p.Name,
		Resources:     p.Resources,
		VictoryPoints: p.VP,
		DevCards:      len(p.DevCards),
		LastRoll:      s.Dice[0] + s.Dice[1],
		Phase:         s.Phase,
		Board:         fmt.Sprintf("standard layout, %d hexes", len(s.Board.Hexes)),
		Costs:         costs,
	}
}

// Advise returns a tip for the current player, or a fallback string.
func (a *Advisor) Advise(ctx context.Context, s game.State) string {
	if a == nil || !a.client.Enabled() {
		return FallbackUnconfigured
	}

	prompt, err := buildAdvicePrompt(Summarize(s))
	if err != nil {
		slog.Warn("advisor prompt", "error", err)
		return FallbackFailed
	}

	text, err := a.client.Complete(ctx, adviceSystem, prompt, adviceMaxTokens)
	if err != nil {
		slog.Warn("advisor request failed", "error", err)
		return FallbackFailed
	}
	return text
}

func buildAdvicePrompt(sum Summary) (string, error) {
	raw, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}

	var b strings.Builder
	b.WriteString("Current game state:\n")
	b.Write(raw)
	b.WriteString("\n\n")
	if held := sum.Resources.Held(); len(held) == 0 {
		b.WriteString("The player holds no resources.\n")
	} else {
		names := make([]string, len(held))
		for i, r := range held {
			names[i] = r.String()
		}
		fmt.Fprintf(&b, "The player holds %s.\n", strings.Join(names, ", "))
	}
	if sum.Resources.Get(board.Wheat) >= 2 && sum.Resources.Get(board.Ore) >= 3 {
		b.WriteString("A city is affordable.\n")
	}
	b.WriteString("Reply with the tip only.")
	return b.String(), nil
}
