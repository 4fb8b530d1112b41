// Rule-based opponent. Every step the controller looks at the state and
// proposes one action; the caller runs it through the same reducer as a
// human move, so nothing here has to be trusted.
package ai

import (
	"sort"

	"github.com/talgya/hexharbor/internal/board"
	"github.com/talgya/hexharbor/internal/entropy"
	"github.com/talgya/hexharbor/internal/game"
	"github.com/talgya/hexharbor/internal/rules"
)

const (
	setupShortlist = 3   // random pick among this many best setup spots
	buyDevChance   = 0.4 // chance to buy a card when affordable
	roadChance     = 0.5 // chance to build an affordable road
	woodSurplus    = 3   // more wood than this always builds the road
)

// Controller decides moves for computer players.
type Controller struct {
	rng entropy.Source
}

// NewController creates a controller drawing from rng.
func NewController(rng entropy.Source) *Controller {
	return &Controller{rng: rng}
}

// Decide returns the acting AI player's next action, or nil when there is
// nothing sensible to do (a human must act, or the phase needs no input).
func (c *Controller) Decide(s game.State) game.Action {
	p, ok := s.ActingPlayer()
	if !ok || !p.IsAI {
		return nil
	}

	switch s.Phase {
	case game.PhaseSetupRound1, game.PhaseSetupRound2:
		return c.decideSetup(s, p)
	case game.PhaseRobberDiscard:
		return c.decideDiscard(p)
	case game.PhaseRobberMove:
		return c.decideRobberMove(s)
	case game.PhaseRobberSteal:
		return c.decideSteal(s, p)
	case game.PhaseDevMonopoly:
		return game.ResolveMonopoly{Resource: pick(c.rng, board.Productive[:])}
	case game.PhaseDevYOP:
		return game.ResolveYearOfPlenty{Resources: [2]board.Resource{board.Wheat, board.Ore}}
	case game.PhasePlaying:
		return c.decidePlaying(s, p)
	}
	return nil
}

func (c *Controller) decideSetup(s game.State, p game.Player) game.Action {
	switch s.SetupStep {
	case game.StepSettlement:
		spots := RankNodes(s.Board, LegalSetupNodes(s.Board))
		if len(spots) == 0 {
			return nil
		}
		spots = spots[:min(setupShortlist, len(spots))]
		return game.BuildSettlement{NodeID: pick(c.rng, spots)}
	case game.StepRoad:
		edges := LegalRoads(s.Board, p.ID)
		if len(edges) == 0 {
			return nil
		}
		return game.BuildRoad{EdgeID: pick(c.rng, edges)}
	}
	return nil
}

func (c *Controller) decideDiscard(p game.Player) game.Action {
	if p.ToDiscard <= 0 {
		return nil
	}
	held := p.Resources.Held()
	if len(held) == 0 {
		return nil
	}
	return game.DiscardResource{Resource: pick(c.rng, held)}
}

func (c *Controller) decideRobberMove(s game.State) game.Action {
	var hexes []string
	for _, h := range s.Board.Hexes {
		if h.ID != s.RobberHexID {
			hexes = append(hexes, h.ID)
		}
	}
	if len(hexes) == 0 {
		return nil
	}
	return game.MoveRobber{HexID: pick(c.rng, hexes)}
}

func (c *Controller) decideSteal(s game.State, p game.Player) game.Action {
	victims := s.Board.OwnersOn(s.RobberHexID, p.ID)
	if len(victims) == 0 {
		// Rejected by the reducer; the driver's retry limit ends the loop.
		return game.MoveRobber{HexID: s.RobberHexID}
	}
	return game.StealResource{TargetPlayerID: pick(c.rng, victims)}
}

// decidePlaying walks the normal-turn priorities and returns the first
// action that applies.
func (c *Controller) decidePlaying(s game.State, p game.Player) game.Action {
	// Knight first when the robber sits on one of our hexes.
	if p.HasCard(game.Knight) && robberBlocks(s, p.ID) {
		return game.PlayDevCard{Card: game.Knight}
	}
	for _, card := range []game.DevCard{game.VictoryPoint, game.YearOfPlenty, game.Monopoly, game.RoadBuilding} {
		if p.HasCard(card) {
			return game.PlayDevCard{Card: card}
		}
	}

	if !s.Rolled() {
		return game.RollDice{Dice: [2]int{c.rng.Intn(6) + 1, c.rng.Intn(6) + 1}}
	}

	if p.CitiesLeft > 0 && rules.CanAfford(p.Resources, rules.Costs[rules.ItemCity]) {
		var settlements []string
		for _, n := range s.Board.OwnedNodes(p.ID) {
			if n.Building == board.Settlement {
				settlements = append(settlements, n.ID)
			}
		}
		if len(settlements) > 0 {
			return game.BuildCity{NodeID: pick(c.rng, settlements)}
		}
	}

	if p.SettlementsLeft > 0 && rules.CanAfford(p.Resources, rules.Costs[rules.ItemSettlement]) {
		if spots := RankNodes(s.Board, LegalSettlementNodes(s.Board, p.ID)); len(spots) > 0 {
			return game.BuildSettlement{NodeID: spots[0]}
		}
	}

	if len(s.Deck) > 0 && rules.CanAfford(p.Resources, rules.Costs[rules.ItemDevCard]) {
		if c.rng.Float64() < buyDevChance {
			return game.BuyDevCard{}
		}
	}

	if p.RoadsLeft > 0 && rules.CanAfford(p.Resources, rules.Costs[rules.ItemRoad]) {
		if edges := LegalRoads(s.Board, p.ID); len(edges) > 0 {
			choice := pick(c.rng, edges)
			if c.rng.Float64() > roadChance || p.Resources.Get(board.Wood) > woodSurplus {
				return game.BuildRoad{EdgeID: choice}
			}
		}
	}

	if trade, ok := surplusTrade(s, p); ok {
		return trade
	}

	return game.EndTurn{}
}

// surplusTrade swaps the first resource held at ratio+1 or more for the
// first resource not held at all.
func surplusTrade(s game.State, p game.Player) (game.TradeBank, bool) {
	ratios := s.Ratios(p.ID)
	for _, give := range board.Productive {
		if p.Resources.Get(give) < ratios.For(give)+1 {
			continue
		}
		for _, want := range board.Productive {
			if want != give && p.Resources.Get(want) == 0 {
				return game.TradeBank{Give: give, Receive: want}, true
			}
		}
	}
	return game.TradeBank{}, false
}

func robberBlocks(s game.State, playerID int) bool {
	for _, n := range s.Board.OwnedNodes(playerID) {
		if n.Touches(s.RobberHexID) {
			return true
		}
	}
	return false
}

// LegalSetupNodes lists nodes that pass the distance rule.
func LegalSetupNodes(b board.Board) []string {
	var out []string
	for _, n := range b.Nodes {
		if b.SatisfiesDistance(n.ID) {
			out = append(out, n.ID)
		}
	}
	return out
}

// LegalSettlementNodes lists nodes that pass the distance rule and touch one
// of the player's roads.
func LegalSettlementNodes(b board.Board, playerID int) []string {
	var out []string
	for _, n := range b.Nodes {
		if b.HasRoadTo(n.ID, playerID) && b.SatisfiesDistance(n.ID) {
			out = append(out, n.ID)
		}
	}
	return out
}

// LegalRoads lists free edges connected to the player's buildings or roads.
func LegalRoads(b board.Board, playerID int) []string {
	var out []string
	for _, e := range b.Edges {
		if e.Owner == board.Unowned && b.RoadConnects(e.ID, playerID) {
			out = append(out, e.ID)
		}
	}
	return out
}

// RankNodes orders node IDs by pip score, best first. Ties keep input order.
func RankNodes(b board.Board, nodeIDs []string) []string {
	scores := make(map[string]int, len(nodeIDs))
	for _, id := range nodeIDs {
		scores[id] = NodeScore(b, id)
	}
	ranked := append([]string(nil), nodeIDs...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	return ranked
}

func pick[T any](rng entropy.Source, items []T) T {
	return items[rng.Intn(len(items))]
}
