package game

import (
	"fmt"

	"github.com/talgya/hexharbor/internal/board"
	"github.com/talgya/hexharbor/internal/rules"
)

func (m *Machine) buildSettlement(s State, a BuildSettlement) State {
	ni := s.Board.NodeIndex(a.NodeID)
	if ni < 0 {
		return s
	}
	p, ok := s.CurrentPlayer()
	if !ok {
		return s
	}
	node := s.Board.Nodes[ni]
	cost := rules.Costs[rules.ItemSettlement]

	switch {
	case s.Phase.Setup():
		if s.SetupStep != StepSettlement {
			return reject(s, "Place a road first.")
		}
	case s.Phase == PhasePlaying:
	default:
		return reject(s, "You can't build a settlement right now.")
	}

	if node.Owned() {
		return reject(s, "That spot is already taken.")
	}
	if !s.Board.SatisfiesDistance(node.ID) {
		return reject(s, "Too close to another building.")
	}
	if p.SettlementsLeft <= 0 {
		return reject(s, fmt.Sprintf("%s has no settlements left.", p.Name))
	}

	if s.Phase == PhasePlaying {
		if !rules.CanAfford(p.Resources, cost) {
			return reject(s, "Not enough resources to build a settlement.")
		}
		if !s.Board.HasRoadTo(node.ID, p.ID) {
			return reject(s, "A settlement must connect to one of your roads.")
		}
		p.Resources = rules.PayCost(p.Resources, cost)
	} else {
		s.SetupStep = StepRoad
	}

	setupRound2 := s.Phase == PhaseSetupRound2
	p.VP += SettlementPoints
	p.SettlementsLeft--
	s = s.withPlayer(s.Current, p)

	node.Owner, node.Building = p.ID, board.Settlement
	s.Board = s.Board.WithNode(ni, node)

	s, won := m.checkWin(s, s.Current, "built a settlement")
	if !won {
		s.Sound = SoundBuild
		s = s.addLog(fmt.Sprintf("%s built a settlement.", p.Name))
	}

	if setupRound2 {
		if owner, gain := rules.InitialProduction(s.Board, node.ID); owner == p.ID {
			p = s.Players[s.Current]
			for _, r := range board.Productive {
				p.Resources = p.Resources.Add(r, gain.Get(r))
			}
			s = s.withPlayer(s.Current, p)
			s = s.addLog(fmt.Sprintf("%s collected starting resources.", p.Name))
		}
	}
	return s
}

func (m *Machine) buildCity(s State, a BuildCity) State {
	if s.Phase != PhasePlaying {
		return reject(s, "You can't build a city right now.")
	}
	ni := s.Board.NodeIndex(a.NodeID)
	if ni < 0 {
		return s
	}
	p, ok := s.CurrentPlayer()
	if !ok {
		return s
	}
	node := s.Board.Nodes[ni]
	cost := rules.Costs[rules.ItemCity]

	if node.Owner != p.ID || node.Building != board.Settlement {
		return reject(s, "Only your own settlements can become cities.")
	}
	if p.CitiesLeft <= 0 {
		return reject(s, fmt.Sprintf("%s has no cities left.", p.Name))
	}
	if !rules.CanAfford(p.Resources, cost) {
		return reject(s, "Not enough resources to build a city.")
	}

	p.Resources = rules.PayCost(p.Resources, cost)
	p.VP += CityPoints - SettlementPoints
	p.SettlementsLeft++
	p.CitiesLeft--
	s = s.withPlayer(s.Current, p)

	node.Building = board.City
	s.Board = s.Board.WithNode(ni, node)

	s, won := m.checkWin(s, s.Current, "built a city")
	if won {
		return s
	}
	s.Sound = SoundBuild
	return s.addLog(fmt.Sprintf("%s upgraded to a city.", p.Name))
}

func (m *Machine) buildRoad(s State, a BuildRoad) State {
	ei := s.Board.EdgeIndex(a.EdgeID)
	if ei < 0 {
		return s
	}
	p, ok := s.CurrentPlayer()
	if !ok {
		return s
	}
	edge := s.Board.Edges[ei]
	cost := rules.Costs[rules.ItemRoad]

	switch {
	case s.Phase.Setup():
		if s.SetupStep != StepRoad {
			return reject(s, "Place a settlement first.")
		}
	case s.Phase == PhasePlaying:
	default:
		return reject(s, "You can't build a road right now.")
	}

	if edge.Owner != board.Unowned {
		return reject(s, "That road is already built.")
	}
	if p.RoadsLeft <= 0 {
		return reject(s, fmt.Sprintf("%s has no roads left.", p.Name))
	}
	if !s.Board.RoadConnects(edge.ID, p.ID) {
		return reject(s, "A road must connect to your buildings or roads.")
	}

	if s.Phase == PhasePlaying {
		if !rules.CanAfford(p.Resources, cost) {
			return reject(s, "Not enough resources to build a road.")
		}
		p.Resources = rules.PayCost(p.Resources, cost)
	}
	p.RoadsLeft--
	s = s.withPlayer(s.Current, p)

	edge.Owner = p.ID
	s.Board = s.Board.WithEdge(ei, edge)
	s.Sound = SoundBuild
	s = s.addLog(fmt.Sprintf("%s built a road.", p.Name))

	if s.Phase.Setup() {
		s = advanceSetup(s)
	}
	return s
}

// advanceSetup moves to the next placement turn after a setup road: forward
// through round 1, backward through round 2, then into normal play.
func advanceSetup(s State) State {
	s.SetupStep = StepSettlement
	switch s.Phase {
	case PhaseSetupRound1:
		if s.Current < len(s.Players)-1 {
			s.Current++
			return s
		}
		s.Phase = PhaseSetupRound2
		return s.addLog("Round one complete. Round two runs in reverse order.")
	case PhaseSetupRound2:
		if s.Current > 0 {
			s.Current--
			return s
		}
		s.Phase = PhasePlaying
		s.SetupStep = StepNone
		return s.addLog("Setup complete. Let the game begin!")
	}
	return s
}
