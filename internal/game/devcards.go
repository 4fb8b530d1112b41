package game

import (
	"fmt"
	"slices"

	"github.com/talgya/hexharbor/internal/board"
	"github.com/talgya/hexharbor/internal/rules"
)

func (m *Machine) buyDevCard(s State) State {
	if s.Phase != PhasePlaying {
		return reject(s, "You can't buy a development card right now.")
	}
	p, ok := s.CurrentPlayer()
	if !ok {
		return s
	}
	if len(s.Deck) == 0 {
		return reject(s, "The development deck is empty.")
	}
	cost := rules.Costs[rules.ItemDevCard]
	if !rules.CanAfford(p.Resources, cost) {
		return reject(s, "Not enough resources to buy a development card.")
	}

	card := s.Deck[0]
	s.Deck = slices.Clone(s.Deck[1:])
	p.Resources = rules.PayCost(p.Resources, cost)

	if card == VictoryPoint {
		p.DevCards = append(slices.Clip(p.DevCards), card)
		p.VP++
	} else {
		p.NewDevCards = append(slices.Clip(p.NewDevCards), card)
	}
	s = s.withPlayer(s.Current, p)

	if card == VictoryPoint {
		var won bool
		if s, won = m.checkWin(s, s.Current, "drew a victory point"); won {
			return s
		}
	}
	s.Sound = SoundBuild
	return s.addLog(fmt.Sprintf("%s bought a development card.", p.Name))
}

func (m *Machine) playDevCard(s State, a PlayDevCard) State {
	if s.Phase != PhasePlaying {
		return reject(s, "You can't play a development card right now.")
	}
	p, ok := s.CurrentPlayer()
	if !ok {
		return s
	}
	cards, ok := removeCard(p.DevCards, a.Card)
	if !ok {
		return s
	}
	p.DevCards = cards
	s = s.addLog(fmt.Sprintf("%s played %s.", p.Name, a.Card.Label()))

	switch a.Card {
	case Knight:
		s.Phase = PhaseRobberMove
		s.Sound = SoundRobber
		s = s.addLog("The knight rides! Move the robber.")
	case VictoryPoint:
		// Counted when drawn.
	case RoadBuilding:
		p.Resources = p.Resources.Add(board.Wood, 2).Add(board.Brick, 2)
		s.Sound = SoundCoin
		s = s.addLog("Received 2 wood and 2 brick for road building.")
	case Monopoly:
		s.Phase = PhaseDevMonopoly
		s.Sound = SoundPlayCard
	case YearOfPlenty:
		s.Phase = PhaseDevYOP
		s.Sound = SoundPlayCard
	}
	return s.withPlayer(s.Current, p)
}

func (m *Machine) resolveMonopoly(s State, a ResolveMonopoly) State {
	if s.Phase != PhaseDevMonopoly {
		return reject(s, "No monopoly is being played.")
	}
	if !a.Resource.Valid() {
		return reject(s, fmt.Sprintf("Cannot claim a monopoly on %s.", a.Resource))
	}
	if _, ok := s.CurrentPlayer(); !ok {
		return s
	}

	players := slices.Clone(s.Players)
	taken := 0
	for i := range players {
		if i == s.Current {
			continue
		}
		n := players[i].Resources.Get(a.Resource)
		taken += n
		players[i].Resources = players[i].Resources.Add(a.Resource, -n)
	}
	players[s.Current].Resources = players[s.Current].Resources.Add(a.Resource, taken)

	s.Players = players
	s.Phase = PhasePlaying
	s.Sound = SoundSteal
	return s.addLog(fmt.Sprintf("Monopoly! Collected %d %s.", taken, a.Resource))
}

func (m *Machine) resolveYearOfPlenty(s State, a ResolveYearOfPlenty) State {
	if s.Phase != PhaseDevYOP {
		return reject(s, "No year of plenty is being played.")
	}
	for _, r := range a.Resources {
		if !r.Valid() {
			return reject(s, fmt.Sprintf("Cannot take %s from the bank.", r))
		}
	}
	p, ok := s.CurrentPlayer()
	if !ok {
		return s
	}

	for _, r := range a.Resources {
		p.Resources = p.Resources.Add(r, 1)
	}
	s = s.withPlayer(s.Current, p)
	s.Phase = PhasePlaying
	s.Sound = SoundCoin
	return s.addLog(fmt.Sprintf("Year of plenty! Took %s and %s.", a.Resources[0], a.Resources[1]))
}
