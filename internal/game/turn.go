package game

import (
	"fmt"
	"slices"

	"github.com/talgya/hexharbor/internal/board"
	"github.com/talgya/hexharbor/internal/rules"
)

// DiscardLimit is the hand size above which a 7 forces a discard.
const DiscardLimit = 7

func (m *Machine) rollDice(s State, a RollDice) State {
	if s.Phase != PhasePlaying {
		return reject(s, "You can only roll during your turn.")
	}
	if s.Rolled() {
		return reject(s, "The dice have already been rolled this turn.")
	}
	for _, d := range a.Dice {
		if d < 1 || d > 6 {
			return reject(s, fmt.Sprintf("A die face must be 1-6, got %d.", d))
		}
	}
	p, ok := s.CurrentPlayer()
	if !ok {
		return s
	}

	sum := a.Dice[0] + a.Dice[1]
	s.Dice = a.Dice
	s = s.addLog(fmt.Sprintf("%s rolled %d (%d + %d).", p.Name, sum, a.Dice[0], a.Dice[1]))

	if sum == 7 {
		return robberRoll(s)
	}

	gains := rules.Production(s.Board, s.RobberHexID, sum)
	if len(gains) > 0 {
		players := slices.Clone(s.Players)
		for i := range players {
			g, ok := gains[players[i].ID]
			if !ok {
				continue
			}
			for _, r := range board.Productive {
				players[i].Resources = players[i].Resources.Add(r, g.Get(r))
			}
		}
		s.Players = players
	}
	if rules.Producing(s.Board, s.RobberHexID, sum) {
		s.Sound = SoundCoin
	} else {
		s.Sound = SoundDice
	}
	return s
}

// robberRoll sets discard debts and moves to the discard or robber phase.
func robberRoll(s State) State {
	players := slices.Clone(s.Players)
	owing := false
	for i := range players {
		total := players[i].Resources.Total()
		players[i].ToDiscard = 0
		if total > DiscardLimit {
			players[i].ToDiscard = total / 2
			owing = true
		}
	}
	s.Players = players
	s.Sound = SoundRobber
	if owing {
		s.Phase = PhaseRobberDiscard
		return s.addLog("The robber strikes! Players holding more than 7 cards must discard half.")
	}
	s.Phase = PhaseRobberMove
	return s.addLog("The robber strikes! Move the robber.")
}

func (m *Machine) discard(s State, a DiscardResource) State {
	if s.Phase != PhaseRobberDiscard {
		return reject(s, "Nobody needs to discard right now.")
	}
	i := s.ActingIndex()
	if i < 0 {
		return s
	}
	p := s.Players[i]
	if !a.Resource.Valid() || p.Resources.Get(a.Resource) <= 0 {
		return reject(s, fmt.Sprintf("%s has no %s to discard.", p.Name, a.Resource))
	}

	p.Resources = p.Resources.Add(a.Resource, -1)
	p.ToDiscard--
	s = s.withPlayer(i, p)
	s.Sound = SoundClick

	if !slices.ContainsFunc(s.Players, func(p Player) bool { return p.ToDiscard > 0 }) {
		s.Phase = PhaseRobberMove
		return s.addLog("Everyone has discarded. Move the robber.")
	}
	return s
}

func (m *Machine) moveRobber(s State, a MoveRobber) State {
	if s.Phase != PhaseRobberMove {
		return reject(s, "The robber can only move after a 7 or a knight.")
	}
	if _, ok := s.Board.Hex(a.HexID); !ok {
		return s
	}
	if a.HexID == s.RobberHexID {
		return reject(s, "The robber must move to a different hex.")
	}
	p, ok := s.CurrentPlayer()
	if !ok {
		return s
	}

	s.RobberHexID = a.HexID
	s.Sound = SoundBuild
	if len(s.Board.OwnersOn(a.HexID, p.ID)) > 0 {
		s.Phase = PhaseRobberSteal
		return s.addLog("Robber moved. Choose a player to steal from.")
	}
	s.Phase = PhasePlaying
	return s.addLog("Robber moved.")
}

func (m *Machine) steal(s State, a StealResource) State {
	if s.Phase != PhaseRobberSteal {
		return reject(s, "There is nothing to steal right now.")
	}
	ti := s.PlayerIndex(a.TargetPlayerID)
	if ti < 0 {
		return s
	}
	if ti == s.Current {
		return reject(s, "You cannot steal from yourself.")
	}
	target := s.Players[ti]
	if !slices.Contains(s.Board.OwnersOn(s.RobberHexID, board.Unowned), target.ID) {
		return reject(s, fmt.Sprintf("%s has no building next to the robber.", target.Name))
	}

	held := target.Resources.Held()
	if len(held) == 0 {
		s.Phase = PhasePlaying
		return s.addLog(fmt.Sprintf("%s has nothing to steal!", target.Name))
	}

	r := held[m.rng.Intn(len(held))]
	thief := s.Players[s.Current]
	target.Resources = target.Resources.Add(r, -1)
	thief.Resources = thief.Resources.Add(r, 1)

	s = s.withPlayer(ti, target)
	s = s.withPlayer(s.Current, thief)
	s.Phase = PhasePlaying
	s.Sound = SoundSteal
	return s.addLog(fmt.Sprintf("%s stole a %s from %s.", thief.Name, r, target.Name))
}

func (m *Machine) endTurn(s State) State {
	if s.Phase != PhasePlaying {
		return reject(s, "You can't end the turn right now.")
	}
	p, ok := s.CurrentPlayer()
	if !ok {
		return s
	}

	p.DevCards = append(slices.Clip(p.DevCards), p.NewDevCards...)
	p.NewDevCards = []DevCard{}
	s = s.withPlayer(s.Current, p)

	s.Current = (s.Current + 1) % len(s.Players)
	s.Dice = [2]int{}
	s.Advice = ""
	s.Sound = SoundEndTurn
	return s.addLog(fmt.Sprintf("Turn over. %s to play.", s.Players[s.Current].Name))
}
