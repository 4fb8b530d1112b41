package game

import (
	"fmt"
	"slices"
)

func (m *Machine) startGame(s State) State {
	if s.Phase != PhaseGameStart {
		return reject(s, "The game has already started.")
	}
	if len(s.Players) < MinPlayers {
		return reject(s, fmt.Sprintf("At least %d players are needed to start.", MinPlayers))
	}
	s.Phase = PhaseSetupRound1
	s.SetupStep = StepSettlement
	s.Current = 0
	s.Sound = SoundStart
	return s.addLog("The game begins! Setup: place settlements in seat order.")
}

func (m *Machine) toggleAI(s State, a ToggleAI) State {
	i := s.PlayerIndex(a.PlayerID)
	if i < 0 {
		return s
	}
	p := s.Players[i]
	p.IsAI = !p.IsAI
	s = s.withPlayer(i, p)
	s.Sound = SoundClick
	if p.IsAI {
		return s.addLog(fmt.Sprintf("%s is now played by the computer.", p.Name))
	}
	return s.addLog(fmt.Sprintf("%s is now played by hand.", p.Name))
}

func (m *Machine) addPlayer(s State) State {
	if len(s.Players) >= MaxPlayers {
		return reject(s, fmt.Sprintf("The table seats at most %d players.", MaxPlayers))
	}

	color := Orange
	for _, c := range Colors {
		if !slices.ContainsFunc(s.Players, func(p Player) bool { return p.Color == c }) {
			color = c
			break
		}
	}
	id := 0
	for _, p := range s.Players {
		id = max(id, p.ID)
	}
	id++

	p := newPlayer(id, fmt.Sprintf("Computer %d", id), color, true)
	s.Players = append(slices.Clip(s.Players), p)
	s.Sound = SoundClick
	return s.addLog(fmt.Sprintf("%s joined the table.", p.Name))
}

func (m *Machine) removePlayer(s State, a RemovePlayer) State {
	if len(s.Players) <= MinPlayers {
		return reject(s, fmt.Sprintf("At least %d players must remain.", MinPlayers))
	}
	i := s.PlayerIndex(a.PlayerID)
	if i < 0 {
		return s
	}
	gone := s.Players[i]

	s.Players = slices.Delete(slices.Clone(s.Players), i, i+1)
	s.Board = s.Board.WithoutOwner(gone.ID)
	if s.Current >= len(s.Players) {
		s.Current = 0
	}
	s.Sound = SoundClick
	s = s.addLog(fmt.Sprintf("%s left the table.", gone.Name))
	return settleRobber(s)
}

// settleRobber moves past a robber phase that nobody left at the table can
// complete.
func settleRobber(s State) State {
	switch s.Phase {
	case PhaseRobberDiscard:
		if !slices.ContainsFunc(s.Players, func(p Player) bool { return p.ToDiscard > 0 }) {
			s.Phase = PhaseRobberMove
			return s.addLog("Nobody left owes a discard. Move the robber.")
		}
	case PhaseRobberSteal:
		p, ok := s.CurrentPlayer()
		if !ok || len(s.Board.OwnersOn(s.RobberHexID, p.ID)) == 0 {
			s.Phase = PhasePlaying
			return s.addLog("Nobody left to steal from.")
		}
	}
	return s
}
