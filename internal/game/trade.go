package game

import (
	"fmt"

	"github.com/talgya/hexharbor/internal/rules"
)

// Ratios returns a player's bank trade ratios on the current board.
func (s State) Ratios(playerID int) rules.Ratios {
	return rules.TradeRatios(playerID, s.Board.Nodes)
}

func (m *Machine) tradeBank(s State, a TradeBank) State {
	if !a.Give.Valid() || !a.Receive.Valid() {
		return reject(s, "The desert cannot be traded.")
	}
	if a.Give == a.Receive {
		return reject(s, "Pick two different resources to trade.")
	}
	p, ok := s.CurrentPlayer()
	if !ok {
		return s
	}

	ratio := s.Ratios(p.ID).For(a.Give)
	if p.Resources.Get(a.Give) < ratio {
		return reject(s, fmt.Sprintf("Trade failed: %d %s needed.", ratio, a.Give))
	}

	p.Resources = p.Resources.Add(a.Give, -ratio).Add(a.Receive, 1)
	s = s.withPlayer(s.Current, p)
	s.Sound = SoundTrade
	return s.addLog(fmt.Sprintf("Traded %d %s for 1 %s.", ratio, a.Give, a.Receive))
}
