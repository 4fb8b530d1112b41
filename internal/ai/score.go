package ai

import "github.com/talgya/hexharbor/internal/board"

// pips weights each number token by how often two dice roll it.
var pips = map[int]int{2: 1, 3: 2, 4: 3, 5: 4, 6: 5, 8: 5, 9: 4, 10: 3, 11: 2, 12: 1}

// Pips returns the weight of a number token. Deserts and 7 score 0.
func Pips(token int) int {
	return pips[token]
}

// NodeScore sums the pips of the producing hexes around a node.
func NodeScore(b board.Board, nodeID string) int {
	n, ok := b.Node(nodeID)
	if !ok {
		return 0
	}
	score := 0
	for _, id := range n.HexIDs {
		if h, ok := b.Hex(id); ok && h.Resource != board.Desert {
			score += Pips(h.Token)
		}
	}
	return score
}
