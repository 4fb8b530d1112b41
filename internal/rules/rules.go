// Package rules provides resource holdings, build costs, production and
// bank trade ratios.
package rules

import (
	"encoding/json"

	"github.com/talgya/hexharbor/internal/board"
)

// Hand holds a player's resource counts, indexed by board.Resource.
// Desert is never held.
type Hand [board.NumResources]int

// Get returns the count for r; Desert always reads 0.
func (h Hand) Get(r board.Resource) int {
	if !r.Valid() {
		return 0
	}
	return h[r]
}

// Add returns h with n units of r added. Desert is ignored.
func (h Hand) Add(r board.Resource, n int) Hand {
	if r.Valid() {
		h[r] += n
	}
	return h
}

// Total returns the sum of all holdings.
func (h Hand) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// Held lists the resources with a positive count, in canonical order.
func (h Hand) Held() []board.Resource {
	var out []board.Resource
	for _, r := range board.Productive {
		if h[r] > 0 {
			out = append(out, r)
		}
	}
	return out
}

// MarshalJSON encodes the hand as a resource-name map.
func (h Hand) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, board.NumResources)
	for _, r := range board.Productive {
		m[r.String()] = h[r]
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a resource-name map; unknown names are an error.
func (h *Hand) UnmarshalJSON(b []byte) error {
	var m map[board.Resource]int
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*h = Hand{}
	for r, n := range m {
		*h = h.Add(r, n)
	}
	return nil
}

// Cost is a partial resource requirement. Unnamed resources require 0.
type Cost map[board.Resource]int

// Purchasable items.
type Item string

const (
	ItemRoad       Item = "Road"
	ItemSettlement Item = "Settlement"
	ItemCity       Item = "City"
	ItemDevCard    Item = "DevCard"
)

// Costs is the build cost table.
var Costs = map[Item]Cost{
	ItemRoad:       {board.Wood: 1, board.Brick: 1},
	ItemSettlement: {board.Wood: 1, board.Brick: 1, board.Wheat: 1, board.Sheep: 1},
	ItemCity:       {board.Wheat: 2, board.Ore: 3},
	ItemDevCard:    {board.Sheep: 1, board.Wheat: 1, board.Ore: 1},
}

// CanAfford reports whether h covers every resource named in c.
func CanAfford(h Hand, c Cost) bool {
	for r, n := range c {
		if h.Get(r) < n {
			return false
		}
	}
	return true
}

// PayCost deducts c from h. It does not check affordability: callers must
// call CanAfford first or the hand goes negative.
func PayCost(h Hand, c Cost) Hand {
	for r, n := range c {
		h = h.Add(r, -n)
	}
	return h
}

// Production returns what each owner earns from a dice roll: one unit per
// settlement and two per city on every unblocked hex showing sum. A 7 and
// the desert produce nothing.
func Production(b board.Board, robberHexID string, sum int) map[int]Hand {
	gains := make(map[int]Hand)
	if sum == 7 {
		return gains
	}
	for _, h := range b.Hexes {
		if h.Token != sum || h.ID == robberHexID || h.Resource == board.Desert {
			continue
		}
		for _, n := range b.Nodes {
			if !n.Owned() || !n.Touches(h.ID) {
				continue
			}
			amount := 1
			if n.Building == board.City {
				amount = 2
			}
			gains[n.Owner] = gains[n.Owner].Add(h.Resource, amount)
		}
	}
	return gains
}

// Producing reports whether any unblocked hex shows sum.
func Producing(b board.Board, robberHexID string, sum int) bool {
	for _, h := range b.Hexes {
		if h.Token == sum && h.ID != robberHexID && h.Resource != board.Desert {
			return true
		}
	}
	return false
}

// InitialProduction returns the owner of nodeID and one unit of each
// non-desert resource around it. Owner is board.Unowned if the node is
// missing or empty.
func InitialProduction(b board.Board, nodeID string) (int, Hand) {
	n, ok := b.Node(nodeID)
	if !ok || !n.Owned() {
		return board.Unowned, Hand{}
	}
	var gain Hand
	for _, hexID := range n.HexIDs {
		if h, ok := b.Hex(hexID); ok {
			gain = gain.Add(h.Resource, 1)
		}
	}
	return n.Owner, gain
}

// Bank trade ratios.
const (
	BaseRatio     = 4
	GenericRatio  = 3
	SpecificRatio = 2
)

// Ratios holds the give-count for one unit from the bank, per resource.
type Ratios [board.NumResources]int

// For returns the ratio for r. Desert is untradeable and reports 0.
func (r Ratios) For(res board.Resource) int {
	if !res.Valid() {
		return 0
	}
	return r[res]
}

// TradeRatios computes player's ratios from the harbors on their nodes.
// Generic harbors lower every ratio to 3; a specific harbor lowers its
// resource to 2 regardless of order.
func TradeRatios(player int, nodes []board.Node) Ratios {
	var ratios Ratios
	for i := range ratios {
		ratios[i] = BaseRatio
	}

	generic := false
	var specific []board.Resource
	for _, n := range nodes {
		if n.Owner != player || player == board.Unowned {
			continue
		}
		if n.Harbor == board.GenericHarbor {
			generic = true
		} else if r, ok := n.Harbor.Resource(); ok {
			specific = append(specific, r)
		}
	}

	if generic {
		for i := range ratios {
			ratios[i] = GenericRatio
		}
	}
	for _, r := range specific {
		ratios[r] = SpecificRatio
	}
	return ratios
}
