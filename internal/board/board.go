package board

import (
	"fmt"
	"slices"
)

// Unowned marks a node or edge with no owner. Player IDs start at 1.
const Unowned = 0

// Building is what stands on a node.
type Building uint8

const (
	NoBuilding Building = iota
	Settlement
	City
)

var buildingNames = [...]string{"", "Settlement", "City"}

func (b Building) String() string {
	if int(b) < len(buildingNames) {
		return buildingNames[b]
	}
	return "Unknown"
}

func (b Building) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Building) UnmarshalText(text []byte) error {
	for i, name := range buildingNames {
		if name == string(text) {
			*b = Building(i)
			return nil
		}
	}
	return fmt.Errorf("unknown building %q", string(text))
}

// Harbor is a node's port tag: none, generic 3:1, or a specific resource at 2:1.
type Harbor string

const (
	NoHarbor      Harbor = ""
	GenericHarbor Harbor = "3:1"
)

// HarborFor returns the specific-resource tag for r.
func HarborFor(r Resource) Harbor {
	return Harbor(r.String())
}

// Resource returns the resource a specific harbor trades, if any.
func (h Harbor) Resource() (Resource, bool) {
	if h == NoHarbor || h == GenericHarbor {
		return 0, false
	}
	r, ok := ParseResource(string(h))
	if !ok || !r.Valid() {
		return 0, false
	}
	return r, true
}

// Node is a hex vertex: the only place settlements and cities stand.
type Node struct {
	ID       string   `json:"id"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	HexIDs   []string `json:"hexIds"`
	Owner    int      `json:"owner"`
	Building Building `json:"building"`
	Harbor   Harbor   `json:"harbor,omitempty"`
}

// Owned reports whether a player has built here.
func (n Node) Owned() bool {
	return n.Owner != Unowned
}

// Touches reports whether the node borders the given hex.
func (n Node) Touches(hexID string) bool {
	return slices.Contains(n.HexIDs, hexID)
}

// Edge is a hex side between two nodes: the only place roads go.
type Edge struct {
	ID    string  `json:"id"`
	Node1 string  `json:"node1"`
	Node2 string  `json:"node2"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Owner int     `json:"owner"`
}

// Has reports whether nodeID is one of the edge's endpoints.
func (e Edge) Has(nodeID string) bool {
	return e.Node1 == nodeID || e.Node2 == nodeID
}

// Other returns the endpoint opposite nodeID.
func (e Edge) Other(nodeID string) string {
	if e.Node1 == nodeID {
		return e.Node2
	}
	return e.Node1
}

// SharesNode reports whether two edges meet at a node.
func (e Edge) SharesNode(o Edge) bool {
	return e.Has(o.Node1) || e.Has(o.Node2)
}

// Port is a harbor straddling two border nodes. Read-only after generation.
type Port struct {
	ID     string  `json:"id"`
	Node1  string  `json:"node1"`
	Node2  string  `json:"node2"`
	Harbor Harbor  `json:"harbor"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Angle  float64 `json:"angle"`
}

// Board aggregates the spatial graph. Hexes and ports never change after
// generation; nodes and edges change only through the copy-on-write
// helpers below, so older snapshots keep their own slices.
type Board struct {
	Hexes []Hex  `json:"hexes"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Ports []Port `json:"ports"`
}

// HexIndex returns the index of a hex by ID, or -1.
func (b Board) HexIndex(id string) int {
	return slices.IndexFunc(b.Hexes, func(h Hex) bool { return h.ID == id })
}

// NodeIndex returns the index of a node by ID, or -1.
func (b Board) NodeIndex(id string) int {
	return slices.IndexFunc(b.Nodes, func(n Node) bool { return n.ID == id })
}

// EdgeIndex returns the index of an edge by ID, or -1.
func (b Board) EdgeIndex(id string) int {
	return slices.IndexFunc(b.Edges, func(e Edge) bool { return e.ID == id })
}

// Hex returns the hex with the given ID.
func (b Board) Hex(id string) (Hex, bool) {
	if i := b.HexIndex(id); i >= 0 {
		return b.Hexes[i], true
	}
	return Hex{}, false
}

// Node returns the node with the given ID.
func (b Board) Node(id string) (Node, bool) {
	if i := b.NodeIndex(id); i >= 0 {
		return b.Nodes[i], true
	}
	return Node{}, false
}

// Desert returns the desert hex ID, or "" on an empty board.
func (b Board) Desert() string {
	for _, h := range b.Hexes {
		if h.Resource == Desert {
			return h.ID
		}
	}
	return ""
}

// Neighbors returns the IDs of nodes one edge away from nodeID.
func (b Board) Neighbors(nodeID string) []string {
	var out []string
	for _, e := range b.Edges {
		if e.Has(nodeID) {
			out = append(out, e.Other(nodeID))
		}
	}
	return out
}

// SatisfiesDistance reports whether nodeID is empty and no neighbor is built on.
func (b Board) SatisfiesDistance(nodeID string) bool {
	n, ok := b.Node(nodeID)
	if !ok || n.Owned() {
		return false
	}
	for _, nid := range b.Neighbors(nodeID) {
		if nb, ok := b.Node(nid); ok && nb.Owned() {
			return false
		}
	}
	return true
}

// HasRoadTo reports whether player owns a road ending at nodeID.
func (b Board) HasRoadTo(nodeID string, player int) bool {
	for _, e := range b.Edges {
		if e.Owner == player && e.Has(nodeID) {
			return true
		}
	}
	return false
}

// RoadConnects reports whether an edge touches one of player's buildings or
// one of player's other roads.
func (b Board) RoadConnects(edgeID string, player int) bool {
	i := b.EdgeIndex(edgeID)
	if i < 0 {
		return false
	}
	edge := b.Edges[i]
	for _, nid := range []string{edge.Node1, edge.Node2} {
		if n, ok := b.Node(nid); ok && n.Owner == player {
			return true
		}
	}
	for _, e := range b.Edges {
		if e.ID != edge.ID && e.Owner == player && e.SharesNode(edge) {
			return true
		}
	}
	return false
}

// OwnersOn returns the distinct owners of nodes touching hexID, in node order,
// skipping exclude.
func (b Board) OwnersOn(hexID string, exclude int) []int {
	var out []int
	for _, n := range b.Nodes {
		if !n.Owned() || n.Owner == exclude || !n.Touches(hexID) {
			continue
		}
		if !slices.Contains(out, n.Owner) {
			out = append(out, n.Owner)
		}
	}
	return out
}

// OwnedNodes returns the nodes player has built on.
func (b Board) OwnedNodes(player int) []Node {
	var out []Node
	for _, n := range b.Nodes {
		if n.Owner == player {
			out = append(out, n)
		}
	}
	return out
}

// WithNode returns a board whose node slice is a fresh copy with index i replaced.
func (b Board) WithNode(i int, n Node) Board {
	nodes := slices.Clone(b.Nodes)
	nodes[i] = n
	b.Nodes = nodes
	return b
}

// WithEdge returns a board whose edge slice is a fresh copy with index i replaced.
func (b Board) WithEdge(i int, e Edge) Board {
	edges := slices.Clone(b.Edges)
	edges[i] = e
	b.Edges = edges
	return b
}

// WithoutOwner clears every node and edge owned by player.
func (b Board) WithoutOwner(player int) Board {
	nodes := slices.Clone(b.Nodes)
	for i := range nodes {
		if nodes[i].Owner == player {
			nodes[i].Owner = Unowned
			nodes[i].Building = NoBuilding
		}
	}
	edges := slices.Clone(b.Edges)
	for i := range edges {
		if edges[i].Owner == player {
			edges[i].Owner = Unowned
		}
	}
	b.Nodes = nodes
	b.Edges = edges
	return b
}
