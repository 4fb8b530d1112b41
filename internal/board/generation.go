// Board generation: deals tiles and tokens onto the fixed layout, then derives
// nodes, edges and harbors from the hex geometry.
package board

import (
	"fmt"
	"math"
	"slices"

	"github.com/talgya/hexharbor/internal/entropy"
)

// HexSize is the corner radius used for node and edge geometry.
const HexSize = 60.0

const (
	edgeTolerance = 1.0  // |distance - side| for two nodes to form an edge
	portTolerance = 10.0 // anchor-to-edge-midpoint distance for a harbor
)

// Expected counts for a standard board.
const (
	HexCount  = 19
	NodeCount = 54
	EdgeCount = 72
	PortCount = 9
)

// portAnchor pins a harbor to one side of a border tile.
type portAnchor struct {
	coord  HexCoord
	dir    int
	harbor Harbor
}

// portAnchors are the nine fixed harbors: four generic, five specific.
var portAnchors = []portAnchor{
	{HexCoord{Q: 0, R: -2}, 4, GenericHarbor},
	{HexCoord{Q: 2, R: -2}, 5, HarborFor(Sheep)},
	{HexCoord{Q: 2, R: -1}, 0, GenericHarbor},
	{HexCoord{Q: 2, R: 0}, 0, GenericHarbor},
	{HexCoord{Q: 1, R: 1}, 1, HarborFor(Brick)},
	{HexCoord{Q: 0, R: 2}, 1, HarborFor(Wood)},
	{HexCoord{Q: -2, R: 2}, 2, GenericHarbor},
	{HexCoord{Q: -2, R: 1}, 3, HarborFor(Wheat)},
	{HexCoord{Q: -1, R: -1}, 4, HarborFor(Ore)},
}

// Generate builds a fresh board. Tiles and tokens are shuffled independently;
// the shape, node/edge graph and harbor sites are always the same.
func Generate(rng entropy.Source) Board {
	hexes := dealHexes(rng)
	nodes := deriveNodes(hexes)
	edges := deriveEdges(nodes)
	ports := placePorts(hexes, nodes, edges)
	return Board{Hexes: hexes, Nodes: nodes, Edges: edges, Ports: ports}
}

func dealHexes(rng entropy.Source) []Hex {
	tiles := slices.Clone(TileSet)
	rng.Shuffle(len(tiles), func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] })

	tokens := slices.Clone(TokenSet)
	rng.Shuffle(len(tokens), func(i, j int) { tokens[i], tokens[j] = tokens[j], tokens[i] })

	hexes := make([]Hex, 0, len(Layout))
	next := 0
	for i, coord := range Layout {
		h := Hex{ID: coord.ID(), Coord: coord, Resource: tiles[i]}
		if h.Resource != Desert {
			h.Token = tokens[next]
			next++
		}
		hexes = append(hexes, h)
	}
	return hexes
}

// deriveNodes coalesces shared corners, keyed by coordinates rounded to 0.1.
func deriveNodes(hexes []Hex) []Node {
	type key struct{ x, y int }
	index := make(map[key]int)
	var nodes []Node

	for _, h := range hexes {
		for i := 0; i < 6; i++ {
			x, y := h.Coord.Corner(HexSize, i)
			k := key{int(math.Round(x * 10)), int(math.Round(y * 10))}
			idx, ok := index[k]
			if !ok {
				idx = len(nodes)
				index[k] = idx
				nodes = append(nodes, Node{
					ID: fmt.Sprintf("node_%d_%d", k.x, k.y),
					X:  float64(k.x) / 10,
					Y:  float64(k.y) / 10,
				})
			}
			nodes[idx].HexIDs = append(nodes[idx].HexIDs, h.ID)
		}
	}
	return nodes
}

// deriveEdges pairs every two nodes exactly one side length apart.
func deriveEdges(nodes []Node) []Edge {
	var edges []Edge
	seen := make(map[string]bool)
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			if math.Abs(math.Hypot(a.X-b.X, a.Y-b.Y)-HexSize) >= edgeTolerance {
				continue
			}
			if b.ID < a.ID {
				a, b = b, a
			}
			id := "edge_" + a.ID + "_" + b.ID
			if seen[id] {
				continue
			}
			seen[id] = true
			edges = append(edges, Edge{
				ID:    id,
				Node1: a.ID,
				Node2: b.ID,
				X1:    a.X,
				Y1:    a.Y,
				X2:    b.X,
				Y2:    b.Y,
			})
		}
	}
	return edges
}

// placePorts resolves each anchor to the nearest edge and tags both endpoints.
// A specific tag is never downgraded to generic. Anchors with no edge in
// tolerance are dropped; tests assert the full count.
func placePorts(hexes []Hex, nodes []Node, edges []Edge) []Port {
	var ports []Port
	for idx, a := range portAnchors {
		if !slices.ContainsFunc(hexes, func(h Hex) bool { return h.Coord == a.coord }) {
			continue
		}
		ax, ay := a.coord.SideMidpoint(HexSize, a.dir)

		best := -1
		bestDist := portTolerance
		for i, e := range edges {
			d := math.Hypot((e.X1+e.X2)/2-ax, (e.Y1+e.Y2)/2-ay)
			if d < bestDist {
				best, bestDist = i, d
			}
		}
		if best < 0 {
			continue
		}

		e := edges[best]
		ports = append(ports, Port{
			ID:     fmt.Sprintf("port_%d", idx),
			Node1:  e.Node1,
			Node2:  e.Node2,
			Harbor: a.harbor,
			X:      ax,
			Y:      ay,
			Angle:  float64(a.dir * 60),
		})
		for i := range nodes {
			if e.Has(nodes[i].ID) {
				tagHarbor(&nodes[i], a.harbor)
			}
		}
	}
	return ports
}

// tagHarbor sets a node's harbor unless that would replace a specific tag
// with a generic one.
func tagHarbor(n *Node, h Harbor) {
	if _, specific := n.Harbor.Resource(); specific && h == GenericHarbor {
		return
	}
	n.Harbor = h
}

// ResourceCounts returns a summary of tile distribution.
func ResourceCounts(b Board) map[Resource]int {
	counts := make(map[Resource]int)
	for _, h := range b.Hexes {
		counts[h.Resource]++
	}
	return counts
}
