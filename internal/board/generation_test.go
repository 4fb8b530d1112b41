package board

import (
	"slices"
	"testing"

	"github.com/talgya/hexharbor/internal/entropy"
)

func TestGenerateCounts(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		b := Generate(entropy.NewSeeded(seed))

		if len(b.Hexes) != HexCount {
			t.Fatalf("seed %d: expected %d hexes, got %d", seed, HexCount, len(b.Hexes))
		}
		if len(b.Nodes) != NodeCount {
			t.Fatalf("seed %d: expected %d nodes, got %d", seed, NodeCount, len(b.Nodes))
		}
		if len(b.Edges) != EdgeCount {
			t.Fatalf("seed %d: expected %d edges, got %d", seed, EdgeCount, len(b.Edges))
		}
		if len(b.Ports) != PortCount {
			t.Fatalf("seed %d: expected %d ports, got %d", seed, PortCount, len(b.Ports))
		}
	}
}

func TestGenerateTilesAndTokens(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		b := Generate(entropy.NewSeeded(seed))

		deserts := 0
		var tokens []int
		for _, h := range b.Hexes {
			if h.Coord.Q+h.Coord.R+h.Coord.S() != 0 {
				t.Errorf("hex %s breaks q+r+s=0", h.ID)
			}
			if h.Resource == Desert {
				deserts++
				if h.Token != 0 {
					t.Errorf("desert %s carries token %d", h.ID, h.Token)
				}
				continue
			}
			if h.Token == 0 || h.Token == 7 {
				t.Errorf("hex %s has invalid token %d", h.ID, h.Token)
			}
			tokens = append(tokens, h.Token)
		}
		if deserts != 1 {
			t.Errorf("seed %d: expected 1 desert, got %d", seed, deserts)
		}

		slices.Sort(tokens)
		if !slices.Equal(tokens, TokenSet) {
			t.Errorf("seed %d: token multiset %v, want %v", seed, tokens, TokenSet)
		}

		counts := ResourceCounts(b)
		want := map[Resource]int{Wood: 4, Wheat: 4, Sheep: 4, Brick: 3, Ore: 3, Desert: 1}
		for r, n := range want {
			if counts[r] != n {
				t.Errorf("seed %d: %s count %d, want %d", seed, r, counts[r], n)
			}
		}
	}
}

func TestNodeHexMembership(t *testing.T) {
	b := Generate(entropy.NewSeeded(7))

	byCount := map[int]int{}
	for _, n := range b.Nodes {
		if len(n.HexIDs) < 1 || len(n.HexIDs) > 3 {
			t.Errorf("node %s touches %d hexes", n.ID, len(n.HexIDs))
		}
		byCount[len(n.HexIDs)]++
	}
	// 19-hex board: 24 interior vertices, 30 on the rim.
	if byCount[3] != 24 {
		t.Errorf("expected 24 three-hex nodes, got %d", byCount[3])
	}
	if byCount[1]+byCount[2] != 30 {
		t.Errorf("expected 30 rim nodes, got %d", byCount[1]+byCount[2])
	}
}

func TestEdgesUniqueAndCanonical(t *testing.T) {
	b := Generate(entropy.NewSeeded(3))

	seen := map[string]bool{}
	for _, e := range b.Edges {
		if seen[e.ID] {
			t.Fatalf("duplicate edge %s", e.ID)
		}
		seen[e.ID] = true
		if e.Node1 >= e.Node2 {
			t.Errorf("edge %s not canonicalised: %s >= %s", e.ID, e.Node1, e.Node2)
		}
		if _, ok := b.Node(e.Node1); !ok {
			t.Errorf("edge %s references missing node %s", e.ID, e.Node1)
		}
	}

	for _, n := range b.Nodes {
		deg := len(b.Neighbors(n.ID))
		if deg < 2 || deg > 3 {
			t.Errorf("node %s has degree %d", n.ID, deg)
		}
	}
}

func TestPortsTagNodes(t *testing.T) {
	b := Generate(entropy.NewSeeded(11))

	generic, specific := 0, 0
	for _, p := range b.Ports {
		if p.Harbor == GenericHarbor {
			generic++
		} else {
			specific++
		}
		for _, nid := range []string{p.Node1, p.Node2} {
			n, ok := b.Node(nid)
			if !ok {
				t.Fatalf("port %s references missing node %s", p.ID, nid)
			}
			if n.Harbor == NoHarbor {
				t.Errorf("node %s next to port %s is untagged", nid, p.ID)
			}
			if len(n.HexIDs) == 3 {
				t.Errorf("port %s sits on interior node %s", p.ID, nid)
			}
		}
	}
	if generic != 4 || specific != 5 {
		t.Errorf("expected 4 generic / 5 specific ports, got %d / %d", generic, specific)
	}
}

func TestSpecificHarborBeatsGeneric(t *testing.T) {
	tests := []struct {
		name  string
		start Harbor
		apply Harbor
		want  Harbor
	}{
		{"untagged takes generic", NoHarbor, GenericHarbor, GenericHarbor},
		{"untagged takes specific", NoHarbor, HarborFor(Ore), HarborFor(Ore)},
		{"specific survives generic", HarborFor(Ore), GenericHarbor, HarborFor(Ore)},
		{"specific replaces generic", GenericHarbor, HarborFor(Wood), HarborFor(Wood)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Node{ID: "n", Harbor: tt.start}
			tagHarbor(&n, tt.apply)
			if n.Harbor != tt.want {
				t.Errorf("expected %q, got %q", tt.want, n.Harbor)
			}
		})
	}
}

func TestDistanceRule(t *testing.T) {
	b := Generate(entropy.NewSeeded(5))
	target := b.Nodes[10]

	if !b.SatisfiesDistance(target.ID) {
		t.Fatal("empty board should accept any node")
	}

	neighbor := b.Neighbors(target.ID)[0]
	i := b.NodeIndex(neighbor)
	n := b.Nodes[i]
	n.Owner, n.Building = 1, Settlement
	built := b.WithNode(i, n)

	if built.SatisfiesDistance(target.ID) {
		t.Error("node next to a settlement must be rejected")
	}
	if built.SatisfiesDistance(neighbor) {
		t.Error("owned node must be rejected")
	}
	if b.Nodes[i].Owned() {
		t.Error("WithNode mutated the original board")
	}
}

func TestRoadConnects(t *testing.T) {
	b := Generate(entropy.NewSeeded(9))
	e := b.Edges[0]

	if b.RoadConnects(e.ID, 1) {
		t.Fatal("unconnected edge reported as connected")
	}

	i := b.NodeIndex(e.Node1)
	n := b.Nodes[i]
	n.Owner, n.Building = 1, Settlement
	b = b.WithNode(i, n)
	if !b.RoadConnects(e.ID, 1) {
		t.Error("edge touching own settlement should connect")
	}
	if b.RoadConnects(e.ID, 2) {
		t.Error("edge touching an opponent's settlement should not connect")
	}

	// Extend from the road: an edge sharing Node2 connects through the road.
	b = b.WithEdge(0, Edge{ID: e.ID, Node1: e.Node1, Node2: e.Node2, Owner: 1})
	for _, other := range b.Edges {
		if other.ID != e.ID && other.Has(e.Node2) {
			if !b.RoadConnects(other.ID, 1) {
				t.Errorf("edge %s adjacent to own road should connect", other.ID)
			}
		}
	}
}

func TestOwnersOn(t *testing.T) {
	b := Generate(entropy.NewSeeded(2))
	hexID := b.Hexes[9].ID

	var touching []int
	for i, n := range b.Nodes {
		if n.Touches(hexID) {
			touching = append(touching, i)
		}
	}
	if len(touching) != 6 {
		t.Fatalf("centre hex should have 6 corners, got %d", len(touching))
	}

	for k, owner := range []int{2, 3, 2} {
		n := b.Nodes[touching[k*2]]
		n.Owner, n.Building = owner, Settlement
		b = b.WithNode(touching[k*2], n)
	}

	got := b.OwnersOn(hexID, 3)
	if !slices.Equal(got, []int{2}) {
		t.Errorf("expected [2], got %v", got)
	}
	if len(b.OwnersOn(hexID, 0)) != 2 {
		t.Errorf("expected two distinct owners, got %v", b.OwnersOn(hexID, 0))
	}
}

func TestResourceText(t *testing.T) {
	for _, r := range []Resource{Wood, Brick, Sheep, Wheat, Ore, Desert} {
		text, _ := r.MarshalText()
		var back Resource
		if err := back.UnmarshalText(text); err != nil || back != r {
			t.Errorf("resource %v did not survive text encoding: %v", r, err)
		}
	}
	var r Resource
	if err := r.UnmarshalText([]byte("Gold")); err == nil {
		t.Error("expected error for unknown resource")
	}
}
