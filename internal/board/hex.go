// Package board provides the 19-hex playing field: tiles, settlement sites
// (nodes), road sites (edges) and harbors, plus the spatial queries the rules
// and the AI share. Uses axial coordinates (q, r) for the hex grid.
package board

import (
	"fmt"
	"math"
)

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// ID returns the stable tile identifier for this coordinate.
func (h HexCoord) ID() string {
	return fmt.Sprintf("hex_%d_%d", h.Q, h.R)
}

// Center projects the coordinate to pixel space (pointy-top layout).
func (h HexCoord) Center(size float64) (x, y float64) {
	x = size * math.Sqrt(3) * (float64(h.Q) + float64(h.R)/2)
	y = size * 1.5 * float64(h.R)
	return x, y
}

// Corner returns the i-th corner (0..5) of the hex, starting at 30 degrees.
func (h HexCoord) Corner(size float64, i int) (x, y float64) {
	cx, cy := h.Center(size)
	rad := math.Pi / 180 * float64(60*i+30)
	return cx + size*math.Cos(rad), cy + size*math.Sin(rad)
}

// SideMidpoint returns the midpoint of the side facing direction dir (0..5),
// where dir*60 degrees is the outward normal.
func (h HexCoord) SideMidpoint(size float64, dir int) (x, y float64) {
	cx, cy := h.Center(size)
	rad := math.Pi / 180 * float64(dir*60)
	apothem := size * math.Sqrt(3) / 2
	return cx + apothem*math.Cos(rad), cy + apothem*math.Sin(rad)
}

// Resource enumerates tile yields. Desert produces nothing.
type Resource uint8

const (
	Wood Resource = iota
	Brick
	Sheep
	Wheat
	Ore
	Desert
)

// NumResources is the count of tradeable resources (Desert excluded).
const NumResources = 5

// Productive lists the tradeable resources in canonical order.
var Productive = [NumResources]Resource{Wood, Brick, Sheep, Wheat, Ore}

var resourceNames = [...]string{"Wood", "Brick", "Sheep", "Wheat", "Ore", "Desert"}

// String returns the display label for a resource.
func (r Resource) String() string {
	if int(r) < len(resourceNames) {
		return resourceNames[r]
	}
	return "Unknown"
}

// Valid reports whether r is one of the five tradeable resources.
func (r Resource) Valid() bool {
	return r < Desert
}

// ParseResource maps a label back to a Resource.
func ParseResource(s string) (Resource, bool) {
	for i, name := range resourceNames {
		if name == s {
			return Resource(i), true
		}
	}
	return 0, false
}

func (r Resource) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Resource) UnmarshalText(b []byte) error {
	v, ok := ParseResource(string(b))
	if !ok {
		return fmt.Errorf("unknown resource %q", string(b))
	}
	*r = v
	return nil
}

// Hex is one tile. Immutable after generation.
type Hex struct {
	ID       string   `json:"id"`
	Coord    HexCoord `json:"coord"`
	Resource Resource `json:"resource"`
	Token    int      `json:"token,omitempty"` // 0 on the desert
}

// Layout is the fixed 19-tile board, in row order.
var Layout = []HexCoord{
	{Q: 0, R: -2}, {Q: 1, R: -2}, {Q: 2, R: -2},
	{Q: -1, R: -1}, {Q: 0, R: -1}, {Q: 1, R: -1}, {Q: 2, R: -1},
	{Q: -2, R: 0}, {Q: -1, R: 0}, {Q: 0, R: 0}, {Q: 1, R: 0}, {Q: 2, R: 0},
	{Q: -2, R: 1}, {Q: -1, R: 1}, {Q: 0, R: 1}, {Q: 1, R: 1},
	{Q: -2, R: 2}, {Q: -1, R: 2}, {Q: 0, R: 2},
}

// TileSet is the resource multiset dealt onto Layout.
var TileSet = []Resource{
	Wood, Wood, Wood, Wood,
	Wheat, Wheat, Wheat, Wheat,
	Sheep, Sheep, Sheep, Sheep,
	Brick, Brick, Brick,
	Ore, Ore, Ore,
	Desert,
}

// TokenSet is the number-token multiset dealt onto the non-desert tiles.
var TokenSet = []int{2, 3, 3, 4, 4, 5, 5, 6, 6, 8, 8, 9, 9, 10, 10, 11, 11, 12}
