package maps

import (
	"fmt"

	"shoreline/internal/tiles"
)

// EdgePolicy decides what lies beyond the map border.
type EdgePolicy int

const (
	// EdgeLand treats out-of-bounds neighbors as land.
	EdgeLand EdgePolicy = iota
	// EdgeWater treats out-of-bounds neighbors as water.
	EdgeWater
	// EdgeClamp repeats the nearest in-bounds tile.
	EdgeClamp
)

var edgePolicyNames = map[EdgePolicy]string{
	EdgeLand:  "land",
	EdgeWater: "water",
	EdgeClamp: "clamp",
}

func (p EdgePolicy) String() string {
	if s, ok := edgePolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("EdgePolicy(%d)", int(p))
}

// ParseEdgePolicy parses "land", "water" or "clamp".
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	for p, name := range edgePolicyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown edge policy %q (want land, water or clamp)", s)
}

// UnmarshalText lets EdgePolicy appear directly in config files.
func (p *EdgePolicy) UnmarshalText(text []byte) error {
	v, err := ParseEdgePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (p EdgePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// dirOffsets are indexed by tiles.Dir; y grows southwards.
var dirOffsets = [4][2]int{
	tiles.North: {0, -1},
	tiles.East:  {1, 0},
	tiles.South: {0, 1},
	tiles.West:  {-1, 0},
}

// cornerOffsets are indexed by tiles.Corner.
var cornerOffsets = [4][2]int{
	tiles.NorthEast: {1, -1},
	tiles.SouthEast: {1, 1},
	tiles.SouthWest: {-1, 1},
	tiles.NorthWest: {-1, -1},
}

// IsWater reports whether (x,y) is water, resolving out-of-bounds
// coordinates with policy.
func (m *Map) IsWater(x, y int, policy EdgePolicy) bool {
	if !m.InBounds(x, y) {
		switch policy {
		case EdgeWater:
			return true
		case EdgeClamp:
			x = clampInt(x, 0, m.Width-1)
			y = clampInt(y, 0, m.Height-1)
		default:
			return false
		}
	}
	return m.TileAt(x, y).Water
}

// NeighborMask returns the orthogonal water mask around (x,y).
func (m *Map) NeighborMask(x, y int, policy EdgePolicy) tiles.NeighborMask {
	var mask tiles.NeighborMask
	for d := tiles.North; d <= tiles.West; d++ {
		off := dirOffsets[d]
		if m.IsWater(x+off[0], y+off[1], policy) {
			mask |= d.Bit()
		}
	}
	return mask
}

// ExtendedMask returns the orthogonal and diagonal water mask around (x,y).
// A diagonal is only sampled when both sides flanking it are water; otherwise
// it cannot change the tile's shape and is reported as water.
func (m *Map) ExtendedMask(x, y int, policy EdgePolicy) tiles.ExtendedMask {
	orth := m.NeighborMask(x, y, policy)

	var water tiles.CornerSet
	for c := tiles.NorthEast; c <= tiles.NorthWest; c++ {
		a, b := c.Flanks()
		if !orth.Water(a) || !orth.Water(b) {
			water |= c.Bit()
			continue
		}
		off := cornerOffsets[c]
		if m.IsWater(x+off[0], y+off[1], policy) {
			water |= c.Bit()
		}
	}
	return tiles.ExtendedOf(orth, water)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
