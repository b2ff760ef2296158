// Package tiles classifies water tiles by the shape of their shoreline.
package tiles

import (
	"fmt"
	"math/bits"
	"strings"
)

// Dir is an orthogonal neighbor direction, numbered clockwise from north.
type Dir uint8

const (
	North Dir = iota
	East
	South
	West
)

var dirNames = [4]string{"N", "E", "S", "W"}

func (d Dir) String() string {
	if d > West {
		return fmt.Sprintf("Dir(%d)", d)
	}
	return dirNames[d]
}

// Next returns the direction one quarter turn clockwise.
func (d Dir) Next() Dir {
	return (d + 1) % 4
}

// Opposite returns the direction half a turn away.
func (d Dir) Opposite() Dir {
	return (d + 2) % 4
}

// Corner is a diagonal neighbor, numbered clockwise from north-east.
type Corner uint8

const (
	NorthEast Corner = iota
	SouthEast
	SouthWest
	NorthWest
)

var cornerNames = [4]string{"NE", "SE", "SW", "NW"}

func (c Corner) String() string {
	if c > NorthWest {
		return fmt.Sprintf("Corner(%d)", c)
	}
	return cornerNames[c]
}

// Flanks returns the two orthogonal sides touching the corner, in clockwise order.
func (c Corner) Flanks() (Dir, Dir) {
	return Dir(c), Dir(c).Next()
}

// Bit returns the corner as a single-member set.
func (c Corner) Bit() CornerSet {
	return 1 << c
}

// NeighborMask records which orthogonal neighbors are water.
// Bit d is set iff the neighbor in direction d is water.
type NeighborMask uint8

const (
	MaskN NeighborMask = 1 << North
	MaskE NeighborMask = 1 << East
	MaskS NeighborMask = 1 << South
	MaskW NeighborMask = 1 << West

	// AllWater is the mask of a tile surrounded by water on all four sides.
	AllWater = MaskN | MaskE | MaskS | MaskW
)

// MaskOf builds a mask from per-side water flags.
func MaskOf(n, e, s, w bool) NeighborMask {
	var m NeighborMask
	if n {
		m |= MaskN
	}
	if e {
		m |= MaskE
	}
	if s {
		m |= MaskS
	}
	if w {
		m |= MaskW
	}
	return m
}

// Bit returns the mask with only direction d set.
func (d Dir) Bit() NeighborMask {
	return 1 << d
}

// Water reports whether the neighbor in direction d is water.
func (m NeighborMask) Water(d Dir) bool {
	return m&d.Bit() != 0
}

// Count returns the number of water neighbors.
func (m NeighborMask) Count() int {
	return bits.OnesCount8(uint8(m & AllWater))
}

// Rotate turns the mask a quarter turn clockwise: the north neighbor becomes
// the east neighbor, and so on.
func (m NeighborMask) Rotate() NeighborMask {
	m &= AllWater
	return ((m << 1) | (m >> 3)) & AllWater
}

func (m NeighborMask) String() string {
	m &= AllWater
	if m == 0 {
		return "-"
	}
	var sb strings.Builder
	for d := North; d <= West; d++ {
		if m.Water(d) {
			sb.WriteString(d.String())
		}
	}
	return sb.String()
}

// ParseMask parses a mask written as the water sides, e.g. "NES".
// "-" and "" mean no water neighbors.
func ParseMask(s string) (NeighborMask, error) {
	var m NeighborMask
	if s == "-" {
		return 0, nil
	}
	for _, r := range strings.ToUpper(s) {
		switch r {
		case 'N':
			m |= MaskN
		case 'E':
			m |= MaskE
		case 'S':
			m |= MaskS
		case 'W':
			m |= MaskW
		default:
			return 0, fmt.Errorf("invalid side %q in mask %q", r, s)
		}
	}
	return m, nil
}

// CornerSet is a set of diagonal corners.
type CornerSet uint8

const allCorners CornerSet = 0x0F

// Has reports whether c is in the set.
func (s CornerSet) Has(c Corner) bool {
	return s&c.Bit() != 0
}

// Len returns the number of corners in the set.
func (s CornerSet) Len() int {
	return bits.OnesCount8(uint8(s & allCorners))
}

// Rotate turns the set a quarter turn clockwise.
func (s CornerSet) Rotate() CornerSet {
	s &= allCorners
	return ((s << 1) | (s >> 3)) & allCorners
}

// Corners returns the members in clockwise order starting at NE.
func (s CornerSet) Corners() []Corner {
	var out []Corner
	for c := NorthEast; c <= NorthWest; c++ {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s CornerSet) String() string {
	cs := s.Corners()
	if len(cs) == 0 {
		return "-"
	}
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.String()
	}
	return strings.Join(names, ",")
}

// ParseCorners parses a comma separated corner list such as "ne,sw".
func ParseCorners(s string) (CornerSet, error) {
	var set CornerSet
	if s == "" || s == "-" {
		return 0, nil
	}
	for _, part := range strings.Split(s, ",") {
		switch strings.ToUpper(strings.TrimSpace(part)) {
		case "NE":
			set |= NorthEast.Bit()
		case "SE":
			set |= SouthEast.Bit()
		case "SW":
			set |= SouthWest.Bit()
		case "NW":
			set |= NorthWest.Bit()
		default:
			return 0, fmt.Errorf("invalid corner %q", part)
		}
	}
	return set, nil
}

// ExtendedMask adds the four diagonal neighbors to a NeighborMask.
// The low nibble holds the orthogonal water bits, the high nibble holds one
// water bit per Corner.
type ExtendedMask uint8

// ExtendedOf combines orthogonal water sides with the set of water corners.
func ExtendedOf(orth NeighborMask, waterCorners CornerSet) ExtendedMask {
	return ExtendedMask(orth&AllWater) | ExtendedMask(waterCorners&allCorners)<<4
}

// FullyWater is the extended mask of a tile surrounded by water on all eight sides.
const FullyWater = ExtendedMask(0xFF)

// Orthogonal returns the orthogonal part of the mask.
func (e ExtendedMask) Orthogonal() NeighborMask {
	return NeighborMask(e) & AllWater
}

// WaterCorners returns the diagonals that are water.
func (e ExtendedMask) WaterCorners() CornerSet {
	return CornerSet(e>>4) & allCorners
}

// LandCorners returns the diagonals that are land.
func (e ExtendedMask) LandCorners() CornerSet {
	return ^e.WaterCorners() & allCorners
}

// Rotate turns the mask a quarter turn clockwise.
func (e ExtendedMask) Rotate() ExtendedMask {
	return ExtendedOf(e.Orthogonal().Rotate(), e.WaterCorners().Rotate())
}

func (e ExtendedMask) String() string {
	return fmt.Sprintf("%s/land:%s", e.Orthogonal(), e.LandCorners())
}
