package tiles

import "fmt"

// Category is the shoreline shape of a water tile. Each category has its own
// sprite set.
type Category uint8

const (
	Full Category = iota
	InnerCorner
	DoubleInnerCorner
	OuterCorner
	Edge
	Isthmus
	Peninsula
	Pond
)

// CategoryCount is the number of shape categories.
const CategoryCount = int(Pond) + 1

// categoryNames are also the keys used in asset files.
var categoryNames = [CategoryCount]string{
	"full",
	"inner_corner",
	"double_inner_corner",
	"outer_corner",
	"edge",
	"isthmus",
	"peninsula",
	"pond",
}

func (c Category) String() string {
	if int(c) >= CategoryCount {
		return fmt.Sprintf("Category(%d)", c)
	}
	return categoryNames[c]
}

// ParseCategory looks up a category by its asset-file name.
func ParseCategory(s string) (Category, bool) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), true
		}
	}
	return 0, false
}

// Categories returns all categories in declaration order.
func Categories() []Category {
	out := make([]Category, CategoryCount)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Symmetry returns how many distinct rotations a category's sprite has.
func (c Category) Symmetry() int {
	switch c {
	case Full, Pond:
		return 1
	case Isthmus, DoubleInnerCorner:
		return 2
	default:
		return 4
	}
}

// Shape is the result of classifying a water tile.
//
// Rotation is the number of clockwise quarter turns to apply to the
// category's canonical sprite. Corners lists the diagonal land corners that
// were taken into account; it is only set by ClassifyExtended.
type Shape struct {
	Category Category
	Rotation int
	Corners  CornerSet
}

func (s Shape) String() string {
	if s.Corners != 0 {
		return fmt.Sprintf("%s/r%d [%s]", s.Category, s.Rotation, s.Corners)
	}
	return fmt.Sprintf("%s/r%d", s.Category, s.Rotation)
}

// Mask returns the orthogonal neighbor mask the shape was classified from.
func (s Shape) Mask() NeighborMask {
	r := Dir(s.Rotation % 4)
	switch s.Category {
	case Edge:
		return AllWater &^ r.Bit()
	case OuterCorner:
		return r.Bit() | r.Next().Bit()
	case Isthmus:
		if s.Rotation%2 == 0 {
			return MaskN | MaskS
		}
		return MaskE | MaskW
	case Peninsula:
		return r.Bit()
	case Pond:
		return 0
	default:
		return AllWater
	}
}

// LandSides returns the orthogonal sides that are land.
func (s Shape) LandSides() []Dir {
	m := s.Mask()
	var out []Dir
	for d := North; d <= West; d++ {
		if !m.Water(d) {
			out = append(out, d)
		}
	}
	return out
}
