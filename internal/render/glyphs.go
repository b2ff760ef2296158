package render

import (
	"strings"

	"shoreline/internal/maps"
	"shoreline/internal/retile"
	"shoreline/internal/tiles"
)

// Palette for water tiles.
var (
	waterRGB = [3]uint8{22, 62, 140}
	shoreRGB = [3]uint8{214, 190, 120}
	landBg   = [3]uint8{14, 22, 14}
)

// shapeGlyphs holds the two-column glyph for each orthogonal shape,
// indexed by rotation. Land is drawn in the shore color.
var shapeGlyphs = map[tiles.Category][]string{
	tiles.Full:        {"  "},
	tiles.Edge:        {"▀▀", " ▐", "▄▄", "▌ "},
	tiles.OuterCorner: {"▙▄", "▛▀", "▀▜", "▄▟"},
	tiles.Isthmus:     {"▌▐", "══"},
	tiles.Peninsula:   {"╚╝", "╠═", "╔╗", "═╣"},
	tiles.Pond:        {"()"},
}

// quadrantRunes maps a quadrant mask (UL=1, UR=2, LL=4, LR=8) to a block rune.
var quadrantRunes = []rune(" ▘▝▀▖▌▞▛▗▚▐▜▄▙▟█")

const (
	quadUL = 1
	quadUR = 2
	quadLL = 4
	quadLR = 8
)

// cornerGlyph composites land corners into a two-column glyph: NW and SW
// land in the left column, NE and SE in the right.
func cornerGlyph(cs tiles.CornerSet) [2]rune {
	var left, right int
	if cs.Has(tiles.NorthWest) {
		left |= quadUL
	}
	if cs.Has(tiles.SouthWest) {
		left |= quadLL
	}
	if cs.Has(tiles.NorthEast) {
		right |= quadUR
	}
	if cs.Has(tiles.SouthEast) {
		right |= quadLR
	}
	return [2]rune{quadrantRunes[left], quadrantRunes[right]}
}

// ShapeGlyph returns the two runes drawn for a water tile of shape s.
func ShapeGlyph(s tiles.Shape) [2]rune {
	switch s.Category {
	case tiles.InnerCorner, tiles.DoubleInnerCorner:
		return cornerGlyph(s.Corners)
	}
	set, ok := shapeGlyphs[s.Category]
	if !ok {
		return [2]rune{'?', '?'}
	}
	g := []rune(set[s.Rotation%len(set)])
	return [2]rune{g[0], g[1]}
}

// TileCells returns the two screen cells for the tile at (x,y).
func TileCells(l *retile.Layout, m *maps.Map, x, y int) [2]Cell {
	p := l.At(x, y)
	if p.Water {
		g := ShapeGlyph(p.Shape)
		var out [2]Cell
		for i := range out {
			out[i] = Cell{
				Ch:  g[i],
				FgR: shoreRGB[0], FgG: shoreRGB[1], FgB: shoreRGB[2],
				BgR: waterRGB[0], BgG: waterRGB[1], BgB: waterRGB[2],
			}
		}
		return out
	}

	td := m.TileAt(x, y)
	fgR, fgG, fgB := AnsiToRGB(td.Fg)
	c := Cell{
		Ch:  td.Char,
		FgR: fgR, FgG: fgG, FgB: fgB,
		BgR: landBg[0], BgG: landBg[1], BgB: landBg[2],
	}
	blank := c
	blank.Ch = ' '
	return [2]Cell{c, blank}
}

// Plain renders the whole layout as colored text, one line per map row.
func Plain(l *retile.Layout, m *maps.Map) string {
	var sb strings.Builder
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			cells := TileCells(l, m, x, y)
			WriteCellSGR(&sb, cells[0])
			WriteCellSGR(&sb, cells[1])
		}
		sb.WriteString(Reset)
		sb.WriteByte('\n')
	}
	return sb.String()
}
