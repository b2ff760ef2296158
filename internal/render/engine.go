package render

import (
	"fmt"
	"strings"

	"shoreline/internal/maps"
	"shoreline/internal/retile"
)

const HUDRows = 3

var sentinel = Cell{Ch: '\x00', FgR: 255, BgB: 255, Bold: true}

// Scene is everything one preview frame shows.
type Scene struct {
	Layout   *retile.Layout
	Map      *maps.Map
	CursorX  int
	CursorY  int
	MapIndex int // 0-based position of Map among the loaded maps
	MapCount int
	Status   string // last action, shown in the HUD
}

// Engine is a per-session double-buffer diff renderer.
type Engine struct {
	width, height int
	current       [][]Cell
	next          [][]Cell
	firstFrame    bool
	lastMap       string
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{
		width:      width,
		height:     height,
		firstFrame: true,
	}
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	return e
}

// Resize adjusts the renderer for a new terminal size.
func (e *Engine) Resize(width, height int) {
	e.width = width
	e.height = height
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	e.firstFrame = true
}

func (e *Engine) makeBuffer(fill Cell) [][]Cell {
	buf := make([][]Cell, e.height)
	for y := 0; y < e.height; y++ {
		buf[y] = make([]Cell, e.width)
		for x := 0; x < e.width; x++ {
			buf[y][x] = fill
		}
	}
	return buf
}

// Render produces the ANSI byte output for the current frame. Only cells
// that changed since the previous frame are emitted.
func (e *Engine) Render(sc Scene, termW, termH int) string {
	if termW != e.width || termH != e.height {
		e.Resize(termW, termH)
	}
	if sc.Map.Name != e.lastMap {
		e.firstFrame = true
		e.lastMap = sc.Map.Name
	}

	bgCell := Cell{Ch: ' ', BgR: 10, BgG: 10, BgB: 15}
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			e.next[y][x] = bgCell
		}
	}

	vp := NewViewport(sc.CursorX, sc.CursorY, termW, termH, sc.Layout.Width, sc.Layout.Height, HUDRows)
	for ty := 0; ty < vp.ViewH; ty++ {
		for tx := 0; tx < vp.ViewW; tx++ {
			wx := vp.CamX + tx
			wy := vp.CamY + ty
			if wx >= sc.Layout.Width || wy >= sc.Layout.Height {
				continue
			}
			cells := TileCells(sc.Layout, sc.Map, wx, wy)
			if wx == sc.CursorX && wy == sc.CursorY {
				cells[0] = cursorCell(cells[0])
				cells[1] = cursorCell(cells[1])
			}
			e.setTile(tx*GlyphWidth, ty, cells)
		}
	}

	e.drawHUD(sc)
	return e.flush()
}

// cursorCell swaps foreground and background so the cursor stands out.
func cursorCell(c Cell) Cell {
	c.FgR, c.BgR = c.BgR, 255
	c.FgG, c.BgG = c.BgG, 230
	c.FgB, c.BgB = c.BgB, 120
	c.Bold = true
	return c
}

func (e *Engine) setTile(sx, sy int, cells [2]Cell) {
	if sy < 0 || sy >= e.height {
		return
	}
	for i, c := range cells {
		if x := sx + i; x >= 0 && x < e.width {
			e.next[sy][x] = c
		}
	}
}

// flush diffs next against current, emits the changed cells and swaps.
func (e *Engine) flush() string {
	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			nc := e.next[y][x]
			if e.firstFrame || nc != e.current[y][x] {
				// Only emit cursor position if not consecutive
				if y != lastRow || x != lastCol {
					sb.WriteString(MoveTo(y+1, x+1))
				}
				WriteCellSGR(&sb, nc)
				lastRow = y
				lastCol = x + 1
			}
		}
	}

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	e.current, e.next = e.next, e.current
	e.firstFrame = false

	return sb.String()
}

// --- HUD ---

func (e *Engine) drawHUD(sc Scene) {
	hudY := e.height - HUDRows
	if hudY < 0 {
		return
	}
	bgR, bgG, bgB := uint8(15), uint8(18), uint8(30)

	// Row 0: separator
	for x := 0; x < e.width; x++ {
		e.next[hudY][x] = Cell{
			Ch: '━', FgR: 60, FgG: 90, FgB: 110,
			BgR: bgR, BgG: bgG, BgB: bgB,
		}
	}

	// Row 1: map and cursor tile
	p := sc.Layout.At(sc.CursorX, sc.CursorY)
	e.writeHUDTextLine(hudY+1, "", 0, 0, 0, bgR, bgG, bgB)
	col := e.writeText(hudY+1, 1, e.width, sc.Map.Name, 255, 220, 100, bgR, bgG, bgB, true)
	if sc.MapCount > 1 {
		col = e.writeText(hudY+1, col, e.width, fmt.Sprintf(" (%d/%d)", sc.MapIndex+1, sc.MapCount), 130, 130, 145, bgR, bgG, bgB, false)
	}
	col = e.writeText(hudY+1, col, e.width, "  │  ", 60, 65, 85, bgR, bgG, bgB, false)
	col = e.writeText(hudY+1, col, e.width, fmt.Sprintf("%d,%d ", sc.CursorX, sc.CursorY), 180, 180, 195, bgR, bgG, bgB, false)
	col = e.writeText(hudY+1, col, e.width, describe(p), 100, 220, 220, bgR, bgG, bgB, false)
	if sc.Status != "" {
		col = e.writeText(hudY+1, col, e.width, "  │  ", 60, 65, 85, bgR, bgG, bgB, false)
		e.writeText(hudY+1, col, e.width, sc.Status, 240, 190, 60, bgR, bgG, bgB, false)
	}

	// Row 2: controls
	e.writeHUDTextLine(hudY+2, " ←↑↓→/WASD Move  │  Space Toggle water  │  Tab Next map  │  Q Quit",
		130, 130, 145, bgR, bgG, bgB)
}

// describe summarizes a placement for the HUD.
func describe(p retile.Placement) string {
	if !p.Water {
		return fmt.Sprintf("%s [%s]", p.Asset, p.Sprite)
	}
	return fmt.Sprintf("%s %s [%s]", p.Asset, p.Shape, p.Sprite)
}

// writeText writes colored text into a bounded region [col, maxCol). Returns the next column position.
func (e *Engine) writeText(row, col, maxCol int, text string, fgR, fgG, fgB, bgR, bgG, bgB uint8, bold bool) int {
	for _, r := range text {
		if col >= maxCol || col >= e.width {
			break
		}
		if row >= 0 && row < e.height && col >= 0 {
			e.next[row][col] = Cell{Ch: r, FgR: fgR, FgG: fgG, FgB: fgB, BgR: bgR, BgG: bgG, BgB: bgB, Bold: bold}
		}
		col++
	}
	return col
}

func (e *Engine) writeHUDTextLine(row int, text string, fgR, fgG, fgB, bgR, bgG, bgB uint8) {
	if row < 0 || row >= e.height {
		return
	}
	runes := []rune(text)
	for x := 0; x < e.width; x++ {
		if x < len(runes) {
			e.next[row][x] = Cell{Ch: runes[x], FgR: fgR, FgG: fgG, FgB: fgB, BgR: bgR, BgG: bgG, BgB: bgB}
		} else {
			e.next[row][x] = Cell{Ch: ' ', BgR: bgR, BgG: bgG, BgB: bgB}
		}
	}
}
