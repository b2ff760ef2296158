package render

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoreline/internal/assets"
	"shoreline/internal/maps"
	"shoreline/internal/retile"
	"shoreline/internal/tiles"
)

const catalogYAML = `
terrain:
  - id: grass
    sprites: [grass_0]
  - id: rock
    sprites: [rock_0]
water:
  - id: lake
    full: {sprites: [full_0]}
    inner_corner: {sprites: [inner_corner_0]}
    double_inner_corner: {sprites: [double_inner_corner_0]}
    outer_corner: {sprites: [outer_corner_0]}
    edge: {sprites: [edge_0]}
    isthmus: {sprites: [isthmus_0]}
    peninsula: {sprites: [peninsula_0]}
    pond: {sprites: [pond_0]}
`

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

func stripANSI(s string) string {
	return ansiSeq.ReplaceAllString(s, "")
}

func testLayout(t *testing.T, m *maps.Map) *retile.Layout {
	t.Helper()
	cat, err := assets.ParseCatalog([]byte(catalogYAML), "test.yaml")
	require.NoError(t, err)
	l, err := retile.Run(context.Background(), m, cat, retile.Options{Diagonals: true})
	require.NoError(t, err)
	return l
}

func TestShapeGlyph(t *testing.T) {
	tests := []struct {
		name  string
		shape tiles.Shape
		want  string
	}{
		{"full", tiles.Shape{Category: tiles.Full}, "  "},
		{"edge north", tiles.Shape{Category: tiles.Edge}, "▀▀"},
		{"edge west", tiles.Shape{Category: tiles.Edge, Rotation: 3}, "▌ "},
		{"isthmus east-west", tiles.Shape{Category: tiles.Isthmus, Rotation: 1}, "══"},
		{"pond", tiles.Shape{Category: tiles.Pond}, "()"},
		{"inner ne", tiles.Shape{Category: tiles.InnerCorner, Corners: tiles.NorthEast.Bit()}, " ▝"},
		{"inner sw", tiles.Shape{Category: tiles.InnerCorner, Rotation: 2, Corners: tiles.SouthWest.Bit()}, "▖ "},
		{"double ne sw", tiles.Shape{Category: tiles.DoubleInnerCorner, Corners: tiles.NorthEast.Bit() | tiles.SouthWest.Bit()}, "▖▝"},
		{"all corners", tiles.Shape{Category: tiles.InnerCorner, Corners: 0xF}, "▌▐"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ShapeGlyph(tt.shape)
			assert.Equal(t, tt.want, string(g[:]))
		})
	}
}

func TestShapeGlyphDistinctPerMask(t *testing.T) {
	seen := make(map[string]tiles.NeighborMask)
	for m := tiles.NeighborMask(0); m <= tiles.AllWater; m++ {
		g := ShapeGlyph(tiles.Classify(m))
		key := string(g[:])
		if prev, ok := seen[key]; ok {
			t.Fatalf("masks %s and %s share glyph %q", prev, m, key)
		}
		seen[key] = m
	}
	assert.Len(t, seen, 16)
}

func TestViewport(t *testing.T) {
	tests := []struct {
		name         string
		fx, fy       int
		termW, termH int
		mapW, mapH   int
		wantX, wantY int
		wantW, wantH int
	}{
		{"centered", 50, 50, 40, 23, 100, 100, 40, 40, 20, 20},
		{"clamped top-left", 1, 1, 40, 23, 100, 100, 0, 0, 20, 20},
		{"clamped bottom-right", 99, 99, 40, 23, 100, 100, 80, 80, 20, 20},
		{"map smaller than view", 3, 3, 80, 40, 10, 10, 0, 0, 40, 37},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := NewViewport(tt.fx, tt.fy, tt.termW, tt.termH, tt.mapW, tt.mapH, 3)
			assert.Equal(t, tt.wantX, vp.CamX)
			assert.Equal(t, tt.wantY, vp.CamY)
			assert.Equal(t, tt.wantW, vp.ViewW)
			assert.Equal(t, tt.wantH, vp.ViewH)
		})
	}
}

func TestWorldToScreen(t *testing.T) {
	vp := Viewport{CamX: 10, CamY: 5, ViewW: 20, ViewH: 10}

	sx, sy := vp.WorldToScreen(10, 5)
	assert.Equal(t, 1, sx)
	assert.Equal(t, 1, sy)

	sx, sy = vp.WorldToScreen(12, 6)
	assert.Equal(t, 1+2*GlyphWidth, sx)
	assert.Equal(t, 2, sy)

	sx, sy = vp.WorldToScreen(30, 5)
	assert.Equal(t, -1, sx)
	assert.Equal(t, -1, sy)
}

func TestEngineDiffs(t *testing.T) {
	m := maps.DefaultMap()
	l := testLayout(t, m)
	e := NewEngine(60, 16)
	sc := Scene{Layout: l, Map: m, CursorX: 12, CursorY: 2, MapCount: 1}

	first := e.Render(sc, 60, 16)
	text := stripANSI(first)
	assert.Contains(t, text, "Default")
	assert.Contains(t, text, "12,2 lake full/r0 [full_0]")

	assert.Empty(t, e.Render(sc, 60, 16), "unchanged frame emits nothing")

	sc.CursorX = 13
	moved := e.Render(sc, 60, 16)
	assert.NotEmpty(t, moved)
	assert.Less(t, len(moved), len(first))

	resized := e.Render(sc, 70, 16)
	assert.Greater(t, len(resized), len(moved), "resize redraws everything")
}

func TestPlain(t *testing.T) {
	m := maps.DefaultMap()
	l := testLayout(t, m)
	out := stripANSI(Plain(l, m))
	assert.Equal(t, m.Height, strings.Count(out, "\n"))
	assert.Contains(t, out, "▀▀")
}

func TestImage(t *testing.T) {
	m := maps.DefaultMap()
	l := testLayout(t, m)
	const cell = 16

	img := Image(l, m, cell)
	assert.Equal(t, m.Width*cell, img.Bounds().Dx())
	assert.Equal(t, m.Height*cell, img.Bounds().Dy())

	water := color.RGBA{waterRGB[0], waterRGB[1], waterRGB[2], 255}
	shore := color.RGBA{shoreRGB[0], shoreRGB[1], shoreRGB[2], 255}

	// (12,2) is open water; (12,1) has land to the north.
	require.Equal(t, tiles.Full, l.At(12, 2).Shape.Category)
	require.Equal(t, tiles.Shape{Category: tiles.Edge}, l.At(12, 1).Shape)
	assert.Equal(t, water, img.At(12*cell+8, 2*cell+8))
	assert.Equal(t, water, img.At(12*cell+8, 1*cell+8))
	assert.Equal(t, shore, img.At(12*cell+8, 1*cell+1))
}

func TestSavePNG(t *testing.T) {
	m := maps.DefaultMap()
	l := testLayout(t, m)
	path := filepath.Join(t.TempDir(), "out.png")

	require.NoError(t, SavePNG(path, l, m, 8))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Error(t, SavePNG(path, l, m, 0))
}
