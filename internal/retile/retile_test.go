package retile

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoreline/internal/assets"
	"shoreline/internal/maps"
	"shoreline/internal/tiles"
)

const catalogYAML = `
terrain:
  - id: grass
    sprites: [grass_0, grass_1, grass_2]
    weights: [1, 1, 1]
  - id: rock
    sprites: [rock_0]
water:
  - id: lake
    full: {sprites: [full_0, full_1], weights: [1, 1]}
    inner_corner: {sprites: [inner_corner_0]}
    double_inner_corner: {sprites: [double_inner_corner_0]}
    outer_corner: {sprites: [outer_corner_0]}
    edge: {sprites: [edge_0]}
    isthmus: {sprites: [isthmus_0]}
    peninsula: {sprites: [peninsula_0]}
    pond: {sprites: [pond_0]}
`

func testCatalog(t *testing.T) *assets.Catalog {
	t.Helper()
	cat, err := assets.ParseCatalog([]byte(catalogYAML), "test.yaml")
	require.NoError(t, err)
	return cat
}

func TestRunClassifiesWaterTiles(t *testing.T) {
	m := maps.DefaultMap()
	cat := testCatalog(t)
	opts := Options{Policy: maps.EdgeLand, Seed: 7}

	l, err := Run(context.Background(), m, cat, opts)
	require.NoError(t, err)
	assert.Equal(t, m.Width, l.Width)
	assert.Equal(t, m.Height, l.Height)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p := l.At(x, y)
			td := m.TileAt(x, y)
			require.Equal(t, td.Water, p.Water, "(%d,%d)", x, y)
			if !p.Water {
				assert.Equal(t, td.Asset, p.Asset)
				assert.NotEmpty(t, p.Sprite)
				continue
			}
			want := tiles.Classify(m.NeighborMask(x, y, maps.EdgeLand))
			assert.Equal(t, want, p.Shape, "(%d,%d)", x, y)
			if want.Category != tiles.Full {
				assert.Equal(t, want.Category.String()+"_0", p.Sprite)
			}
		}
	}
	assert.Zero(t, l.Degraded())
}

func TestRunWithDiagonals(t *testing.T) {
	// The water tile at (1,1) has land to the NE only.
	m := &maps.Map{
		Name: "corner", Width: 3, Height: 3,
		Tiles: [][]int{
			{1, 1, 0},
			{1, 1, 1},
			{1, 1, 1},
		},
		Legend: []maps.TileDef{
			{Name: "grass", Asset: "grass"},
			{Name: "water", Water: true, Asset: "lake"},
		},
	}

	l, err := Run(context.Background(), m, testCatalog(t), Options{Policy: maps.EdgeWater, Diagonals: true})
	require.NoError(t, err)

	p := l.At(1, 1)
	assert.Equal(t, tiles.InnerCorner, p.Shape.Category)
	assert.Equal(t, tiles.NorthEast.Bit(), p.Shape.Corners)
	assert.Equal(t, "inner_corner_0", p.Sprite)

	stats := l.Stats()
	assert.Equal(t, 8, stats.WaterTiles)
	assert.Equal(t, 1, stats.LandTiles)
	assert.Equal(t, 1, stats.Water[tiles.InnerCorner])
}

func TestRunIsDeterministicAcrossWorkers(t *testing.T) {
	m := maps.DefaultMap()
	cat := testCatalog(t)

	one, err := Run(context.Background(), m, cat, Options{Seed: 99, Workers: 1})
	require.NoError(t, err)
	many, err := Run(context.Background(), m, cat, Options{Seed: 99, Workers: 8})
	require.NoError(t, err)

	assert.Equal(t, one.cells, many.cells)
}

func TestRunUnknownAsset(t *testing.T) {
	m := maps.DefaultMap()
	m.Legend[1].Asset = "sea"

	_, err := Run(context.Background(), m, testCatalog(t), Options{})
	assert.ErrorContains(t, err, `unknown water type "sea"`)

	m = maps.DefaultMap()
	m.Legend[2].Asset = "lake"
	_, err = Run(context.Background(), m, testCatalog(t), Options{})
	assert.ErrorContains(t, err, `unknown terrain type "lake"`)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, maps.DefaultMap(), testCatalog(t), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetileMatchesFullRun(t *testing.T) {
	m := maps.DefaultMap()
	cat := testCatalog(t)
	opts := Options{Seed: 3, Diagonals: true}

	l, err := Run(context.Background(), m, cat, opts)
	require.NoError(t, err)

	// Fill part of the island with water.
	require.NoError(t, m.SetTile(8, 4, m.FirstLegend(true)))
	require.NoError(t, Retile(context.Background(), l, m, cat, opts, image.Rect(8, 4, 9, 5)))

	fresh, err := Run(context.Background(), m, cat, opts)
	require.NoError(t, err)
	assert.Equal(t, fresh.cells, l.cells)
}

func TestRetileDegradedCount(t *testing.T) {
	m := maps.DefaultMap()
	cat := testCatalog(t)
	opts := Options{Seed: 3, Diagonals: true}

	l, err := Run(context.Background(), m, cat, opts)
	require.NoError(t, err)

	// Flag one tile outside and one inside the recomputed area.
	l.cells[0].Degraded = true
	l.cells[4*l.Width+8].Degraded = true
	require.Equal(t, 2, l.Degraded())

	area := image.Rect(8, 4, 9, 5)
	for i := range 3 {
		require.NoError(t, Retile(context.Background(), l, m, cat, opts, area))
		assert.Equal(t, 1, l.Degraded(), "pass %d", i)
	}
	assert.True(t, l.At(0, 0).Degraded)
	assert.False(t, l.At(8, 4).Degraded)
}

func TestRetileSizeMismatch(t *testing.T) {
	m := maps.DefaultMap()
	cat := testCatalog(t)
	l, err := Run(context.Background(), m, cat, Options{})
	require.NoError(t, err)

	other := &maps.Map{Name: "tiny", Width: 1, Height: 1, Tiles: [][]int{{0}}, Legend: m.Legend}
	assert.Error(t, Retile(context.Background(), l, other, cat, Options{}, image.Rect(0, 0, 1, 1)))
}
