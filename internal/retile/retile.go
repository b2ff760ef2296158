// Package retile resolves every tile of a map to a shape and a sprite.
package retile

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"shoreline/internal/assets"
	"shoreline/internal/maps"
	"shoreline/internal/tiles"
)

// Options control a retile pass.
type Options struct {
	Policy    maps.EdgePolicy
	Diagonals bool  // classify with the 8-neighbor mask
	Seed      int64 // sprite variant seed
	Workers   int   // concurrent rows; <= 0 means GOMAXPROCS
}

// Placement is the resolved look of one tile.
type Placement struct {
	Water  bool
	Asset  string
	Shape  tiles.Shape // zero for land tiles
	Sprite string

	// Degraded is set when diagonal classification fell back to the
	// orthogonal shape.
	Degraded bool
}

// Layout is the resolved placement of every tile of a map.
type Layout struct {
	Name   string
	Width  int
	Height int
	cells  []Placement
}

func newLayout(m *maps.Map) *Layout {
	return &Layout{
		Name:   m.Name,
		Width:  m.Width,
		Height: m.Height,
		cells:  make([]Placement, m.Width*m.Height),
	}
}

// At returns the placement at (x,y). Out-of-bounds coordinates return the
// zero Placement.
func (l *Layout) At(x, y int) Placement {
	if x < 0 || x >= l.Width || y < 0 || y >= l.Height {
		return Placement{}
	}
	return l.cells[y*l.Width+x]
}

// Degraded returns how many tiles fell back to orthogonal classification.
func (l *Layout) Degraded() int {
	n := 0
	for _, p := range l.cells {
		if p.Degraded {
			n++
		}
	}
	return n
}

// Stats counts water tiles per shape category and land tiles per asset.
type Stats struct {
	Water      map[tiles.Category]int
	Land       map[string]int
	WaterTiles int
	LandTiles  int
}

// Stats tallies the layout.
func (l *Layout) Stats() Stats {
	s := Stats{
		Water: make(map[tiles.Category]int),
		Land:  make(map[string]int),
	}
	for _, p := range l.cells {
		if p.Water {
			s.Water[p.Shape.Category]++
			s.WaterTiles++
		} else {
			s.Land[p.Asset]++
			s.LandTiles++
		}
	}
	return s
}

// Check verifies that every asset the map refers to exists in the catalog
// with the right kind.
func Check(m *maps.Map, cat *assets.Catalog) error {
	for i, td := range m.Legend {
		if td.Name == "" {
			continue
		}
		if td.Water {
			if _, ok := cat.Water(td.Asset); !ok {
				return fmt.Errorf("map %q legend %d: unknown water type %q", m.Name, i, td.Asset)
			}
			continue
		}
		if _, ok := cat.Terrain(td.Asset); !ok {
			return fmt.Errorf("map %q legend %d: unknown terrain type %q", m.Name, i, td.Asset)
		}
	}
	return nil
}

// Run resolves every tile of m. Rows are processed concurrently; the result
// does not depend on scheduling because each tile draws from its own random
// stream derived from opts.Seed and its coordinates.
func Run(ctx context.Context, m *maps.Map, cat *assets.Catalog, opts Options) (*Layout, error) {
	if err := Check(m, cat); err != nil {
		return nil, err
	}
	l := newLayout(m)
	if err := fill(ctx, l, m, cat, opts, image.Rect(0, 0, m.Width, m.Height)); err != nil {
		return nil, err
	}
	if n := l.Degraded(); n > 0 {
		slog.Warn("degraded tile classifications", "map", m.Name, "tiles", n)
	}
	slog.Debug("map retiled", "map", m.Name, "width", m.Width, "height", m.Height)
	return l, nil
}

// Retile recomputes the tiles in area after the map changed there. Shapes
// depend on neighbors, so a one-tile border around area is recomputed too.
// The caller must not read l concurrently.
func Retile(ctx context.Context, l *Layout, m *maps.Map, cat *assets.Catalog, opts Options, area image.Rectangle) error {
	if l.Width != m.Width || l.Height != m.Height {
		return fmt.Errorf("layout %dx%d does not match map %dx%d", l.Width, l.Height, m.Width, m.Height)
	}
	if err := Check(m, cat); err != nil {
		return err
	}
	area = area.Inset(-1).Intersect(image.Rect(0, 0, m.Width, m.Height))
	if area.Empty() {
		return nil
	}
	return fill(ctx, l, m, cat, opts, area)
}

func fill(ctx context.Context, l *Layout, m *maps.Map, cat *assets.Catalog, opts Options, area image.Rectangle) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for y := area.Min.Y; y < area.Max.Y; y++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for x := area.Min.X; x < area.Max.X; x++ {
				p, err := resolve(m, cat, opts, x, y)
				if err != nil {
					return err
				}
				l.cells[y*l.Width+x] = p
			}
			return nil
		})
	}
	return g.Wait()
}

// resolve classifies and picks a sprite for one tile.
func resolve(m *maps.Map, cat *assets.Catalog, opts Options, x, y int) (Placement, error) {
	td := m.TileAt(x, y)
	r := tileRand(opts.Seed, x, y)

	if !td.Water {
		tt, ok := cat.Terrain(td.Asset)
		if !ok {
			return Placement{}, fmt.Errorf("tile (%d,%d): unknown terrain type %q", x, y, td.Asset)
		}
		return Placement{Asset: td.Asset, Sprite: tt.Sprite(r)}, nil
	}

	wt, ok := cat.Water(td.Asset)
	if !ok {
		return Placement{}, fmt.Errorf("tile (%d,%d): unknown water type %q", x, y, td.Asset)
	}

	var shape tiles.Shape
	degraded := false
	if opts.Diagonals {
		var err error
		shape, err = tiles.ClassifyExtended(m.ExtendedMask(x, y, opts.Policy))
		if err != nil {
			degraded = true
			slog.Debug("classification degraded", "map", m.Name, "x", x, "y", y, "err", err)
		}
	} else {
		shape = tiles.Classify(m.NeighborMask(x, y, opts.Policy))
	}

	return Placement{Water: true, Asset: td.Asset, Shape: shape, Sprite: wt.Sprite(shape, r), Degraded: degraded}, nil
}

// tileRand returns the random stream for tile (x,y).
func tileRand(seed int64, x, y int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(uint32(y))<<32|uint64(uint32(x))))
}
