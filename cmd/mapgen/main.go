package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"shoreline/internal/maps"
)

// Legend indices written by the generator.
const (
	tGrass  = 0
	tWater  = 1
	tSand   = 2
	tRock   = 3
	tForest = 4
)

var legend = []maps.TileDef{
	tGrass:  {Char: '.', Fg: 32, Name: "grass", Asset: "grass"},
	tWater:  {Char: '~', Fg: 34, Name: "water", Water: true, Asset: "lake"},
	tSand:   {Char: ':', Fg: 33, Name: "sand", Asset: "sand"},
	tRock:   {Char: '^', Fg: 90, Name: "rock", Asset: "rock"},
	tForest: {Char: 'T', Fg: 32, Name: "forest", Asset: "forest"},
}

// params controls one generator run.
type params struct {
	kind      string // lakes or islands
	width     int
	height    int
	seed      int64
	level     float64 // elevation below which tiles are water
	minRegion int     // water or land regions smaller than this are flipped
}

func main() {
	genType := flag.String("type", "", "generator type (lakes, islands)")
	seed := flag.Int64("seed", 0, "random seed (0 = random)")
	size := flag.String("size", "80x40", "map size as WxH")
	name := flag.String("name", "", "map name (default: derived from type)")
	level := flag.Float64("water", 0.38, "water level in [0,1]")
	minRegion := flag.Int("min-region", 2, "flip water or land regions smaller than this")
	out := flag.String("out", "", "output file (default: stdout)")
	flag.Parse()

	if *genType == "" {
		fmt.Fprintln(os.Stderr, "Error: -type is required")
		fmt.Fprintln(os.Stderr, "Usage: mapgen -type lakes|islands [-seed N] [-size WxH] [-water L] [-name Name] [-out file.json]")
		os.Exit(1)
	}

	w, h, err := parseSize(*size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if *name == "" {
		*name = strings.ToUpper((*genType)[:1]) + (*genType)[1:]
	}

	p := params{kind: *genType, width: w, height: h, seed: *seed, level: *level, minRegion: *minRegion}
	fmt.Fprintf(os.Stderr, "Generating %dx%d %s map %q (seed %d)...\n", w, h, p.kind, *name, p.seed)

	m, err := generate(*name, p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Spawn: (%d, %d)\n", m.SpawnX, m.SpawnY)

	data, err := m.Encode()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding map: %v\n", err)
		os.Exit(1)
	}

	if *out == "" {
		os.Stdout.Write(data)
		os.Stdout.WriteString("\n")
	} else {
		if err := os.WriteFile(*out, append(data, '\n'), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", *out, len(data))
	}

	// Print tile distribution summary
	counts := make([]int, len(legend))
	for _, row := range m.Tiles {
		for _, idx := range row {
			counts[idx]++
		}
	}
	total := w * h
	fmt.Fprintf(os.Stderr, "\nTile distribution:\n")
	for i, td := range legend {
		if counts[i] > 0 {
			fmt.Fprintf(os.Stderr, "  %-10s %5d (%5.1f%%)\n", td.Name, counts[i], float64(counts[i])/float64(total)*100)
		}
	}
}

func parseSize(s string) (int, int, error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q (expected WxH)", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil || w < 10 {
		return 0, 0, fmt.Errorf("invalid width %q (minimum 10)", parts[0])
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil || h < 10 {
		return 0, 0, fmt.Errorf("invalid height %q (minimum 10)", parts[1])
	}
	return w, h, nil
}

// generate builds a map of the requested kind.
func generate(name string, p params) (*maps.Map, error) {
	if p.level < 0 || p.level > 1 {
		return nil, fmt.Errorf("water level %.2f outside [0,1]", p.level)
	}

	var falloff float64
	switch p.kind {
	case "lakes":
	case "islands":
		falloff = 1.2
	default:
		return nil, fmt.Errorf("unknown generator type %q (available: lakes, islands)", p.kind)
	}

	elevation := newSimplex(uint64(p.seed))
	moisture := newSimplex(uint64(p.seed) + 1)

	tiles := make([][]int, p.height)
	for y := 0; y < p.height; y++ {
		tiles[y] = make([]int, p.width)
		for x := 0; x < p.width; x++ {
			fx, fy := float64(x), float64(y)
			elev := elevation.fractal(fx, fy, 0.06, 4)
			if falloff > 0 {
				dx := (fx - float64(p.width)/2) / (float64(p.width) / 2)
				dy := (fy - float64(p.height)/2) / (float64(p.height) / 2)
				elev += 0.15 - falloff*(dx*dx+dy*dy)
			}
			tiles[y][x] = classifyTile(elev, moisture.fractal(fx, fy, 0.08, 3), p.level)
		}
	}

	flipped := flipSmallRegions(tiles, p.width, p.height, p.minRegion)
	if flipped > 0 {
		fmt.Fprintf(os.Stderr, "Cleanup: flipped %d tiles in small regions\n", flipped)
	}

	m := &maps.Map{
		Name:   name,
		Width:  p.width,
		Height: p.height,
		Tiles:  tiles,
		Legend: append([]maps.TileDef(nil), legend...),
	}
	m.SpawnX, m.SpawnY = findSpawn(m)
	return m, nil
}

func classifyTile(elev, moist, level float64) int {
	switch {
	case elev < level:
		return tWater
	case elev < level+0.04:
		return tSand
	case elev > 0.75:
		return tRock
	case moist > 0.6:
		return tForest
	default:
		return tGrass
	}
}

func isWater(tile int) bool {
	return tile == tWater
}

type point struct{ x, y int }

// floodFill returns the 4-connected region of tiles that share (sx, sy)'s
// water flag.
func floodFill(tiles [][]int, w, h, sx, sy int, seen [][]bool) []point {
	water := isWater(tiles[sy][sx])
	region := []point{{sx, sy}}
	seen[sy][sx] = true

	for i := 0; i < len(region); i++ {
		p := region[i]
		for _, d := range [][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			nx, ny := p.x+d[0], p.y+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			if seen[ny][nx] || isWater(tiles[ny][nx]) != water {
				continue
			}
			seen[ny][nx] = true
			region = append(region, point{nx, ny})
		}
	}
	return region
}

// flipSmallRegions turns water regions smaller than minSize into grass and
// land regions smaller than minSize into water. Returns the tiles changed.
func flipSmallRegions(tiles [][]int, w, h, minSize int) int {
	seen := make([][]bool, h)
	for y := range seen {
		seen[y] = make([]bool, w)
	}

	var small [][]point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if seen[y][x] {
				continue
			}
			if region := floodFill(tiles, w, h, x, y, seen); len(region) < minSize {
				small = append(small, region)
			}
		}
	}

	flipped := 0
	for _, region := range small {
		for _, p := range region {
			if isWater(tiles[p.y][p.x]) {
				tiles[p.y][p.x] = tGrass
			} else {
				tiles[p.y][p.x] = tWater
			}
			flipped++
		}
	}
	return flipped
}

// findSpawn searches outward from the center for a land tile.
func findSpawn(m *maps.Map) (int, int) {
	cx, cy := m.Width/2, m.Height/2
	maxR := max(m.Width, m.Height) / 2
	for r := 0; r <= maxR; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if abs(dx) != r && abs(dy) != r {
					continue // only check the ring perimeter
				}
				x, y := cx+dx, cy+dy
				if m.InBounds(x, y) && !m.TileAt(x, y).Water {
					return x, y
				}
			}
		}
	}
	return cx, cy
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
