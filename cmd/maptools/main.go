package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"shoreline/internal/assets"
	"shoreline/internal/config"
	"shoreline/internal/maps"
	"shoreline/internal/render"
	"shoreline/internal/retile"
	"shoreline/internal/tiles"
)

func main() {
	configPath := flag.String("config", "shoreline.yaml", "path to config file")
	flag.Usage = printUsage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.SetupLogging()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	switch cmd {
	case "validate":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: maptools validate <catalog-dir> <maps-dir>")
			os.Exit(1)
		}
		os.Exit(runValidate(cfg, args[0], args[1]))
	case "viz":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: maptools viz <map-file>")
			os.Exit(1)
		}
		exitOnError(runViz(cfg, args[0]))
	case "stats":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: maptools stats <map-file>")
			os.Exit(1)
		}
		exitOnError(runStats(cfg, args[0]))
	case "png":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: maptools png <map-file> <out.png>")
			os.Exit(1)
		}
		exitOnError(runPNG(cfg, args[0], args[1]))
	case "classify":
		if len(args) < 1 || len(args) > 2 {
			fmt.Fprintln(os.Stderr, "Usage: maptools classify <water-sides> [water-corners]")
			os.Exit(1)
		}
		exitOnError(runClassify(args))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: maptools [-config file] <command> <args>

Commands:
  validate <catalog-dir> <maps-dir>    Check maps against the asset catalog
  viz      <map-file>                  Render the retiled map as colored glyphs
  stats    <map-file>                  Show shape and terrain distribution
  png      <map-file> <out.png>        Export the retiled map as a PNG
  classify <water-sides> [water-corners]
                                       Classify a mask, e.g. "NES", or "NESW ne,sw"
                                       (water corners ne,sw; nw and se are land)`)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// load reads a map and resolves it against the configured catalog.
func load(cfg config.Config, path string) (*maps.Map, *retile.Layout, error) {
	cat, err := assets.LoadCatalogDir(cfg.CatalogDir)
	if err != nil {
		return nil, nil, err
	}
	m, err := maps.LoadMap(path)
	if err != nil {
		return nil, nil, err
	}
	l, err := retile.Run(context.Background(), m, cat, cfg.RetileOptions())
	if err != nil {
		return nil, nil, err
	}
	return m, l, nil
}

// --- validate ---

func runValidate(cfg config.Config, catalogDir, mapsDir string) int {
	cat, err := assets.LoadCatalogDir(catalogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		var ce *assets.ConfigurationError
		if errors.As(err, &ce) && ce.Source != "" {
			fmt.Fprintf(os.Stderr, "  in %s\n", ce.Source)
		}
		return 1
	}
	fmt.Printf("Catalog: %s\n", cat)

	allMaps, err := maps.LoadMaps(mapsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}

	names := make([]string, 0, len(allMaps))
	for name := range allMaps {
		names = append(names, name)
	}
	sort.Strings(names)

	failures := 0
	for _, name := range names {
		m := allMaps[name]
		fmt.Printf("Validating %q...\n", name)

		if !m.InBounds(m.SpawnX, m.SpawnY) {
			fmt.Printf("  ERROR: spawn (%d,%d) is out of bounds\n", m.SpawnX, m.SpawnY)
			failures++
			continue
		}
		if err := retile.Check(m, cat); err != nil {
			fmt.Printf("  ERROR: %v\n", err)
			failures++
			continue
		}
		l, err := retile.Run(context.Background(), m, cat, cfg.RetileOptions())
		if err != nil {
			fmt.Printf("  ERROR: %v\n", err)
			failures++
			continue
		}
		if n := l.Degraded(); n > 0 {
			fmt.Printf("  WARN: %d degraded classifications\n", n)
		}
		st := l.Stats()
		fmt.Printf("  OK (%dx%d, %d water, %d land)\n", m.Width, m.Height, st.WaterTiles, st.LandTiles)
	}

	if failures > 0 {
		fmt.Printf("\n%d error(s) found\n", failures)
		return 1
	}
	fmt.Printf("\nAll %d maps valid\n", len(allMaps))
	return 0
}

// --- viz ---

func runViz(cfg config.Config, path string) error {
	m, l, err := load(cfg, path)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%dx%d)\n", m.Name, m.Width, m.Height)
	fmt.Print(render.Plain(l, m))
	fmt.Printf("\nSpawn: (%d,%d)\n", m.SpawnX, m.SpawnY)
	return nil
}

// --- stats ---

func runStats(cfg config.Config, path string) error {
	m, l, err := load(cfg, path)
	if err != nil {
		return err
	}
	total := m.Width * m.Height
	st := l.Stats()

	fmt.Printf("%s (%dx%d = %d tiles)\n\n", m.Name, m.Width, m.Height, total)

	fmt.Println("Water shapes:")
	for _, c := range tiles.Categories() {
		if n := st.Water[c]; n > 0 {
			printBar(c.String(), n, total)
		}
	}

	fmt.Println("\nTerrain:")
	type entry struct {
		name  string
		count int
	}
	var sorted []entry
	for name, count := range st.Land {
		sorted = append(sorted, entry{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].name < sorted[j].name
	})
	for _, e := range sorted {
		printBar(e.name, e.count, total)
	}

	fmt.Printf("\nWater: %d/%d (%.1f%%)\n", st.WaterTiles, total, float64(st.WaterTiles)/float64(total)*100)
	fmt.Printf("Degraded: %d\n", l.Degraded())
	return nil
}

func printBar(name string, count, total int) {
	pct := float64(count) / float64(total) * 100
	bar := strings.Repeat("█", int(pct/2))
	fmt.Printf("  %-20s %5d (%5.1f%%) %s\n", name, count, pct, bar)
}

// --- png ---

func runPNG(cfg config.Config, path, out string) error {
	m, l, err := load(cfg, path)
	if err != nil {
		return err
	}
	if err := render.SavePNG(out, l, m, cfg.Preview.PNGCell); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%dx%d px)\n", out, m.Width*cfg.Preview.PNGCell, m.Height*cfg.Preview.PNGCell)
	return nil
}

// --- classify ---

func runClassify(args []string) error {
	mask, s, err := classifyArgs(args)
	if err != nil && !errors.Is(err, tiles.ErrDegraded) {
		return err
	}
	glyph := render.ShapeGlyph(s)
	fmt.Printf("%s -> %s %q\n", mask, s, string(glyph[:]))
	if err != nil {
		fmt.Printf("warning: %v\n", err)
	}
	return nil
}

// classifyArgs classifies water sides and an optional list of water corners.
// Corners left out of the list are land. Without a corner list only the
// orthogonal mask is used. A degraded classification returns the fallback
// shape together with the error.
func classifyArgs(args []string) (fmt.Stringer, tiles.Shape, error) {
	orth, err := tiles.ParseMask(args[0])
	if err != nil {
		return nil, tiles.Shape{}, err
	}
	if len(args) == 1 {
		return orth, tiles.Classify(orth), nil
	}

	corners, err := tiles.ParseCorners(args[1])
	if err != nil {
		return nil, tiles.Shape{}, err
	}
	em := tiles.ExtendedOf(orth, corners)
	s, err := tiles.ClassifyExtended(em)
	return em, s, err
}
