package maps

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// colorNames maps color names from JSON to ANSI codes.
var colorNames = map[string]int{
	"black":          30,
	"red":            31,
	"green":          32,
	"yellow":         33,
	"blue":           34,
	"magenta":        35,
	"cyan":           36,
	"white":          37,
	"gray":           90,
	"grey":           90,
	"bright_red":     91,
	"bright_green":   92,
	"bright_yellow":  93,
	"bright_blue":    94,
	"bright_magenta": 95,
	"bright_cyan":    96,
	"bright_white":   97,
}

func resolveColor(name string) int {
	if code, ok := colorNames[name]; ok {
		return code
	}
	return 37
}

// TileDef defines how a legend entry looks and which asset draws it.
type TileDef struct {
	Char  rune
	Fg    int
	Bg    int
	Name  string
	Water bool
	Asset string // catalog id of the terrain or water type
}

// Map represents a loaded tile map.
type Map struct {
	Name   string
	Width  int
	Height int
	SpawnX int
	SpawnY int
	Tiles  [][]int   // [y][x] tile indices
	Legend []TileDef // index → tile definition
}

// Spawn is the point the preview camera starts at.
type Spawn struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// jsonMap is the on-disk JSON format.
type jsonMap struct {
	Name   string              `json:"name"`
	Width  int                 `json:"width"`
	Height int                 `json:"height"`
	Spawn  *Spawn              `json:"spawn,omitempty"`
	Tiles  [][]int             `json:"tiles"`
	Legend map[string]jsonTile `json:"legend"`
}

type jsonTile struct {
	Char  string `json:"char"`
	Fg    string `json:"fg"`
	Bg    string `json:"bg,omitempty"`
	Name  string `json:"name"`
	Water bool   `json:"water,omitempty"`
	Asset string `json:"asset,omitempty"`
}

// ParseMap decodes a JSON map document.
func ParseMap(data []byte) (*Map, error) {
	var jm jsonMap
	if err := json.Unmarshal(data, &jm); err != nil {
		return nil, fmt.Errorf("parse map JSON: %w", err)
	}

	if jm.Width <= 0 || jm.Height <= 0 {
		return nil, fmt.Errorf("invalid map size %dx%d", jm.Width, jm.Height)
	}

	// Build legend array — find max index
	maxIdx := -1
	for k := range jm.Legend {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid legend key %q", k)
		}
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	legend := make([]TileDef, maxIdx+1)
	defined := make([]bool, maxIdx+1)
	for k, jt := range jm.Legend {
		idx, _ := strconv.Atoi(k)
		ch := '?'
		if r := []rune(jt.Char); len(r) > 0 {
			ch = r[0]
		}
		asset := jt.Asset
		if asset == "" {
			asset = jt.Name
		}
		legend[idx] = TileDef{
			Char:  ch,
			Fg:    resolveColor(jt.Fg),
			Bg:    resolveColor(jt.Bg),
			Name:  jt.Name,
			Water: jt.Water,
			Asset: asset,
		}
		defined[idx] = true
	}

	// Validate tile dimensions
	if len(jm.Tiles) != jm.Height {
		return nil, fmt.Errorf("tile rows %d != declared height %d", len(jm.Tiles), jm.Height)
	}
	for y, row := range jm.Tiles {
		if len(row) != jm.Width {
			return nil, fmt.Errorf("row %d has %d tiles, expected %d", y, len(row), jm.Width)
		}
		for x, idx := range row {
			if idx < 0 || idx >= len(legend) || !defined[idx] {
				return nil, fmt.Errorf("tile (%d,%d) uses undefined legend index %d", x, y, idx)
			}
		}
	}

	m := &Map{
		Name:   jm.Name,
		Width:  jm.Width,
		Height: jm.Height,
		SpawnX: jm.Width / 2,
		SpawnY: jm.Height / 2,
		Tiles:  jm.Tiles,
		Legend: legend,
	}
	if jm.Spawn != nil {
		m.SpawnX, m.SpawnY = jm.Spawn.X, jm.Spawn.Y
	}
	return m, nil
}

// LoadMap reads a JSON map file from disk.
func LoadMap(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map file: %w", err)
	}
	return ParseMap(data)
}

// Encode returns the JSON form of the map, readable by ParseMap.
func (m *Map) Encode() ([]byte, error) {
	jm := jsonMap{
		Name:   m.Name,
		Width:  m.Width,
		Height: m.Height,
		Spawn:  &Spawn{X: m.SpawnX, Y: m.SpawnY},
		Tiles:  m.Tiles,
		Legend: make(map[string]jsonTile, len(m.Legend)),
	}
	for i, td := range m.Legend {
		jm.Legend[strconv.Itoa(i)] = jsonTile{
			Char:  string(td.Char),
			Fg:    colorName(td.Fg),
			Bg:    colorName(td.Bg),
			Name:  td.Name,
			Water: td.Water,
			Asset: td.Asset,
		}
	}
	return json.MarshalIndent(jm, "", "  ")
}

func colorName(code int) string {
	for name, c := range colorNames {
		// "grey" and "gray" share a code; always emit "gray".
		if c == code && name != "grey" {
			return name
		}
	}
	return "white"
}

// TileAt returns the tile definition at the given coordinates.
// Returns a land "void" tile for out-of-bounds coordinates.
func (m *Map) TileAt(x, y int) TileDef {
	if !m.InBounds(x, y) {
		return TileDef{Char: ' ', Fg: 37, Name: "void"}
	}
	idx := m.Tiles[y][x]
	if idx < 0 || idx >= len(m.Legend) {
		return TileDef{Char: '?', Fg: 37, Name: "unknown"}
	}
	return m.Legend[idx]
}

// InBounds reports whether (x,y) lies on the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// SetTile changes the legend index at (x,y).
func (m *Map) SetTile(x, y, idx int) error {
	if !m.InBounds(x, y) {
		return fmt.Errorf("tile (%d,%d) out of bounds", x, y)
	}
	if idx < 0 || idx >= len(m.Legend) {
		return fmt.Errorf("legend index %d out of range [0..%d]", idx, len(m.Legend)-1)
	}
	m.Tiles[y][x] = idx
	return nil
}

// FirstLegend returns the first legend index whose water flag matches,
// or -1 if there is none.
func (m *Map) FirstLegend(water bool) int {
	for i, td := range m.Legend {
		if td.Water == water && td.Name != "" {
			return i
		}
	}
	return -1
}

// Assets returns the distinct asset ids the legend refers to.
func (m *Map) Assets() []string {
	seen := make(map[string]bool)
	var out []string
	for _, td := range m.Legend {
		if td.Asset == "" || seen[td.Asset] {
			continue
		}
		seen[td.Asset] = true
		out = append(out, td.Asset)
	}
	return out
}

// LoadMaps scans a directory for *.json files, loads each as a Map,
// and returns them indexed by Name.
func LoadMaps(dir string) (map[string]*Map, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read maps directory: %w", err)
	}

	allMaps := make(map[string]*Map)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		m, err := LoadMap(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		if _, exists := allMaps[m.Name]; exists {
			return nil, fmt.Errorf("duplicate map name %q in %s", m.Name, entry.Name())
		}
		allMaps[m.Name] = m
		slog.Debug("map loaded", "name", m.Name, "width", m.Width, "height", m.Height)
	}

	return allMaps, nil
}

// DefaultMap returns a small lake with an island, used when no map files are
// available.
func DefaultMap() *Map {
	rows := []string{
		"....................",
		"....~~~~~~~~~~......",
		"...~~~~~~~~~~~~~~...",
		"..~~~~~....~~~~~~~..",
		"..~~~~..##..~~~~~~..",
		"..~~~~~....~~~.~~~..",
		"...~~~~~~~~~~~.~~...",
		"....~~~~~~~~.~~.....",
		".......~~...........",
		"....................",
	}
	tiles := make([][]int, len(rows))
	for y, row := range rows {
		tiles[y] = make([]int, len(row))
		for x, ch := range row {
			switch ch {
			case '~':
				tiles[y][x] = 1
			case '#':
				tiles[y][x] = 2
			default:
				tiles[y][x] = 0
			}
		}
	}

	return &Map{
		Name:   "Default",
		Width:  len(rows[0]),
		Height: len(rows),
		SpawnX: len(rows[0]) / 2,
		SpawnY: len(rows) / 2,
		Tiles:  tiles,
		Legend: []TileDef{
			{Char: '.', Fg: 32, Bg: 37, Name: "grass", Asset: "grass"},
			{Char: '~', Fg: 34, Bg: 37, Name: "water", Water: true, Asset: "lake"},
			{Char: '#', Fg: 90, Bg: 37, Name: "rock", Asset: "rock"},
		},
	}
}
