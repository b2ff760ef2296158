package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"shoreline/internal/tiles"
)

// yamlCatalog is the on-disk catalog format.
type yamlCatalog struct {
	Terrain    []yamlTerrain   `yaml:"terrain"`
	Water      []yamlWater     `yaml:"water"`
	Structures []yamlStructure `yaml:"structures"`
}

type yamlSprites struct {
	Sprites []string `yaml:"sprites"`
	Weights []int    `yaml:"weights,omitempty"`
}

type yamlTerrain struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	yamlSprites `yaml:",inline"`
}

type yamlWater struct {
	ID                string      `yaml:"id"`
	Name              string      `yaml:"name"`
	Full              yamlSprites `yaml:"full"`
	InnerCorner       yamlSprites `yaml:"inner_corner"`
	DoubleInnerCorner yamlSprites `yaml:"double_inner_corner"`
	OuterCorner       yamlSprites `yaml:"outer_corner"`
	Edge              yamlSprites `yaml:"edge"`
	Isthmus           yamlSprites `yaml:"isthmus"`
	Peninsula         yamlSprites `yaml:"peninsula"`
	Pond              yamlSprites `yaml:"pond"`
}

func (w *yamlWater) byCategory() map[tiles.Category]yamlSprites {
	return map[tiles.Category]yamlSprites{
		tiles.Full:              w.Full,
		tiles.InnerCorner:       w.InnerCorner,
		tiles.DoubleInnerCorner: w.DoubleInnerCorner,
		tiles.OuterCorner:       w.OuterCorner,
		tiles.Edge:              w.Edge,
		tiles.Isthmus:           w.Isthmus,
		tiles.Peninsula:         w.Peninsula,
		tiles.Pond:              w.Pond,
	}
}

type yamlStructure struct {
	ID    string        `yaml:"id"`
	Name  string        `yaml:"name"`
	Build *Buildable    `yaml:"build,omitempty"`
	Price *Purchaseable `yaml:"purchase,omitempty"`
}

// ParseCatalog decodes and validates one catalog document. source names the
// document in error messages.
func ParseCatalog(data []byte, source string) (*Catalog, error) {
	var yc yamlCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&yc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse catalog %s: %w", source, err)
	}

	cat := NewCatalog()

	for _, yt := range yc.Terrain {
		if yt.ID == "" {
			return nil, &ConfigurationError{Source: source, Reason: "terrain record without id"}
		}
		vs, err := NewVariantSet(yt.Sprites, yt.Weights)
		if err != nil {
			return nil, annotate(err, source, yt.ID, "sprites")
		}
		if err := cat.addTerrain(TerrainType{ID: yt.ID, Name: nameOr(yt.Name, yt.ID), Variants: vs}); err != nil {
			return nil, annotate(err, source, yt.ID, "")
		}
	}

	for i := range yc.Water {
		yw := &yc.Water[i]
		if yw.ID == "" {
			return nil, &ConfigurationError{Source: source, Reason: "water record without id"}
		}
		sets := make(map[tiles.Category]VariantSet, tiles.CategoryCount)
		byCat := yw.byCategory()
		for _, c := range tiles.Categories() {
			ys := byCat[c]
			vs, err := NewVariantSet(ys.Sprites, ys.Weights)
			if err != nil {
				return nil, annotate(err, source, yw.ID, c.String())
			}
			sets[c] = vs
		}
		wt, err := NewWaterType(yw.ID, nameOr(yw.Name, yw.ID), sets)
		if err != nil {
			return nil, annotate(err, source, yw.ID, "")
		}
		if err := cat.addWater(wt); err != nil {
			return nil, annotate(err, source, yw.ID, "")
		}
	}

	for _, ys := range yc.Structures {
		if ys.ID == "" {
			return nil, &ConfigurationError{Source: source, Reason: "structure record without id"}
		}
		st := StructureType{ID: ys.ID, Name: nameOr(ys.Name, ys.ID), Build: ys.Build, Price: ys.Price}
		if err := st.Validate(); err != nil {
			return nil, annotate(err, source, ys.ID, "")
		}
		if err := cat.addStructure(st); err != nil {
			return nil, annotate(err, source, ys.ID, "")
		}
	}

	return cat, nil
}

// LoadCatalog reads one YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseCatalog(data, filepath.Base(path))
}

// LoadCatalogDir loads every *.yaml / *.yml file in dir into one catalog.
// Ids must be unique across files.
func LoadCatalogDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog directory: %w", err)
	}

	all := NewCatalog()
	files := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		cat, err := LoadCatalog(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		if err := all.Merge(cat); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, annotate(err, name, "", ""))
		}
		files++
	}

	slog.Info("loaded asset catalog",
		"dir", dir,
		"files", files,
		"terrain", len(all.terrain),
		"water", len(all.water),
		"structures", len(all.structures))
	return all, nil
}

func nameOr(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
