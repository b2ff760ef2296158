// Package assets holds the read-only terrain, water and structure records the
// world is drawn with.
package assets

import (
	"fmt"
	"sort"

	"shoreline/internal/tiles"
)

// TerrainType is a land tile asset with one sprite pool.
type TerrainType struct {
	ID       string
	Name     string // localization key
	Variants VariantSet
}

// Sprite picks a sprite id for one tile.
func (t TerrainType) Sprite(r Rand) string {
	return t.Variants.PickSprite(r)
}

// WaterType is a water tile asset with one sprite pool per shape category.
type WaterType struct {
	ID   string
	Name string // localization key
	sets [tiles.CategoryCount]VariantSet
}

// NewWaterType builds a water type. Every category needs a non-empty set.
func NewWaterType(id, name string, sets map[tiles.Category]VariantSet) (WaterType, error) {
	wt := WaterType{ID: id, Name: name}
	for _, c := range tiles.Categories() {
		vs, ok := sets[c]
		if !ok || vs.Len() == 0 {
			return WaterType{}, &ConfigurationError{Asset: id, Field: c.String(), Reason: "no sprites"}
		}
		wt.sets[c] = vs
	}
	return wt, nil
}

// Set returns the sprite pool for a category.
func (w WaterType) Set(c tiles.Category) VariantSet {
	if int(c) >= tiles.CategoryCount {
		return VariantSet{}
	}
	return w.sets[c]
}

// Sprite picks a sprite id for a tile of the given shape.
func (w WaterType) Sprite(s tiles.Shape, r Rand) string {
	return w.Set(s.Category).PickSprite(r)
}

// Catalog indexes loaded assets by id. It is never modified after loading
// and its accessors return copies, so it can be shared between goroutines.
type Catalog struct {
	terrain    map[string]TerrainType
	water      map[string]WaterType
	structures map[string]StructureType
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		terrain:    make(map[string]TerrainType),
		water:      make(map[string]WaterType),
		structures: make(map[string]StructureType),
	}
}

// Terrain looks up a terrain type.
func (c *Catalog) Terrain(id string) (TerrainType, bool) {
	t, ok := c.terrain[id]
	return t, ok
}

// Water looks up a water type.
func (c *Catalog) Water(id string) (WaterType, bool) {
	w, ok := c.water[id]
	return w, ok
}

// Structure looks up a structure type.
func (c *Catalog) Structure(id string) (StructureType, bool) {
	s, ok := c.structures[id]
	if !ok {
		return StructureType{}, false
	}
	return s.clone(), true
}

// TerrainIDs returns the terrain ids in sorted order.
func (c *Catalog) TerrainIDs() []string {
	return sortedKeys(c.terrain)
}

// WaterIDs returns the water ids in sorted order.
func (c *Catalog) WaterIDs() []string {
	return sortedKeys(c.water)
}

// StructureIDs returns the structure ids in sorted order.
func (c *Catalog) StructureIDs() []string {
	return sortedKeys(c.structures)
}

// Len returns the total number of records.
func (c *Catalog) Len() int {
	return len(c.terrain) + len(c.water) + len(c.structures)
}

// Has reports whether id names any terrain or water type.
func (c *Catalog) Has(id string) bool {
	_, t := c.terrain[id]
	_, w := c.water[id]
	return t || w
}

// ids share one namespace across kinds so a map legend can refer to either.
func (c *Catalog) taken(id string) bool {
	_, s := c.structures[id]
	return c.Has(id) || s
}

func (c *Catalog) addTerrain(t TerrainType) error {
	if c.taken(t.ID) {
		return &ConfigurationError{Asset: t.ID, Reason: "duplicate id"}
	}
	c.terrain[t.ID] = t
	return nil
}

func (c *Catalog) addWater(w WaterType) error {
	if c.taken(w.ID) {
		return &ConfigurationError{Asset: w.ID, Reason: "duplicate id"}
	}
	c.water[w.ID] = w
	return nil
}

func (c *Catalog) addStructure(s StructureType) error {
	if c.taken(s.ID) {
		return &ConfigurationError{Asset: s.ID, Reason: "duplicate id"}
	}
	c.structures[s.ID] = s.clone()
	return nil
}

// Merge adds every record of other to c. Ids must not collide.
func (c *Catalog) Merge(other *Catalog) error {
	for _, id := range other.TerrainIDs() {
		if err := c.addTerrain(other.terrain[id]); err != nil {
			return err
		}
	}
	for _, id := range other.WaterIDs() {
		if err := c.addWater(other.water[id]); err != nil {
			return err
		}
	}
	for _, id := range other.StructureIDs() {
		if err := c.addStructure(other.structures[id]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) String() string {
	return fmt.Sprintf("catalog(%d terrain, %d water, %d structures)",
		len(c.terrain), len(c.water), len(c.structures))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
