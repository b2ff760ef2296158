// Package world holds the loaded maps together with their resolved layouts
// and applies edits that preview sessions make to them.
package world

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"shoreline/internal/assets"
	"shoreline/internal/maps"
	"shoreline/internal/retile"
)

type entry struct {
	m *maps.Map
	l *retile.Layout
}

// World wraps multiple Maps and keeps each one's Layout current.
type World struct {
	cat        *assets.Catalog
	opts       retile.Options
	defaultMap string

	mu      sync.RWMutex
	names   []string
	entries map[string]*entry

	subMu   sync.Mutex
	subs    map[int]chan string
	nextSub int
}

// New resolves every map against the catalog. defaultMap selects the map
// new sessions start on; empty means the first map by name.
func New(ctx context.Context, allMaps map[string]*maps.Map, cat *assets.Catalog, opts retile.Options, defaultMap string) (*World, error) {
	if len(allMaps) == 0 {
		return nil, fmt.Errorf("world needs at least one map")
	}

	names := make([]string, 0, len(allMaps))
	for name := range allMaps {
		names = append(names, name)
	}
	sort.Strings(names)

	if defaultMap == "" {
		defaultMap = names[0]
	}
	if _, ok := allMaps[defaultMap]; !ok {
		return nil, fmt.Errorf("default map %q not found", defaultMap)
	}

	entries := make(map[string]*entry, len(allMaps))
	layouts := make([]*retile.Layout, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			l, err := retile.Run(gctx, allMaps[name], cat, opts)
			if err != nil {
				return fmt.Errorf("map %q: %w", name, err)
			}
			layouts[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, name := range names {
		entries[name] = &entry{m: allMaps[name], l: layouts[i]}
	}

	slog.Info("world ready", "maps", len(names), "default", defaultMap)
	return &World{
		cat:        cat,
		opts:       opts,
		defaultMap: defaultMap,
		names:      names,
		entries:    entries,
		subs:       make(map[int]chan string),
	}, nil
}

// Names returns the map names in sorted order.
func (w *World) Names() []string {
	out := make([]string, len(w.names))
	copy(out, w.names)
	return out
}

// DefaultMap returns the name of the map new sessions start on.
func (w *World) DefaultMap() string {
	return w.defaultMap
}

// Next returns the map after name in sorted order, wrapping around.
func (w *World) Next(name string) string {
	i := sort.SearchStrings(w.names, name)
	if i >= len(w.names) || w.names[i] != name {
		return w.defaultMap
	}
	return w.names[(i+1)%len(w.names)]
}

// Index returns the position of name among Names, or -1.
func (w *World) Index(name string) int {
	i := sort.SearchStrings(w.names, name)
	if i < len(w.names) && w.names[i] == name {
		return i
	}
	return -1
}

// View calls fn with the named map and its layout while holding a read
// lock. fn must not retain either value. It reports whether the map exists.
func (w *World) View(name string, fn func(m *maps.Map, l *retile.Layout)) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entries[name]
	if !ok {
		return false
	}
	fn(e.m, e.l)
	return true
}

// Toggle flips the tile at (x,y) between water and land, using the first
// legend entry of the other kind, and retiles its neighborhood. It returns
// the new placement of the tile.
func (w *World) Toggle(ctx context.Context, name string, x, y int) (retile.Placement, error) {
	w.mu.Lock()
	p, err := w.toggle(ctx, name, x, y)
	w.mu.Unlock()
	if err != nil {
		return retile.Placement{}, err
	}

	slog.Info("tile toggled", "map", name, "x", x, "y", y, "water", p.Water, "sprite", p.Sprite)
	w.publish(name)
	return p, nil
}

func (w *World) toggle(ctx context.Context, name string, x, y int) (retile.Placement, error) {
	e, ok := w.entries[name]
	if !ok {
		return retile.Placement{}, fmt.Errorf("unknown map %q", name)
	}
	if !e.m.InBounds(x, y) {
		return retile.Placement{}, fmt.Errorf("tile (%d,%d) out of bounds", x, y)
	}

	old := e.m.Tiles[y][x]
	idx := e.m.FirstLegend(!e.m.TileAt(x, y).Water)
	if idx < 0 {
		return retile.Placement{}, fmt.Errorf("map %q has no legend entry to toggle to", name)
	}
	if err := e.m.SetTile(x, y, idx); err != nil {
		return retile.Placement{}, err
	}

	area := image.Rect(x, y, x+1, y+1)
	if err := retile.Retile(ctx, e.l, e.m, w.cat, w.opts, area); err != nil {
		// Restore the map and the layout cells the failed pass touched.
		e.m.Tiles[y][x] = old
		if rerr := retile.Retile(context.WithoutCancel(ctx), e.l, e.m, w.cat, w.opts, area); rerr != nil {
			slog.Error("restoring layout failed", "map", name, "err", rerr)
		}
		return retile.Placement{}, err
	}
	return e.l.At(x, y), nil
}

// Subscribe returns a channel that receives the name of every map that
// changes, and a function that ends the subscription. Notifications are
// dropped while the channel is full.
func (w *World) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 1)

	w.subMu.Lock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = ch
	w.subMu.Unlock()

	return ch, func() {
		w.subMu.Lock()
		delete(w.subs, id)
		w.subMu.Unlock()
	}
}

func (w *World) publish(name string) {
	w.subMu.Lock()
	defer w.subMu.Unlock()
	for _, ch := range w.subs {
		select {
		case ch <- name:
		default:
		}
	}
}
