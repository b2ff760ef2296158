package assets

import (
	"fmt"
	"math"
)

// Rand is the random source used to pick sprite variants.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// VariantSet is an ordered pool of interchangeable sprites with optional
// selection weights. Without weights the first sprite is always used.
//
// A VariantSet is immutable once built; NewVariantSet copies its inputs.
type VariantSet struct {
	sprites []string
	weights []int
	total   int
}

// NewVariantSet validates and builds a variant set. Weights, when present,
// must match sprites one to one, be non-negative, and not all be zero.
func NewVariantSet(sprites []string, weights []int) (VariantSet, error) {
	if len(sprites) == 0 {
		return VariantSet{}, &ConfigurationError{Reason: "no sprites"}
	}
	for i, s := range sprites {
		if s == "" {
			return VariantSet{}, &ConfigurationError{Reason: fmt.Sprintf("empty sprite id at index %d", i)}
		}
	}

	vs := VariantSet{sprites: append([]string(nil), sprites...)}
	if len(weights) == 0 {
		return vs, nil
	}

	if len(weights) != len(sprites) {
		return VariantSet{}, &ConfigurationError{
			Reason: fmt.Sprintf("%d weights for %d sprites", len(weights), len(sprites)),
		}
	}

	total := 0
	for i, w := range weights {
		if w < 0 {
			return VariantSet{}, &ConfigurationError{Reason: fmt.Sprintf("negative weight %d at index %d", w, i)}
		}
		if w > math.MaxInt-total {
			return VariantSet{}, &ConfigurationError{Reason: fmt.Sprintf("weights overflow at index %d", i)}
		}
		total += w
	}
	if total == 0 {
		return VariantSet{}, &ConfigurationError{Reason: "all weights are zero"}
	}

	vs.weights = append([]int(nil), weights...)
	vs.total = total
	return vs, nil
}

// Len returns the number of sprites.
func (v VariantSet) Len() int {
	return len(v.sprites)
}

// Sprite returns the sprite id at index i.
func (v VariantSet) Sprite(i int) string {
	return v.sprites[i]
}

// Sprites returns a copy of the sprite ids.
func (v VariantSet) Sprites() []string {
	return append([]string(nil), v.sprites...)
}

// Weights returns a copy of the weights, or nil when the set is unweighted.
func (v VariantSet) Weights() []int {
	if v.weights == nil {
		return nil
	}
	return append([]int(nil), v.weights...)
}

// Weighted reports whether picks are random.
func (v VariantSet) Weighted() bool {
	return v.total > 0
}

// Pick returns a sprite index. Unweighted sets always return 0; weighted
// sets draw one value in [0, total) and walk the cumulative weights, so
// zero-weight sprites are never chosen.
func (v VariantSet) Pick(r Rand) int {
	if v.total == 0 {
		return 0
	}
	n := r.IntN(v.total)
	for i, w := range v.weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(v.weights) - 1
}

// PickSprite returns the sprite id chosen by Pick, or "" for an empty set.
func (v VariantSet) PickSprite(r Rand) string {
	if len(v.sprites) == 0 {
		return ""
	}
	return v.sprites[v.Pick(r)]
}
