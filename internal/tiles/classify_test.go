package tiles

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyOrthogonal(t *testing.T) {
	tests := []struct {
		name string
		mask NeighborMask
		want Shape
	}{
		{"all water", AllWater, Shape{Category: Full}},
		{"land to N", MaskE | MaskS | MaskW, Shape{Category: Edge, Rotation: 0}},
		{"land to E", MaskN | MaskS | MaskW, Shape{Category: Edge, Rotation: 1}},
		{"land to S", MaskN | MaskE | MaskW, Shape{Category: Edge, Rotation: 2}},
		{"land to W", MaskN | MaskE | MaskS, Shape{Category: Edge, Rotation: 3}},
		{"water N+E", MaskN | MaskE, Shape{Category: OuterCorner, Rotation: 0}},
		{"water E+S", MaskE | MaskS, Shape{Category: OuterCorner, Rotation: 1}},
		{"water S+W", MaskS | MaskW, Shape{Category: OuterCorner, Rotation: 2}},
		{"water W+N", MaskW | MaskN, Shape{Category: OuterCorner, Rotation: 3}},
		{"water N+S", MaskN | MaskS, Shape{Category: Isthmus, Rotation: 0}},
		{"water E+W", MaskE | MaskW, Shape{Category: Isthmus, Rotation: 1}},
		{"water N only", MaskN, Shape{Category: Peninsula, Rotation: 0}},
		{"water E only", MaskE, Shape{Category: Peninsula, Rotation: 1}},
		{"water S only", MaskS, Shape{Category: Peninsula, Rotation: 2}},
		{"water W only", MaskW, Shape{Category: Peninsula, Rotation: 3}},
		{"all land", 0, Shape{Category: Pond}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.mask))
		})
	}
}

func TestClassifyCountDeterminesCategory(t *testing.T) {
	byCount := map[int][]Category{
		4: {Full},
		3: {Edge},
		2: {OuterCorner, Isthmus},
		1: {Peninsula},
		0: {Pond},
	}

	for m := NeighborMask(0); m <= AllWater; m++ {
		got := Classify(m)
		assert.Contains(t, byCount[m.Count()], got.Category, "mask %s", m)
		assert.NotEqual(t, InnerCorner, got.Category)
		assert.NotEqual(t, DoubleInnerCorner, got.Category)
		assert.Equal(t, m, got.Mask(), "shape %s should map back to its mask", got)
	}
}

func TestClassifyRotationInvariance(t *testing.T) {
	for m := NeighborMask(0); m <= AllWater; m++ {
		before := Classify(m)
		after := Classify(m.Rotate())

		require.Equal(t, before.Category, after.Category, "mask %s", m)
		switch before.Category {
		case Full, Pond:
			assert.Zero(t, after.Rotation)
		default:
			sym := before.Category.Symmetry()
			assert.Equal(t, (before.Rotation+1)%sym, after.Rotation, "mask %s", m)
		}
	}
}

func TestClassifyScenarios(t *testing.T) {
	edge := Classify(MaskOf(true, true, true, false))
	assert.Equal(t, Edge, edge.Category)
	assert.Equal(t, int(West), edge.Rotation)

	isthmus := Classify(MaskOf(true, false, true, false))
	assert.Equal(t, Isthmus, isthmus.Category)
	assert.Equal(t, 0, isthmus.Rotation)

	assert.Equal(t, Pond, Classify(MaskOf(false, false, false, false)).Category)

	inner, err := ClassifyExtended(ExtendedOf(AllWater, allCorners&^NorthEast.Bit()))
	require.NoError(t, err)
	assert.Equal(t, InnerCorner, inner.Category)
	assert.Equal(t, NorthEast.Bit(), inner.Corners)
	assert.Equal(t, int(NorthEast), inner.Rotation)
}

func TestClassifyExtended(t *testing.T) {
	land := func(cs ...Corner) ExtendedMask {
		water := allCorners
		for _, c := range cs {
			water &^= c.Bit()
		}
		return ExtendedOf(AllWater, water)
	}

	tests := []struct {
		name string
		mask ExtendedMask
		want Shape
	}{
		{"no land corners", FullyWater, Shape{Category: Full}},
		{"NE land", land(NorthEast), Shape{Category: InnerCorner, Rotation: 0, Corners: NorthEast.Bit()}},
		{"SE land", land(SouthEast), Shape{Category: InnerCorner, Rotation: 1, Corners: SouthEast.Bit()}},
		{"SW land", land(SouthWest), Shape{Category: InnerCorner, Rotation: 2, Corners: SouthWest.Bit()}},
		{"NW land", land(NorthWest), Shape{Category: InnerCorner, Rotation: 3, Corners: NorthWest.Bit()}},
		{"NE+SW land", land(NorthEast, SouthWest), Shape{Category: DoubleInnerCorner, Rotation: 0, Corners: NorthEast.Bit() | SouthWest.Bit()}},
		{"SE+NW land", land(SouthEast, NorthWest), Shape{Category: DoubleInnerCorner, Rotation: 1, Corners: SouthEast.Bit() | NorthWest.Bit()}},
		{"NW+NE land", land(NorthWest, NorthEast), Shape{Category: InnerCorner, Rotation: 3, Corners: NorthWest.Bit() | NorthEast.Bit()}},
		{"NE+SE+SW land", land(NorthEast, SouthEast, SouthWest), Shape{Category: InnerCorner, Rotation: 0, Corners: NorthEast.Bit() | SouthEast.Bit() | SouthWest.Bit()}},
		{"all corners land", ExtendedOf(AllWater, 0), Shape{Category: InnerCorner, Rotation: 0, Corners: allCorners}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyExtended(tt.mask)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyExtendedKeepsOrthogonalCategory(t *testing.T) {
	// Land to N, SE corner land: both flanks (E, S) are water.
	mask := ExtendedOf(MaskE|MaskS|MaskW, allCorners&^SouthEast.Bit())

	got, err := ClassifyExtended(mask)
	require.NoError(t, err)
	assert.Equal(t, Edge, got.Category)
	assert.Equal(t, 0, got.Rotation)
	assert.Equal(t, SouthEast.Bit(), got.Corners)
}

func TestClassifyExtendedDegraded(t *testing.T) {
	// Land to N, NE corner land: NE touches the land side.
	mask := ExtendedOf(MaskE|MaskS|MaskW, allCorners&^NorthEast.Bit())

	got, err := ClassifyExtended(mask)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegraded))

	var de *DegradedError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, NorthEast.Bit(), de.Contradictory)

	assert.Equal(t, Classify(mask.Orthogonal()), got, "falls back to the orthogonal shape")
	assert.Zero(t, got.Corners)
}

func TestClassifyExtendedTotal(t *testing.T) {
	for i := 0; i < 256; i++ {
		e := ExtendedMask(i)
		got, err := ClassifyExtended(e)
		assert.Less(t, int(got.Category), CategoryCount)
		assert.GreaterOrEqual(t, got.Rotation, 0)
		assert.Less(t, got.Rotation, 4)
		if err != nil {
			assert.ErrorIs(t, err, ErrDegraded)
			assert.Equal(t, Classify(e.Orthogonal()), got)
		}
	}
}

func TestClassifyExtendedRotationInvariance(t *testing.T) {
	for i := 0; i < 256; i++ {
		e := ExtendedMask(i)
		before, errBefore := ClassifyExtended(e)
		after, errAfter := ClassifyExtended(e.Rotate())

		require.Equal(t, errBefore == nil, errAfter == nil, "mask %s", e)
		require.Equal(t, before.Category, after.Category, "mask %s", e)
		assert.Equal(t, before.Corners.Rotate(), after.Corners, "mask %s", e)

		if before.Category == Full || before.Category == Pond || before.Corners.Len() == 4 {
			assert.Zero(t, after.Rotation)
			continue
		}
		sym := before.Category.Symmetry()
		assert.Equal(t, (before.Rotation+1)%sym, after.Rotation, "mask %s", e)
	}
}
