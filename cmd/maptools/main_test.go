package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoreline/internal/tiles"
)

func TestClassifyArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     tiles.Category
		land     tiles.CornerSet
		degraded bool
	}{
		{"orthogonal only", []string{"NESW"}, tiles.Full, 0, false},
		{"all corners water", []string{"NESW", "ne,se,sw,nw"}, tiles.Full, 0, false},
		{"water corners leave the rest land", []string{"NESW", "ne,sw"}, tiles.DoubleInnerCorner,
			tiles.NorthWest.Bit() | tiles.SouthEast.Bit(), false},
		{"one land corner", []string{"NESW", "ne,se,sw"}, tiles.InnerCorner, tiles.NorthWest.Bit(), false},
		{"land corner beside land side", []string{"ESW", "se,sw,nw"}, tiles.Edge, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask, s, err := classifyArgs(tt.args)
			if tt.degraded {
				assert.ErrorIs(t, err, tiles.ErrDegraded)
			} else {
				require.NoError(t, err)
			}
			assert.NotNil(t, mask)
			assert.Equal(t, tt.want, s.Category)
			assert.Equal(t, tt.land, s.Corners)
		})
	}
}

func TestClassifyArgsInvalid(t *testing.T) {
	_, _, err := classifyArgs([]string{"NXS"})
	assert.Error(t, err)

	_, _, err = classifyArgs([]string{"NESW", "north"})
	assert.Error(t, err)
}
