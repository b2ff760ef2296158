package tiles

// Classify returns the shape of a water tile from its orthogonal neighbors.
// It never reports InnerCorner or DoubleInnerCorner; those need diagonals.
func Classify(m NeighborMask) Shape {
	m &= AllWater

	switch m.Count() {
	case 4:
		return Shape{Category: Full}

	case 3:
		// One land side; rotate to it.
		for d := North; d <= West; d++ {
			if !m.Water(d) {
				return Shape{Category: Edge, Rotation: int(d)}
			}
		}

	case 2:
		for d := North; d <= West; d++ {
			if m.Water(d) && m.Water(d.Next()) {
				return Shape{Category: OuterCorner, Rotation: int(d)}
			}
		}
		// Opposite pair.
		if m.Water(North) {
			return Shape{Category: Isthmus, Rotation: 0}
		}
		return Shape{Category: Isthmus, Rotation: 1}

	case 1:
		for d := North; d <= West; d++ {
			if m.Water(d) {
				return Shape{Category: Peninsula, Rotation: int(d)}
			}
		}
	}

	return Shape{Category: Pond}
}

// ClassifyExtended classifies a water tile using orthogonal and diagonal
// neighbors.
//
// A diagonal land corner only counts when both sides flanking it are water.
// A land corner next to a land side contradicts the orthogonal data: the
// orthogonal classification is returned together with a *DegradedError.
// The returned Shape is valid even when err is non-nil.
func ClassifyExtended(e ExtendedMask) (Shape, error) {
	orth := e.Orthogonal()
	shape := Classify(orth)

	land := e.LandCorners()
	if land == 0 {
		return shape, nil
	}

	var bad CornerSet
	for _, c := range land.Corners() {
		a, b := c.Flanks()
		if !orth.Water(a) || !orth.Water(b) {
			bad |= c.Bit()
		}
	}
	if bad != 0 {
		return shape, &DegradedError{Mask: e, Contradictory: bad}
	}

	shape.Corners = land
	if shape.Category != Full {
		return shape, nil
	}

	switch {
	case land.Len() == 1:
		shape.Category = InnerCorner
		shape.Rotation = int(land.Corners()[0])
	case land == NorthEast.Bit()|SouthWest.Bit():
		shape.Category = DoubleInnerCorner
		shape.Rotation = 0
	case land == SouthEast.Bit()|NorthWest.Bit():
		shape.Category = DoubleInnerCorner
		shape.Rotation = 1
	default:
		// Adjacent pairs, triples and all four: composited from single
		// inner corners, anchored at the start of the clockwise run.
		shape.Category = InnerCorner
		shape.Rotation = int(runStart(land))
	}
	return shape, nil
}

// runStart returns the first corner of the clockwise run of corners in s.
// s must not be an opposite pair. A full set starts at NE.
func runStart(s CornerSet) Corner {
	if s.Len() == 4 {
		return NorthEast
	}
	for c := NorthEast; c <= NorthWest; c++ {
		prev := (c + 3) % 4
		if s.Has(c) && !s.Has(prev) {
			return c
		}
	}
	return NorthEast
}
