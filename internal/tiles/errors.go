package tiles

import (
	"errors"
	"fmt"
)

// ErrDegraded matches any *DegradedError with errors.Is.
var ErrDegraded = errors.New("classification degraded")

// DegradedError reports diagonal data that contradicts the orthogonal mask.
// It is not fatal: the classifier has already fallen back to the orthogonal
// shape.
type DegradedError struct {
	Mask          ExtendedMask
	Contradictory CornerSet
}

func (e *DegradedError) Error() string {
	return fmt.Sprintf("classification degraded: land corners %s touch land sides in mask %s",
		e.Contradictory, e.Mask.Orthogonal())
}

func (e *DegradedError) Is(target error) bool {
	return target == ErrDegraded
}
