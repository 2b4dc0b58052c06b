package tensor

import (
	"fmt"
	"math"
)

// Shape holds the extent of each axis, outermost first.
type Shape []int

// NumElements returns the product of all extents. An empty shape is a scalar
// and holds a single element. Negative extents and products that overflow int
// are reported as ErrShape.
func (s Shape) NumElements() (int, error) {
	n := 1
	for i, d := range s {
		if d < 0 {
			return 0, fmt.Errorf("axis %d has negative extent %d: %w", i, d, ErrShape)
		}
		if d != 0 && n > math.MaxInt/d {
			return 0, fmt.Errorf("shape %v overflows element count: %w", []int(s), ErrShape)
		}
		n *= d
	}
	return n, nil
}

// Equal reports whether both shapes have the same rank and extents.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that does not share storage with s.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}
