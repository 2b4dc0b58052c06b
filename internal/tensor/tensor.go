// Package tensor implements a dense N-dimensional float64 array with row-major
// storage, elementwise arithmetic, shape transforms and cache-blocked matrix
// multiplication.
//
// Tensors are values: no operation mutates its receiver or arguments, and every
// result owns a freshly allocated buffer. Read-only sharing between goroutines
// is therefore safe.
package tensor

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
)

// Tensor is a dense array with an immutable shape and a flat row-major buffer
// of length shape.NumElements().
type Tensor struct {
	shape Shape
	data  []float64
}

// New returns a zero-filled tensor with the given extents.
func New(dims []int) (*Tensor, error) {
	t, err := newTensor(dims)
	if err != nil {
		observeErr("new")
		return nil, err
	}
	return t, nil
}

func newTensor(dims []int) (*Tensor, error) {
	shape := Shape(dims).Clone()
	n, err := shape.NumElements()
	if err != nil {
		return nil, fmt.Errorf("new tensor: %w", err)
	}
	return &Tensor{shape: shape, data: make([]float64, n)}, nil
}

// NewWithValues returns a zero-filled tensor and then writes val[i] at the
// coordinates idx[i], in order. Later entries overwrite earlier ones that land
// on the same element.
func NewWithValues(dims []int, idx [][]int, val []float64) (*Tensor, error) {
	t, err := newTensor(dims)
	if err != nil {
		observeErr("new_with_values")
		return nil, err
	}
	if len(idx) != len(val) {
		observeErr("new_with_values")
		return nil, fmt.Errorf("new tensor: %d indices for %d values: %w", len(idx), len(val), ErrInvalidArgument)
	}
	for i, coords := range idx {
		off, err := t.index(coords)
		if err != nil {
			observeErr("new_with_values")
			return nil, fmt.Errorf("new tensor: entry %d: %w", i, err)
		}
		t.data[off] = val[i]
	}
	return t, nil
}

// FromData returns a tensor holding a copy of values laid out in row-major
// order.
func FromData(dims []int, values []float64) (*Tensor, error) {
	t, err := newTensor(dims)
	if err != nil {
		observeErr("from_data")
		return nil, err
	}
	if len(values) != len(t.data) {
		observeErr("from_data")
		return nil, fmt.Errorf("new tensor: %d values for shape %v: %w", len(values), dims, ErrShape)
	}
	copy(t.data, values)
	return t, nil
}

// Ones returns a tensor with every element set to 1.
func Ones(dims []int) (*Tensor, error) {
	t, err := newTensor(dims)
	if err != nil {
		observeErr("ones")
		return nil, err
	}
	for i := range t.data {
		t.data[i] = 1
	}
	return t, nil
}

// Index maps per-axis coordinates to an offset into the flat buffer. Axes are
// consumed from the last (fastest varying) to the first.
func (t *Tensor) Index(coords []int) (int, error) {
	off, err := t.index(coords)
	if err != nil {
		observeErr("index")
		return 0, err
	}
	return off, nil
}

// index is Index without the error counter, for callers that count under
// their own op name.
func (t *Tensor) index(coords []int) (int, error) {
	if len(coords) != len(t.shape) {
		return 0, fmt.Errorf("index: %d coordinates for rank %d: %w", len(coords), len(t.shape), ErrDimensionMismatch)
	}
	offset, stride := 0, 1
	for i := len(t.shape) - 1; i >= 0; i-- {
		c := coords[i]
		if c < 0 || c >= t.shape[i] {
			return 0, fmt.Errorf("index: coordinate %d on axis %d with extent %d: %w", c, i, t.shape[i], ErrOutOfBounds)
		}
		offset += c * stride
		stride *= t.shape[i]
	}
	return offset, nil
}

// Coords is the inverse of Index.
func (t *Tensor) Coords(offset int) ([]int, error) {
	if offset < 0 || offset >= len(t.data) {
		observeErr("coords")
		return nil, fmt.Errorf("coords: offset %d for size %d: %w", offset, len(t.data), ErrOutOfBounds)
	}
	coords := make([]int, len(t.shape))
	for i := len(t.shape) - 1; i >= 0; i-- {
		coords[i] = offset % t.shape[i]
		offset /= t.shape[i]
	}
	return coords, nil
}

// At returns the element at the given coordinates.
func (t *Tensor) At(coords ...int) (float64, error) {
	off, err := t.index(coords)
	if err != nil {
		observeErr("at")
		return 0, err
	}
	return t.data[off], nil
}

// Dims returns a copy of the shape.
func (t *Tensor) Dims() []int {
	return t.shape.Clone()
}

// Data returns a copy of the flat row-major buffer.
func (t *Tensor) Data() []float64 {
	out := make([]float64, len(t.data))
	copy(out, t.data)
	return out
}

// Rank returns the number of axes.
func (t *Tensor) Rank() int { return len(t.shape) }

// Size returns the number of elements.
func (t *Tensor) Size() int { return len(t.data) }

// Equal reports whether both tensors have the same shape and identical data.
func (t *Tensor) Equal(other *Tensor) bool {
	return t.shape.Equal(other.shape) && floats.Equal(t.data, other.data)
}

// ApproxEqual reports whether both tensors have the same shape and every pair
// of elements is within tol, absolutely or relatively.
func (t *Tensor) ApproxEqual(other *Tensor, tol float64) bool {
	return t.shape.Equal(other.shape) && floats.EqualApprox(t.data, other.data, tol)
}

// Print writes every element in storage order, one per line.
func (t *Tensor) Print(w io.Writer) error {
	for _, v := range t.data {
		if _, err := fmt.Fprintf(w, "%f\n", v); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v", []int(t.shape))
}
