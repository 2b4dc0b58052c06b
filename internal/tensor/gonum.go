package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ToDense copies a rank-2 tensor into a gonum matrix.
func (t *Tensor) ToDense() (*mat.Dense, error) {
	if len(t.shape) != 2 {
		return nil, fmt.Errorf("to dense: rank %d, want 2: %w", len(t.shape), ErrUnsupportedRank)
	}
	if t.shape[0] == 0 || t.shape[1] == 0 {
		return nil, fmt.Errorf("to dense: gonum matrices cannot be empty, shape %v: %w", []int(t.shape), ErrShape)
	}
	return mat.NewDense(t.shape[0], t.shape[1], t.Data()), nil
}

// FromDense copies any gonum matrix into a new rank-2 tensor.
func FromDense(m mat.Matrix) *Tensor {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return &Tensor{shape: Shape{r, c}, data: data}
}
