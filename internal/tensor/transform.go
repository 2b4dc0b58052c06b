package tensor

import "fmt"

// Reshape returns a copy of t viewed under newShape. The flat data order is
// unchanged, so the element counts must agree.
func (t *Tensor) Reshape(newShape []int) (*Tensor, error) {
	shape := Shape(newShape).Clone()
	n, err := shape.NumElements()
	if err != nil {
		observeErr("reshape")
		return nil, fmt.Errorf("reshape: %w", err)
	}
	if n != len(t.data) {
		observeErr("reshape")
		return nil, fmt.Errorf("reshape: %v has %d elements, %v has %d: %w",
			[]int(t.shape), len(t.data), newShape, n, ErrShape)
	}
	out := t.clone()
	out.shape = shape
	observeOp("reshape")
	return out, nil
}

// Transpose swaps the two axes of a matrix, or the trailing two axes of each
// matrix in a rank-3 batch.
func (t *Tensor) Transpose() (*Tensor, error) {
	switch len(t.shape) {
	case 2:
		rows, cols := t.shape[0], t.shape[1]
		out, err := newTensor([]int{cols, rows})
		if err != nil {
			return nil, err
		}
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				if err := out.copyElem(t, []int{j, i}, []int{i, j}); err != nil {
					return nil, fmt.Errorf("transpose: %w", err)
				}
			}
		}
		observeOp("transpose")
		return out, nil
	case 3:
		batch, rows, cols := t.shape[0], t.shape[1], t.shape[2]
		out, err := newTensor([]int{batch, cols, rows})
		if err != nil {
			return nil, err
		}
		for b := 0; b < batch; b++ {
			for i := 0; i < rows; i++ {
				for j := 0; j < cols; j++ {
					if err := out.copyElem(t, []int{b, j, i}, []int{b, i, j}); err != nil {
						return nil, fmt.Errorf("transpose: %w", err)
					}
				}
			}
		}
		observeOp("transpose")
		return out, nil
	default:
		observeErr("transpose")
		return nil, fmt.Errorf("transpose: rank %d, want 2 or 3: %w", len(t.shape), ErrUnsupportedRank)
	}
}

// copyElem writes src[from] into t[to], resolving both sides through index.
func (t *Tensor) copyElem(src *Tensor, to, from []int) error {
	dst, err := t.index(to)
	if err != nil {
		return err
	}
	off, err := src.index(from)
	if err != nil {
		return err
	}
	t.data[dst] = src.data[off]
	return nil
}
