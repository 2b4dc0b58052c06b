package main

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/23skdu/longbow-tensor/internal/tensor"
)

// gonumOperands flattens a batched left operand to (B*M, K), which gives the
// same product because the right matrix is shared by every batch element.
func gonumOperands(a, b *tensor.Tensor) (*mat.Dense, *mat.Dense, error) {
	dims := a.Dims()
	if len(dims) == 3 {
		flat, err := a.Reshape([]int{dims[0] * dims[1], dims[2]})
		if err != nil {
			return nil, nil, err
		}
		a = flat
	}
	da, err := a.ToDense()
	if err != nil {
		return nil, nil, fmt.Errorf("lhs: %w", err)
	}
	db, err := b.ToDense()
	if err != nil {
		return nil, nil, fmt.Errorf("rhs: %w", err)
	}
	return da, db, nil
}

// gonumMatMul computes a*b with gonum and returns it shaped like the tensor
// result of a.MatMul(b).
func gonumMatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	da, db, err := gonumOperands(a, b)
	if err != nil {
		return nil, err
	}
	var c mat.Dense
	c.Mul(da, db)

	out := tensor.FromDense(&c)
	if dims := a.Dims(); len(dims) == 3 {
		return out.Reshape([]int{dims[0], dims[1], b.Dims()[1]})
	}
	return out, nil
}
