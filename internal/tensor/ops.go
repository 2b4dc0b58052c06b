package tensor

import (
	"fmt"
	"math"

	"github.com/23skdu/longbow-tensor/internal/simd"
)

// clone returns a tensor with a copy of t's shape and data.
func (t *Tensor) clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return &Tensor{shape: t.shape.Clone(), data: data}
}

// mapUnary applies f to every element of a copy of t.
func (t *Tensor) mapUnary(op string, f func(float64) float64) *Tensor {
	out := t.clone()
	for i, v := range out.data {
		out.data[i] = f(v)
	}
	observeOp(op)
	return out
}

// sameShape checks the precondition shared by all binary elementwise ops.
func (t *Tensor) sameShape(op string, other *Tensor) error {
	if !t.shape.Equal(other.shape) {
		observeErr(op)
		return fmt.Errorf("%s: shapes %v and %v: %w", op, []int(t.shape), []int(other.shape), ErrShape)
	}
	return nil
}

// Neg returns -t.
func (t *Tensor) Neg() *Tensor {
	return t.mapUnary("neg", func(v float64) float64 { return -v })
}

// Reciprocal returns 1/x per element. Zeros map to signed infinities.
func (t *Tensor) Reciprocal() *Tensor {
	return t.mapUnary("reciprocal", func(v float64) float64 { return 1 / v })
}

// Add returns t + other. Shapes must match exactly.
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	if err := t.sameShape("add", other); err != nil {
		return nil, err
	}
	out := t.clone()
	simd.VecAdd(out.data, other.data)
	observeOp("add")
	return out, nil
}

// Subtract returns t + (-other).
func (t *Tensor) Subtract(other *Tensor) (*Tensor, error) {
	if err := t.sameShape("subtract", other); err != nil {
		return nil, err
	}
	out, err := t.Add(other.Neg())
	if err != nil {
		return nil, err
	}
	observeOp("subtract")
	return out, nil
}

// Mult scales every element by x.
func (t *Tensor) Mult(x float64) *Tensor {
	out := t.clone()
	simd.VecScale(out.data, x)
	observeOp("mult")
	return out
}

// ElementwiseMult returns the Hadamard product of t and other.
func (t *Tensor) ElementwiseMult(other *Tensor) (*Tensor, error) {
	if err := t.sameShape("elementwise_mult", other); err != nil {
		return nil, err
	}
	out := t.clone()
	simd.VecMul(out.data, other.data)
	observeOp("elementwise_mult")
	return out, nil
}

// Pow raises every element to the power x.
func (t *Tensor) Pow(x float64) *Tensor {
	return t.mapUnary("pow", func(v float64) float64 { return math.Pow(v, x) })
}

// Relu returns max(x, 0) per element.
func (t *Tensor) Relu() *Tensor {
	return t.mapUnary("relu", func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Binarilize maps strictly positive elements to 1 and everything else to 0.
func (t *Tensor) Binarilize() *Tensor {
	return t.mapUnary("binarilize", func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	})
}

// Exp returns e^x per element.
func (t *Tensor) Exp() *Tensor {
	return t.mapUnary("exp", math.Exp)
}
