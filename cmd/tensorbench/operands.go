package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/23skdu/longbow-tensor/internal/cache"
	"github.com/23skdu/longbow-tensor/internal/tensor"
)

// operandSource hands out deterministic random tensors, generated once per
// role and shape and shared by every case that needs them.
type operandSource struct {
	seed  uint64
	cache *cache.MapCache
	refs  singleflight.Group
}

func newOperandSource(seed uint64) *operandSource {
	return &operandSource{seed: seed, cache: cache.NewMapCache()}
}

// random returns a tensor with entries uniform in [-1, 1). The same role and
// dims always produce the same values for a given seed.
func (s *operandSource) random(role string, dims ...int) (*tensor.Tensor, error) {
	key := fmt.Sprintf("%s%v", role, dims)
	return s.cache.GetOrCreate(key, func() (*tensor.Tensor, error) {
		rng := rand.New(rand.NewPCG(s.seed, xxhash.Sum64String(key)))
		n, err := tensor.Shape(dims).NumElements()
		if err != nil {
			return nil, err
		}
		values := make([]float64, n)
		for i := range values {
			values[i] = rng.Float64()*2 - 1
		}
		return tensor.FromData(dims, values)
	})
}

// pair returns the left and right operands for a square-ish case of the given
// edge. The contraction dimension is edge+1 so every tile boundary is crossed
// with a ragged last block. A positive batch makes the left operand rank 3.
func (s *operandSource) pair(edge, batch int) (*tensor.Tensor, *tensor.Tensor, error) {
	var a *tensor.Tensor
	var err error
	if batch > 0 {
		a, err = s.random("lhs", batch, edge, edge+1)
	} else {
		a, err = s.random("lhs", edge, edge+1)
	}
	if err != nil {
		return nil, nil, err
	}
	b, err := s.random("rhs", edge+1, edge)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// reference returns the naive product of pair(edge, batch). It is computed
// once and shared by every kernel checked against it; concurrent first callers
// wait on a single computation.
func (s *operandSource) reference(edge, batch int) (*tensor.Tensor, error) {
	key := fmt.Sprintf("ref%d/%d", edge, batch)
	if t, ok := s.cache.Get(key); ok {
		return t, nil
	}
	v, err, _ := s.refs.Do(key, func() (any, error) {
		return s.cache.GetOrCreate(key, func() (*tensor.Tensor, error) {
			a, b, err := s.pair(edge, batch)
			if err != nil {
				return nil, err
			}
			return a.MatMulNaive(b)
		})
	})
	if err != nil {
		return nil, err
	}
	return v.(*tensor.Tensor), nil
}
