package main

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-tensor/internal/tensor"
)

func TestRunVerify(t *testing.T) {
	cfg := validConfig()
	cfg.BlockSizes = []int{1, 7, tensor.DefaultBlockSize}

	results, err := runVerify(context.Background(), cfg, newOperandSource(cfg.Seed))
	require.NoError(t, err)

	// every block size plus gonum, per size
	assert.Len(t, results, len(cfg.Sizes)*(len(cfg.BlockSizes)+1))
	for _, r := range results {
		assert.True(t, r.OK, r.String())
		assert.Less(t, r.MaxAbsDiff, verifyTolerance)
	}
}

func TestRunVerify_Batched(t *testing.T) {
	cfg := validConfig()
	cfg.Batch = 3

	results, err := runVerify(context.Background(), cfg, newOperandSource(cfg.Seed))
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.OK, r.String())
	}
}

func TestRunVerify_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runVerify(ctx, validConfig(), newOperandSource(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOperandSource_Deterministic(t *testing.T) {
	a1, b1, err := newOperandSource(9).pair(5, 2)
	require.NoError(t, err)
	a2, b2, err := newOperandSource(9).pair(5, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 5, 6}, a1.Dims())
	assert.Equal(t, []int{6, 5}, b1.Dims())
	assert.True(t, a1.Equal(a2))
	assert.True(t, b1.Equal(b2))

	c, _, err := newOperandSource(10).pair(5, 2)
	require.NoError(t, err)
	assert.False(t, a1.Equal(c), "different seeds should differ")
}

func TestOperandSource_ReferenceShared(t *testing.T) {
	src := newOperandSource(3)

	const callers = 8
	refs := make([]*tensor.Tensor, callers)
	var wg sync.WaitGroup
	for i := range refs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref, err := src.reference(7, 2)
			assert.NoError(t, err)
			refs[i] = ref
		}()
	}
	wg.Wait()

	require.NotNil(t, refs[0])
	for _, ref := range refs[1:] {
		assert.Same(t, refs[0], ref)
	}

	a, b, err := src.pair(7, 2)
	require.NoError(t, err)
	want, err := a.MatMulNaive(b)
	require.NoError(t, err)
	assert.True(t, refs[0].Equal(want))

	// lhs, rhs and one reference
	assert.Equal(t, 3, src.cache.Size())
}

func TestGonumMatMul_Shapes(t *testing.T) {
	a, err := tensor.Ones([]int{2, 3, 4})
	require.NoError(t, err)
	b, err := tensor.Ones([]int{4, 5})
	require.NoError(t, err)

	got, err := gonumMatMul(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 5}, got.Dims())
	for _, v := range got.Data() {
		assert.Equal(t, 4.0, v)
	}
}
