package tensor

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDenseRoundTrip(t *testing.T) {
	x := mustFromData(t, []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})

	d, err := x.ToDense()
	require.NoError(t, err)
	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 6.0, d.At(1, 2))

	// The dense copy must not alias the tensor.
	d.Set(0, 0, 100)
	assert.Equal(t, 1.0, x.Data()[0])

	back := FromDense(d.T())
	assert.Equal(t, []int{3, 2}, back.Dims())
	assert.Equal(t, []float64{100, 4, 2, 5, 3, 6}, back.Data())
}

func TestToDense_Errors(t *testing.T) {
	v, err := New([]int{4})
	require.NoError(t, err)
	_, err = v.ToDense()
	assert.ErrorIs(t, err, ErrUnsupportedRank)

	empty, err := New([]int{0, 3})
	require.NoError(t, err)
	_, err = empty.ToDense()
	assert.ErrorIs(t, err, ErrShape)
}

func TestMatMul_MatchesGonum(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	edge := DefaultBlockSize + 1

	a := randomTensor(t, rng, edge, 2*edge)
	b := randomTensor(t, rng, 2*edge, edge-2)

	got, err := a.MatMul(b)
	require.NoError(t, err)

	da, err := a.ToDense()
	require.NoError(t, err)
	db, err := b.ToDense()
	require.NoError(t, err)
	var want mat.Dense
	want.Mul(da, db)

	assert.True(t, got.ApproxEqual(FromDense(&want), 1e-10))
}
