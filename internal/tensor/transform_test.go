package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReshape(t *testing.T) {
	x := mustFromData(t, []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})

	for _, shape := range [][]int{{6}, {3, 2}, {1, 6}, {2, 1, 3}, {6, 1, 1}} {
		y, err := x.Reshape(shape)
		require.NoError(t, err)
		assert.Equal(t, shape, y.Dims())
		assert.Equal(t, x.Data(), y.Data(), "reshape must keep flat order")
	}

	_, err := x.Reshape([]int{4, 2})
	assert.ErrorIs(t, err, ErrShape)

	_, err = x.Reshape([]int{-2, -3})
	assert.ErrorIs(t, err, ErrShape)

	assert.Equal(t, []int{2, 3}, x.Dims(), "receiver must be untouched")
}

func TestTranspose_Matrix(t *testing.T) {
	x := mustFromData(t, []int{2, 3}, []float64{
		1, 2, 3,
		4, 5, 6,
	})

	y, err := x.Transpose()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, y.Dims())
	assert.Equal(t, []float64{
		1, 4,
		2, 5,
		3, 6,
	}, y.Data())

	z, err := y.Transpose()
	require.NoError(t, err)
	assert.True(t, x.Equal(z), "transpose must be self-inverse")
}

func TestTranspose_Batched(t *testing.T) {
	x := mustFromData(t, []int{2, 2, 3}, []float64{
		1, 2, 3,
		4, 5, 6,

		7, 8, 9,
		10, 11, 12,
	})

	y, err := x.Transpose()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 2}, y.Dims())
	assert.Equal(t, []float64{
		1, 4,
		2, 5,
		3, 6,

		7, 10,
		8, 11,
		9, 12,
	}, y.Data())

	z, err := y.Transpose()
	require.NoError(t, err)
	assert.True(t, x.Equal(z))
}

func TestTranspose_UnsupportedRank(t *testing.T) {
	for _, dims := range [][]int{{}, {4}, {1, 2, 3, 4}} {
		x, err := New(dims)
		require.NoError(t, err)

		_, err = x.Transpose()
		assert.ErrorIs(t, err, ErrUnsupportedRank, "dims %v", dims)
	}
}
