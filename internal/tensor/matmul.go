package tensor

import (
	"fmt"
	"time"

	"github.com/23skdu/longbow-tensor/internal/simd"
)

// DefaultBlockSize is the tile edge used by MatMul.
const DefaultBlockSize = 32

// matmulDims describes a validated product: batch copies of (m x k) times (k x n).
// batched is false for a plain rank-2 left operand.
type matmulDims struct {
	batch, m, k, n int
	batched        bool
}

func (d matmulDims) resultShape() []int {
	if d.batched {
		return []int{d.batch, d.m, d.n}
	}
	return []int{d.m, d.n}
}

func (t *Tensor) matmulDims(op string, other *Tensor) (matmulDims, error) {
	if len(other.shape) != 2 {
		observeErr(op)
		return matmulDims{}, fmt.Errorf("%s: right operand has rank %d, want 2: %w", op, len(other.shape), ErrUnsupportedRank)
	}
	var d matmulDims
	switch len(t.shape) {
	case 2:
		d = matmulDims{batch: 1, m: t.shape[0], k: t.shape[1]}
	case 3:
		d = matmulDims{batch: t.shape[0], m: t.shape[1], k: t.shape[2], batched: true}
	default:
		observeErr(op)
		return matmulDims{}, fmt.Errorf("%s: left operand has rank %d, want 2 or 3: %w", op, len(t.shape), ErrUnsupportedRank)
	}
	if d.k != other.shape[0] {
		observeErr(op)
		return matmulDims{}, fmt.Errorf("%s: shapes %v and %v: %w", op, []int(t.shape), []int(other.shape), ErrDimensionMismatch)
	}
	d.n = other.shape[1]
	return d, nil
}

// MatMul multiplies t by the matrix other using DefaultBlockSize tiles.
// t is either an (M, K) matrix or a (B, M, K) batch; other is (K, N) and is
// applied to every batch element. The result is (M, N) or (B, M, N).
func (t *Tensor) MatMul(other *Tensor) (*Tensor, error) {
	return t.MatMulBlocked(other, DefaultBlockSize)
}

// MatMulBlocked is MatMul with an explicit tile edge. Any positive block size
// produces the same product up to floating point summation order.
func (t *Tensor) MatMulBlocked(other *Tensor, blockSize int) (*Tensor, error) {
	if blockSize <= 0 {
		observeErr("matmul")
		return nil, fmt.Errorf("matmul: block size %d: %w", blockSize, ErrInvalidArgument)
	}
	d, err := t.matmulDims("matmul", other)
	if err != nil {
		return nil, err
	}
	out, err := newTensor(d.resultShape())
	if err != nil {
		return nil, fmt.Errorf("matmul: %w", err)
	}

	start := time.Now()
	aStride, cStride := d.m*d.k, d.m*d.n
	for b := 0; b < d.batch; b++ {
		matmulBlocked(
			out.data[b*cStride:(b+1)*cStride],
			t.data[b*aStride:(b+1)*aStride],
			other.data,
			d.m, d.k, d.n, blockSize,
		)
	}
	d.observe("blocked", start)
	observeOp("matmul")
	return out, nil
}

// matmulBlocked accumulates a (m x k) * b (k x n) into c (m x n). c must be
// zeroed by the caller; each output cell receives one partial sum per k-tile.
func matmulBlocked(c, a, b []float64, m, k, n, bs int) {
	for i := 0; i < m; i += bs {
		iEnd := min(i+bs, m)
		for j := 0; j < n; j += bs {
			jEnd := min(j+bs, n)
			for kk := 0; kk < k; kk += bs {
				kEnd := min(kk+bs, k)
				for ib := i; ib < iEnd; ib++ {
					aRow := a[ib*k : ib*k+k]
					cRow := c[ib*n : ib*n+n]
					for jb := j; jb < jEnd; jb++ {
						var sum float64
						for kb := kk; kb < kEnd; kb++ {
							sum += aRow[kb] * b[kb*n+jb]
						}
						cRow[jb] += sum
					}
				}
			}
		}
	}
}

// MatMulNaive computes the same product as MatMul with an untiled loop. It is
// the reference the blocked kernel is verified against.
func (t *Tensor) MatMulNaive(other *Tensor) (*Tensor, error) {
	d, err := t.matmulDims("matmul_naive", other)
	if err != nil {
		return nil, err
	}
	out, err := newTensor(d.resultShape())
	if err != nil {
		return nil, fmt.Errorf("matmul_naive: %w", err)
	}

	start := time.Now()
	col := make([]float64, d.k)
	prod := make([]float64, d.m)
	aStride, cStride := d.m*d.k, d.m*d.n
	for j := 0; j < d.n; j++ {
		for kb := 0; kb < d.k; kb++ {
			col[kb] = other.data[kb*d.n+j]
		}
		for b := 0; b < d.batch; b++ {
			simd.MatVecMul(prod, t.data[b*aStride:(b+1)*aStride], col, d.m, d.k)
			c := out.data[b*cStride : (b+1)*cStride]
			for i, v := range prod {
				c[i*d.n+j] = v
			}
		}
	}
	d.observe("naive", start)
	observeOp("matmul_naive")
	return out, nil
}

func (d matmulDims) observe(kernel string, start time.Time) {
	matmulDuration.WithLabelValues(kernel).Observe(time.Since(start).Seconds())
	matmulFlops.WithLabelValues(kernel).Add(2 * float64(d.batch) * float64(d.m) * float64(d.n) * float64(d.k))
}
