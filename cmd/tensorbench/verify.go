package main

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
	"gonum.org/v1/gonum/floats"

	"github.com/23skdu/longbow-tensor/internal/tensor"
)

// verifyTolerance bounds the difference allowed between kernels that only
// differ in floating point summation order.
const verifyTolerance = 1e-9

// VerifyResult compares one kernel against the naive reference for one size.
type VerifyResult struct {
	Size       int
	Kernel     string
	MaxAbsDiff float64
	OK         bool
}

func (r VerifyResult) String() string {
	status := "ok"
	if !r.OK {
		status = "MISMATCH"
	}
	return fmt.Sprintf("size=%d kernel=%s max_abs_diff=%g %s", r.Size, r.Kernel, r.MaxAbsDiff, status)
}

// runVerify checks every configured block size, and gonum, against the naive
// kernel for every size. Cases run concurrently on shared operands, bounded
// by cfg.Parallel.
func runVerify(ctx context.Context, cfg Config, src *operandSource) ([]VerifyResult, error) {
	ctx, span := tracer.Start(ctx, "verify")
	defer span.End()

	type job struct {
		size   int
		kernel string
		run    func(a, b *tensor.Tensor) (*tensor.Tensor, error)
	}
	var jobs []job
	for _, size := range cfg.Sizes {
		for _, bs := range cfg.BlockSizes {
			jobs = append(jobs, job{size, fmt.Sprintf("blocked-%d", bs), func(a, b *tensor.Tensor) (*tensor.Tensor, error) {
				return a.MatMulBlocked(b, bs)
			}})
		}
		jobs = append(jobs, job{size, "gonum", gonumMatMul})
	}

	sem := semaphore.NewWeighted(int64(cfg.Parallel))
	results := make([]VerifyResult, len(jobs))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for i, j := range jobs {
		if err := sem.Acquire(ctx, 1); err != nil {
			setErr(err)
			break
		}
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			defer sem.Release(1)

			_, caseSpan := tracer.Start(ctx, "verify.case", trace.WithAttributes(
				attribute.Int("size", j.size),
				attribute.String("kernel", j.kernel),
			))
			defer caseSpan.End()

			res, err := verifyCase(src, cfg.Batch, j.size, j.kernel, j.run)
			if err != nil {
				caseSpan.RecordError(err)
				setErr(fmt.Errorf("size %d kernel %s: %w", j.size, j.kernel, err))
				return
			}
			results[i] = res
		}(i, j)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func verifyCase(src *operandSource, batch, size int, kernel string, run func(a, b *tensor.Tensor) (*tensor.Tensor, error)) (VerifyResult, error) {
	a, b, err := src.pair(size, batch)
	if err != nil {
		return VerifyResult{}, err
	}
	want, err := src.reference(size, batch)
	if err != nil {
		return VerifyResult{}, err
	}
	got, err := run(a, b)
	if err != nil {
		return VerifyResult{}, err
	}
	if !tensor.Shape(got.Dims()).Equal(want.Dims()) {
		return VerifyResult{}, fmt.Errorf("result shape %v, want %v", got.Dims(), want.Dims())
	}

	diff := 0.0
	if got.Size() > 0 {
		diff = floats.Distance(got.Data(), want.Data(), math.Inf(1))
	}
	res := VerifyResult{
		Size:       size,
		Kernel:     kernel,
		MaxAbsDiff: diff,
		OK:         got.ApproxEqual(want, verifyTolerance),
	}
	log.Debug().Int("size", size).Str("kernel", kernel).Float64("max_abs_diff", diff).Bool("ok", res.OK).Msg("Verified case")
	return res, nil
}
