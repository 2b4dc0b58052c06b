package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/mat"
)

var benchGFLOPS = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "tensorbench_gflops",
	Help: "Best observed throughput of the last benchmark run in GFLOP/s",
}, []string{"kernel", "size"})

// BenchResult holds timings for one kernel on one size.
type BenchResult struct {
	Size   int
	Kernel string
	Best   time.Duration
	Mean   time.Duration
	GFLOPS float64
}

type benchKernel struct {
	name string
	run  func() error
}

// runBench times the blocked kernel for every configured block size, the
// naive kernel and gonum's Dense.Mul on the same operands.
func runBench(ctx context.Context, cfg Config, src *operandSource) ([]BenchResult, error) {
	ctx, span := tracer.Start(ctx, "bench")
	defer span.End()

	var results []BenchResult
	for _, size := range cfg.Sizes {
		a, b, err := src.pair(size, cfg.Batch)
		if err != nil {
			return nil, err
		}
		flops := 2 * float64(max(cfg.Batch, 1)) * float64(size) * float64(size) * float64(size+1)

		kernels := make([]benchKernel, 0, len(cfg.BlockSizes)+2)
		for _, bs := range cfg.BlockSizes {
			kernels = append(kernels, benchKernel{fmt.Sprintf("blocked-%d", bs), func() error {
				_, err := a.MatMulBlocked(b, bs)
				return err
			}})
		}
		kernels = append(kernels, benchKernel{"naive", func() error {
			_, err := a.MatMulNaive(b)
			return err
		}})

		da, db, err := gonumOperands(a, b)
		if err != nil {
			return nil, err
		}
		kernels = append(kernels, benchKernel{"gonum", func() error {
			var c mat.Dense
			c.Mul(da, db)
			return nil
		}})

		for _, k := range kernels {
			res, err := timeKernel(ctx, size, k.name, cfg.Iterations, flops, k.run)
			if err != nil {
				return nil, err
			}
			results = append(results, res)
		}
	}
	return results, nil
}

func timeKernel(ctx context.Context, size int, name string, iterations int, flops float64, run func() error) (BenchResult, error) {
	_, span := tracer.Start(ctx, "bench.kernel", trace.WithAttributes(
		attribute.Int("size", size),
		attribute.String("kernel", name),
	))
	defer span.End()

	var total, best time.Duration
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return BenchResult{}, err
		}
		start := time.Now()
		if err := run(); err != nil {
			span.RecordError(err)
			return BenchResult{}, fmt.Errorf("kernel %s size %d: %w", name, size, err)
		}
		elapsed := time.Since(start)
		total += elapsed
		if i == 0 || elapsed < best {
			best = elapsed
		}
	}

	res := BenchResult{
		Size:   size,
		Kernel: name,
		Best:   best,
		Mean:   total / time.Duration(iterations),
	}
	if best > 0 {
		res.GFLOPS = flops / best.Seconds() / 1e9
	}
	benchGFLOPS.WithLabelValues(name, fmt.Sprint(size)).Set(res.GFLOPS)
	span.SetAttributes(attribute.Float64("gflops", res.GFLOPS))

	log.Info().
		Int("size", size).
		Str("kernel", name).
		Dur("best", res.Best).
		Dur("mean", res.Mean).
		Float64("gflops", res.GFLOPS).
		Msg("Benchmark")
	return res, nil
}
