package tensor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// opsTotal counts successful operations by name
	opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tensor_ops_total",
		Help: "Total number of tensor operations that produced a result",
	}, []string{"op"})

	opErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tensor_op_errors_total",
		Help: "Total number of tensor operations rejected on invalid input",
	}, []string{"op"})

	matmulDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tensor_matmul_duration_seconds",
		Help:    "Time spent in matrix multiplication kernels",
		Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"kernel"})

	matmulFlops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tensor_matmul_flops_total",
		Help: "Floating point operations performed by matmul (2*B*M*N*K)",
	}, []string{"kernel"})
)

func observeOp(op string) {
	opsTotal.WithLabelValues(op).Inc()
}

func observeErr(op string) {
	opErrors.WithLabelValues(op).Inc()
}
