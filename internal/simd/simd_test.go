package simd

import (
	"testing"
)

func TestVecAdd(t *testing.T) {
	dst := []float64{1, 2, 3, 4, 5}
	src := []float64{10, 20, 30, 40, 50}
	expected := []float64{11, 22, 33, 44, 55}

	VecAdd(dst, src)

	for i, v := range dst {
		if v != expected[i] {
			t.Errorf("VecAdd(%d) = %f, want %f", i, v, expected[i])
		}
	}
}

func TestVecMul(t *testing.T) {
	dst := []float64{1, 2, 3, 4, 5, -6}
	src := []float64{2, 3, 4, 5, 6, 0.5}
	expected := []float64{2, 6, 12, 20, 30, -3}

	VecMul(dst, src)

	for i, v := range dst {
		if v != expected[i] {
			t.Errorf("VecMul(%d) = %f, want %f", i, v, expected[i])
		}
	}
}

func TestVecScale(t *testing.T) {
	dst := []float64{1, -2, 3, 4, 5}
	expected := []float64{0.5, -1, 1.5, 2, 2.5}

	VecScale(dst, 0.5)

	for i, v := range dst {
		if v != expected[i] {
			t.Errorf("VecScale(%d) = %f, want %f", i, v, expected[i])
		}
	}
}

func TestDotProduct(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 3, 4, 5, 6}
	// 2 + 6 + 12 + 20 + 30 = 70
	expected := 70.0

	result := DotProduct(a, b)

	if result != expected {
		t.Errorf("DotProduct = %f, want %f", result, expected)
	}
}

func TestDotProduct_Empty(t *testing.T) {
	if got := DotProduct(nil, nil); got != 0 {
		t.Errorf("DotProduct(nil, nil) = %f, want 0", got)
	}
}

func TestMatVecMul(t *testing.T) {
	// 2x3 matrix
	mat := []float64{
		1, 2, 3,
		4, 5, 6,
	}
	vec := []float64{1, 2, 3}
	dst := make([]float64, 2)

	// Row 0: 1*1 + 2*2 + 3*3 = 1+4+9 = 14
	// Row 1: 4*1 + 5*2 + 6*3 = 4+10+18 = 32
	expected := []float64{14, 32}

	MatVecMul(dst, mat, vec, 2, 3)

	for i, v := range dst {
		if v != expected[i] {
			t.Errorf("MatVecMul(%d) = %f, want %f", i, v, expected[i])
		}
	}
}

// Benchmarks

func BenchmarkDotProduct(b *testing.B) {
	size := 128
	v1 := make([]float64, size)
	v2 := make([]float64, size)
	for i := range v1 {
		v1[i] = float64(i)
		v2[i] = float64(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DotProduct(v1, v2)
	}
}

func BenchmarkVecAdd(b *testing.B) {
	size := 128
	v1 := make([]float64, size)
	v2 := make([]float64, size)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		VecAdd(v1, v2)
	}
}

func BenchmarkVecMul(b *testing.B) {
	size := 128
	v1 := make([]float64, size)
	v2 := make([]float64, size)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		VecMul(v1, v2)
	}
}
