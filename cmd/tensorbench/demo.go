package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/23skdu/longbow-tensor/internal/tensor"
)

// runDemo builds a few small products and activations and prints each result
// in storage order.
func runDemo(w io.Writer) error {
	a, err := tensor.NewWithValues([]int{2, 3},
		[][]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}},
		[]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		return err
	}
	ones, err := tensor.Ones([]int{3, 2})
	if err != nil {
		return err
	}
	prod, err := a.MatMul(ones)
	if err != nil {
		return err
	}

	identities, err := tensor.FromData([]int{2, 2, 2}, []float64{1, 0, 0, 1, 1, 0, 0, 1})
	if err != nil {
		return err
	}
	rhs, err := tensor.FromData([]int{2, 2}, []float64{5, 6, 7, 8})
	if err != nil {
		return err
	}
	batched, err := identities.MatMul(rhs)
	if err != nil {
		return err
	}

	mixed, err := tensor.FromData([]int{4}, []float64{-1.5, 0, 0.25, 3})
	if err != nil {
		return err
	}

	sections := []struct {
		title string
		t     *tensor.Tensor
	}{
		{"[[1,2,3],[4,5,6]] x ones(3,2)", prod},
		{"two identity blocks x [[5,6],[7,8]]", batched},
		{"relu([-1.5, 0, 0.25, 3])", mixed.Relu()},
		{"binarilize([-1.5, 0, 0.25, 3])", mixed.Binarilize()},
	}
	for _, s := range sections {
		log.Info().Str("shape", fmt.Sprint(s.t.Dims())).Msg(s.title)
		if _, err := fmt.Fprintf(w, "# %s %v\n", s.title, s.t.Dims()); err != nil {
			return err
		}
		if err := s.t.Print(w); err != nil {
			return err
		}
	}
	return nil
}
