package tensor

import "errors"

// Error kinds returned by tensor operations. Callers match them with errors.Is;
// the returned errors wrap one of these with the failing operation and values.
var (
	// ErrDimensionMismatch reports a coordinate vector whose length differs from
	// the tensor rank, or matmul operands whose contraction dimensions disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrOutOfBounds reports a coordinate or flat offset outside the tensor extent.
	ErrOutOfBounds = errors.New("index out of bounds")

	// ErrShape reports incompatible shapes in binary ops, a reshape that changes
	// the element count, or a shape that cannot be allocated.
	ErrShape = errors.New("shape error")

	// ErrInvalidArgument reports malformed arguments such as index and value
	// lists of different lengths.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedRank reports transpose or matmul on a rank the kernel does
	// not handle.
	ErrUnsupportedRank = errors.New("unsupported rank")
)
