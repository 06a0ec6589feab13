package motion

import "errors"

// Domain errors shared across the learning pipeline.
var (
	// ErrInsufficientData indicates a demonstration too short to work with.
	ErrInsufficientData = errors.New("motion: insufficient demonstration data")

	// ErrTimestampOrder indicates timestamps that are not strictly increasing.
	ErrTimestampOrder = errors.New("motion: timestamps must be strictly increasing")

	// ErrDimensionMismatch indicates inconsistent state dimensionality.
	ErrDimensionMismatch = errors.New("motion: dimension mismatch")

	// ErrInvalidValue indicates a NaN or Inf in sampled data.
	ErrInvalidValue = errors.New("motion: non-finite value")
)
