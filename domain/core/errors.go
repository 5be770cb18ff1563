package core

import (
	"errors"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrEmptyInput     = errors.New("no input provided")
	ErrMalformedInput = errors.New("malformed input payload")
	ErrNoObservations = errors.New("no observations remain after cleaning")

	// Resolution errors
	ErrNoValidEdges = errors.New("no valid DAG edges found after column mapping")

	// Fit errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrSamplingFailed   = errors.New("posterior sampling failed")

	// Transform errors
	ErrDegenerateScale = errors.New("degenerate standardization scale")
)

// Error checking helpers
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrNoObservations)
}

func IsFitError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrSamplingFailed)
}
