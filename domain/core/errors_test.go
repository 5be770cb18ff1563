package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInputError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"empty input", ErrEmptyInput, true},
		{"malformed input", ErrMalformedInput, true},
		{"no observations", ErrNoObservations, true},
		{"wrapped malformed input", fmt.Errorf("%w: row 2 has 3 cells, want 4", ErrMalformedInput), true},
		{"fit error", ErrInsufficientData, false},
		{"unrelated error", errors.New("disk full"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInputError(tt.err))
		})
	}
}

func TestIsFitError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"insufficient data", ErrInsufficientData, true},
		{"sampling failed", ErrSamplingFailed, true},
		{"wrapped sampling failure", fmt.Errorf("%w: non-finite posterior at initial point", ErrSamplingFailed), true},
		{"input error", ErrEmptyInput, false},
		{"unrelated error", errors.New("disk full"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFitError(tt.err))
		})
	}
}
