package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrConflict, ErrValidation, ErrUnavailable}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b, "%v vs %v", a, b)
			}
		}
	}
}

func TestTypedErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		sentinel    error
		expectedMsg string
	}{
		{
			name:        "not found with id",
			err:         NewNotFoundError("conflict", "c-1"),
			sentinel:    ErrNotFound,
			expectedMsg: `conflict with id "c-1" not found`,
		},
		{
			name:        "not found without id",
			err:         NewNotFoundError("quote", ""),
			sentinel:    ErrNotFound,
			expectedMsg: "quote not found",
		},
		{
			name:        "conflict",
			err:         NewConflictError("quote", "duplicate id"),
			sentinel:    ErrConflict,
			expectedMsg: "quote conflict: duplicate id",
		},
		{
			name:        "validation with field",
			err:         NewValidationError("text", "must not be empty"),
			sentinel:    ErrValidation,
			expectedMsg: "validation failed for text: must not be empty",
		},
		{
			name:        "validation without field",
			err:         NewValidationError("", "invalid format"),
			sentinel:    ErrValidation,
			expectedMsg: "validation failed: invalid format",
		},
		{
			name:        "unavailable with reason",
			err:         NewUnavailableError("posts", "connection refused"),
			sentinel:    ErrUnavailable,
			expectedMsg: `service "posts" unavailable: connection refused`,
		},
		{
			name:        "unavailable without reason",
			err:         NewUnavailableError("store", ""),
			sentinel:    ErrUnavailable,
			expectedMsg: `service "store" unavailable`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
			require.ErrorIs(t, fmt.Errorf("outer: %w", tt.err), tt.sentinel)
		})
	}
}

func TestValidationError_KeepsValue(t *testing.T) {
	err := NewValidationErrorWithValue("keep", "must be local or server", "both")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "keep", validation.Field)
	assert.Equal(t, "both", validation.Value)
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsNotFound typed", NewNotFoundError("quote", "1"), IsNotFound, true},
		{"IsNotFound wrapped", fmt.Errorf("x: %w", ErrNotFound), IsNotFound, true},
		{"IsNotFound other", ErrConflict, IsNotFound, false},
		{"IsNotFound nil", nil, IsNotFound, false},
		{"IsConflict typed", NewConflictError("quote", "dup"), IsConflict, true},
		{"IsConflict other", ErrNotFound, IsConflict, false},
		{"IsValidation typed", NewValidationError("text", "empty"), IsValidation, true},
		{"IsValidation other", ErrUnavailable, IsValidation, false},
		{"IsUnavailable typed", NewUnavailableError("posts", "down"), IsUnavailable, true},
		{"IsUnavailable nil", nil, IsUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}

func TestErrorWrappingChain(t *testing.T) {
	original := NewNotFoundError("conflict", "abc")
	wrapped := fmt.Errorf("layer2: %w", fmt.Errorf("layer1: %w", original))

	assert.True(t, IsNotFound(wrapped))

	var notFound *NotFoundError
	require.ErrorAs(t, wrapped, &notFound)
	assert.Equal(t, "abc", notFound.ID)
	assert.Equal(t, "conflict", notFound.Entity)
}
