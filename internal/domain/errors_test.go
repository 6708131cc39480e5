package domain

import (
	"errors"
	"fmt"
	"testing"
)

// TestErrorConstants tests that all error constants are defined correctly
func TestErrorConstants(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrInvalidInput", ErrInvalidInput, "invalid input"},
		{"ErrConnection", ErrConnection, "connection failed"},
		{"ErrInternal", ErrInternal, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatalf("%s should not be nil", tt.name)
			}
			if tt.err.Error() != tt.msg {
				t.Errorf("Error message: got %q, want %q", tt.err.Error(), tt.msg)
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load fixtures: %w", ErrInvalidInput)
	if !errors.Is(wrapped, ErrInvalidInput) {
		t.Fatalf("expected wrapped error to match ErrInvalidInput")
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Fatalf("wrapped ErrInvalidInput must not match ErrNotFound")
	}
}
