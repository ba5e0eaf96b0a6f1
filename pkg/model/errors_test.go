package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: ErrNotFound, Message: "simulation 'latest' not found"}
	want := "NOT_FOUND: simulation 'latest' not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("simulation", "latest")
	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Message != "simulation 'latest' not found" {
		t.Errorf("Message = %q, want %q", err.Message, "simulation 'latest' not found")
	}
}

func TestRunError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *RunError
		want string
	}{
		{
			"opaque includes exit code",
			&RunError{Kind: KindProcessFailedOpaque, Message: "engine failed", ExitCode: 2},
			"process_failed_opaque: engine failed (exit code 2)",
		},
		{
			"wrapped cause",
			&RunError{Kind: KindEngineNotFound, Message: "./engine", Err: errors.New("no such file")},
			"engine_not_found: ./engine: no such file",
		},
		{
			"plain",
			&RunError{Kind: KindEngineReportedError, Message: "bad input"},
			"engine_reported_error: bad input",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("run: %w", &RunError{Kind: KindTimeout, Message: "30s"})
	if got := KindOf(wrapped); got != KindTimeout {
		t.Errorf("KindOf(wrapped) = %q, want %q", got, KindTimeout)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
	if got := KindOf(nil); got != "" {
		t.Errorf("KindOf(nil) = %q, want empty", got)
	}
}

func TestNewConfigurationError(t *testing.T) {
	err := NewConfigurationError("quantum must be a positive integer, got %d", 0)
	if err.Kind != KindConfiguration {
		t.Errorf("Kind = %q, want %q", err.Kind, KindConfiguration)
	}
	if err.Message != "quantum must be a positive integer, got 0" {
		t.Errorf("Message = %q", err.Message)
	}
}
