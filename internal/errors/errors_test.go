package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	cause := fmt.Errorf("dial tcp: timeout")
	err := NewOracleUnavailableError("oracle call failed", cause)

	want := "ORACLE_UNAVAILABLE: oracle call failed (caused by: dial tcp: timeout)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
}

func TestCodeHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"oracle unavailable", NewOracleUnavailableError("x", nil), IsOracleUnavailable, true},
		{"unparsable", NewUnparsableResponseError("x", nil), IsUnparsable, true},
		{"invalid input", NewInvalidInputError("x", nil), IsInvalidInput, true},
		{"stale", NewStaleResultError("x"), IsStaleResult, true},
		{"wrapped with fmt", fmt.Errorf("outer: %w", NewInvalidInputError("x", nil)), IsInvalidInput, true},
		{"nested app error", NewAIError(ErrCodeAIServiceFailed, "outer", NewUnparsableResponseError("inner", nil)), IsUnparsable, true},
		{"other code", NewConfigError(ErrCodeInvalidConfig, "x", nil), IsOracleUnavailable, false},
		{"plain error", fmt.Errorf("plain"), IsInvalidInput, false},
		{"nil", nil, IsStaleResult, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithContext(t *testing.T) {
	err := NewInvalidInputError("empty role", nil).WithContext("field", "role")
	if err.Context["field"] != "role" {
		t.Errorf("expected context field=role, got %v", err.Context)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if _, err := New(level); err != nil {
			t.Errorf("New(%q) returned error: %v", level, err)
		}
	}
	if _, err := New("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
