package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"database locked", errors.New("database is locked"), ErrorTypeRetryable},
		{"sqlite busy code", errors.New("exec: database is locked (5) (SQLITE_BUSY)"), ErrorTypeRetryable},
		{"table locked", errors.New("database table is locked (6)"), ErrorTypeRetryable},
		{"try again", errors.New("resource temporarily unavailable, try again"), ErrorTypeRetryable},

		{"constraint", errors.New("UNIQUE constraint failed: sessions.id"), ErrorTypePermanent},
		{"no such table", errors.New("no such table: shifts"), ErrorTypePermanent},
		{"unknown error", errors.New("something weird happened"), ErrorTypePermanent},
		{"bare result code", errors.New("exit status (5)"), ErrorTypePermanent},
		{"busy in prose", errors.New("bee is busy collecting nectar"), ErrorTypePermanent},
		{"nil error", nil, ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.expected {
				t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestRetryableError(t *testing.T) {
	base := errors.New("database is locked")
	err := NewRetryableError(base, "sqlite")

	if err.Error() != "[retryable:sqlite] database is locked" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("RetryableError should unwrap to the base error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should be true")
	}

	noKind := &RetryableError{Err: base}
	if noKind.Error() != "[retryable] database is locked" {
		t.Errorf("Error() without kind = %q", noKind.Error())
	}
}

func TestPermanentError(t *testing.T) {
	// A permanent wrapper wins over a retryable-looking message.
	base := errors.New("database is locked")
	err := NewPermanentError(base, "readonly")

	if err.Error() != "[permanent:readonly] database is locked" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsPermanent(err) {
		t.Error("IsPermanent should be true")
	}
	if IsRetryable(err) {
		t.Error("IsRetryable should be false for an explicit PermanentError")
	}
}

func TestGetErrorType_Wrapped(t *testing.T) {
	inner := NewRetryableError(errors.New("locked"), "")
	wrapped := fmt.Errorf("record shift: %w", inner)
	if got := GetErrorType(wrapped); got != ErrorTypeRetryable {
		t.Errorf("GetErrorType(wrapped) = %v, want retryable", got)
	}
	if got := GetErrorType(nil); got != ErrorTypePermanent {
		t.Errorf("GetErrorType(nil) = %v, want permanent", got)
	}
}

func TestSentinelsWrap(t *testing.T) {
	err := fmt.Errorf("parse %q: %w", "drone", ErrUnknownJob)
	if !errors.Is(err, ErrUnknownJob) {
		t.Error("wrapped ErrUnknownJob not detected")
	}
	if errors.Is(err, ErrNoSession) {
		t.Error("ErrNoSession should not match")
	}
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		name       string
		base       time.Duration
		retryCount int
		max        time.Duration
		expected   time.Duration
	}{
		{"first", 10 * time.Millisecond, 0, time.Second, 10 * time.Millisecond},
		{"second", 10 * time.Millisecond, 1, time.Second, 20 * time.Millisecond},
		{"third", 10 * time.Millisecond, 2, time.Second, 40 * time.Millisecond},
		{"capped", 10 * time.Millisecond, 10, 100 * time.Millisecond, 100 * time.Millisecond},
		{"negative retry", 10 * time.Millisecond, -3, time.Second, 10 * time.Millisecond},
		{"no cap", time.Millisecond, 4, 0, 16 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateBackoff(tt.base, tt.retryCount, tt.max); got != tt.expected {
				t.Errorf("CalculateBackoff() = %v, want %v", got, tt.expected)
			}
		})
	}
}
