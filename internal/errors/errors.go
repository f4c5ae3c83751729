// Package errors provides the sentinel errors surfaced by the hive drivers and
// a small classification layer used to retry transient journal failures.
// Simulation outcomes are never errors; they are reported as booleans.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnknownJob is returned when a job name typed by a user matches no bee.
	ErrUnknownJob = errors.New("unknown job")
	// ErrNoHive is returned when a command needs a .hive directory that is missing.
	ErrNoHive = errors.New("no hive found")
	// ErrNoSession is returned when the journal holds no matching session.
	ErrNoSession = errors.New("no session found")
)

// ErrorType categorizes errors for retry decisions
type ErrorType string

const (
	// ErrorTypeRetryable indicates the error might succeed on retry
	ErrorTypeRetryable ErrorType = "retryable"
	// ErrorTypePermanent indicates the error will not succeed on retry
	ErrorTypePermanent ErrorType = "permanent"
)

// RetryableError represents errors that may succeed on retry, such as a
// locked database.
type RetryableError struct {
	Err  error
	Kind string
}

func (e *RetryableError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("[retryable:%s] %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("[retryable] %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// PermanentError represents errors that will not succeed on retry
type PermanentError struct {
	Err  error
	Kind string
}

func (e *PermanentError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("[permanent:%s] %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("[permanent] %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// NewRetryableError wraps an error as retryable
func NewRetryableError(err error, kind string) error {
	return &RetryableError{Err: err, Kind: kind}
}

// NewPermanentError wraps an error as permanent
func NewPermanentError(err error, kind string) error {
	return &PermanentError{Err: err, Kind: kind}
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	return GetErrorType(err) == ErrorTypeRetryable
}

// IsPermanent checks if an error is permanent
func IsPermanent(err error) bool {
	return GetErrorType(err) == ErrorTypePermanent
}

// GetErrorType returns the ErrorType for any error. Explicit wrappers win over
// message classification.
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var re *RetryableError
	if errors.As(err, &re) {
		return ErrorTypeRetryable
	}

	var pe *PermanentError
	if errors.As(err, &pe) {
		return ErrorTypePermanent
	}

	return ClassifyError(err)
}

// ClassifyError determines the error type from the message, for errors that
// carry no SQLite result code. Only lock contention and interrupted I/O are
// retryable; unknown errors are permanent.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	msg := strings.ToLower(err.Error())

	retryablePatterns := []string{
		"database is locked",
		"database table is locked",
		"sqlite_busy",
		"interrupted system call",
		"resource temporarily unavailable",
		"try again",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return ErrorTypeRetryable
		}
	}

	return ErrorTypePermanent
}

// CalculateBackoff calculates exponential backoff delay
// baseDelay: initial delay
// retryCount: current retry attempt (0-indexed)
// maxDelay: maximum delay cap
func CalculateBackoff(baseDelay time.Duration, retryCount int, maxDelay time.Duration) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}

	delay := baseDelay * (1 << retryCount)

	if maxDelay > 0 && delay > maxDelay {
		return maxDelay
	}

	return delay
}
