package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrConcurrentDispatch is the panic value raised when Dispatch is entered
	// while another Dispatch is still running, which means it was called off
	// the owner context.
	ErrConcurrentDispatch = errors.New("engine: concurrent dispatch outside the owner context")

	// ErrStopped is returned when the store no longer accepts actions.
	ErrStopped = errors.New("engine: store stopped")
)

// EffectErrorCode categorizes effect failures.
type EffectErrorCode string

const (
	// ErrCodeEffectFailed indicates the handler returned an error.
	ErrCodeEffectFailed EffectErrorCode = "EFFECT_FAILED"

	// ErrCodeEffectTimeout indicates the per-effect deadline expired.
	ErrCodeEffectTimeout EffectErrorCode = "EFFECT_TIMEOUT"

	// ErrCodeEffectPanic indicates the handler panicked.
	ErrCodeEffectPanic EffectErrorCode = "EFFECT_PANIC"
)

// EffectError describes a failed effect task.
type EffectError struct {
	Code   EffectErrorCode
	Effect string
	Flow   string
	Err    error
}

// Error implements the error interface.
func (e *EffectError) Error() string {
	if e.Flow != "" {
		return fmt.Sprintf("%s: effect %s (flow=%s): %v", e.Code, e.Effect, e.Flow, e.Err)
	}
	return fmt.Sprintf("%s: effect %s: %v", e.Code, e.Effect, e.Err)
}

// Unwrap returns the handler error.
func (e *EffectError) Unwrap() error {
	return e.Err
}

// IsEffectTimeout reports whether err is an effect deadline failure.
func IsEffectTimeout(err error) bool {
	var ee *EffectError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeEffectTimeout
	}
	return false
}

// IsEffectPanic reports whether err came from a recovered handler panic.
func IsEffectPanic(err error) bool {
	var ee *EffectError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeEffectPanic
	}
	return false
}
