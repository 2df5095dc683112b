package engine

import (
	"errors"
	"fmt"
)

// DefaultMaxSteps is the default number of transitions allowed per flow.
// A handler that keeps re-dispatching actions which produce the same effect
// would otherwise loop forever.
const DefaultMaxSteps = 1000

// QuotaEnforcer counts transitions for one flow.
type QuotaEnforcer struct {
	maxSteps int
	current  int
}

// NewQuotaEnforcer creates an enforcer with the given limit.
// A limit <= 0 disables enforcement.
func NewQuotaEnforcer(maxSteps int) *QuotaEnforcer {
	return &QuotaEnforcer{maxSteps: maxSteps}
}

// Check counts one step and fails once the limit is exceeded.
func (q *QuotaEnforcer) Check(flowToken string) error {
	q.current++
	if q.maxSteps > 0 && q.current > q.maxSteps {
		return &StepsExceededError{
			FlowToken: flowToken,
			Steps:     q.current,
			Limit:     q.maxSteps,
		}
	}
	return nil
}

// Current returns the step count.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// MaxSteps returns the limit.
func (q *QuotaEnforcer) MaxSteps() int {
	return q.maxSteps
}

// StepsExceededError is reported when a flow exceeds its step quota. The
// offending action is dropped; state is left untouched.
type StepsExceededError struct {
	FlowToken string
	Steps     int
	Limit     int
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("flow %s exceeded max steps quota: %d steps > %d limit",
		e.FlowToken, e.Steps, e.Limit)
}

// IsStepsExceededError reports whether err is a StepsExceededError.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
