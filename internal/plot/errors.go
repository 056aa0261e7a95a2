package plot

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every construction-time error.
	ErrConfiguration = errors.New("configuration error")
	// ErrFunctionEvaluating is matched by fatal sampling errors.
	ErrFunctionEvaluating = errors.New("function evaluating error")

	// Domain errors a user function may return for a single sample. They are
	// recoverable: the point is skipped and the message is logged.
	ErrDivisionByZero = errors.New("division by zero")
	ErrInvalidValue   = errors.New("invalid value")
	ErrOverflow       = errors.New("numeric overflow")
	// ErrTypeMismatch is recoverable for Function elements only.
	ErrTypeMismatch = errors.New("type mismatch")
)

// ConfigError reports an invalid construction parameter.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// FunctionEvaluatingError aborts a sampling pass. It carries the element that
// failed and the underlying cause.
type FunctionEvaluatingError struct {
	Element string
	Cause   error
}

func (e *FunctionEvaluatingError) Error() string {
	return fmt.Sprintf("error while evaluating the function %s: %v", e.Element, e.Cause)
}

func (e *FunctionEvaluatingError) Unwrap() error { return e.Cause }

func (e *FunctionEvaluatingError) Is(target error) bool { return target == ErrFunctionEvaluating }
