package middlewares

import (
	"errors"
	"fmt"
	"time"
)

// PanicError is what Recover returns for a handler that panicked.
// The error handler renders it as a 500 and logs Stack.
type PanicError struct {
	Value any
	Stack []byte // nil with WithoutRecoverStack
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("recovered panic: %v", e.Value)
}

// Unwrap exposes the panic value when a handler panicked with an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// TimeoutError is what Timeout returns for a handler that failed after the
// request deadline passed. The error handler renders it as a 503.
type TimeoutError struct {
	Duration time.Duration
	Err      error // the handler's own error, usually context.DeadlineExceeded
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request exceeded %s timeout", e.Duration)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// AsPanicError finds a PanicError in err's chain.
func AsPanicError(err error) (*PanicError, bool) {
	return as[*PanicError](err)
}

// AsTimeoutError finds a TimeoutError in err's chain.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	return as[*TimeoutError](err)
}

func as[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}
