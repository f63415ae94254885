package errors

import (
	"errors"
	"fmt"
)

// Common error kinds for the console engine. None of these are fatal to the
// process; all are recoverable by re-authentication or user retry.
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("session no longer authorized")

	// Transport errors
	ErrUnavailable      = errors.New("service unavailable")
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// Coordinator rejections
	ErrAlreadyInFlight = errors.New("action already in flight for entity")
	ErrSelfTarget      = errors.New("action may not target the current principal")

	// Session store errors
	ErrInvalidTransition = errors.New("invalid session state transition")
	ErrStaleResult       = errors.New("stale session resolution discarded")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
