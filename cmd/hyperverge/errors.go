package main

import "errors"

// Process exit codes, one per fatal error category. Batch partial failures
// are reported only through the emitted JSON, never through the exit code.
const (
	exitUpload    = 1
	exitConfig    = 2
	exitDiscovery = 3
	exitSink      = 4
)

// exitError attaches a category exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// exitWith wraps err with the given exit code.
func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCode extracts the exit code from err, defaulting to exitUpload.
func exitCode(err error) int {
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}

	return exitUpload
}
