package main

import (
	"errors"
	"fmt"
)

// Exit codes for CLI commands.
const (
	exitFailure      = 1 // Script ran but a strict check failed
	exitCommandError = 2 // Bad flags, unreadable config or script
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	Code    int
	Message string
	Err     error
}

func (e *exitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *exitError) Unwrap() error {
	return e.Err
}

func newExitError(code int, message string) *exitError {
	return &exitError{Code: code, Message: message}
}

func wrapExitError(code int, message string, err error) *exitError {
	return &exitError{Code: code, Message: message, Err: err}
}

// exitCode extracts the exit code from err, defaulting to exitFailure.
func exitCode(err error) int {
	var e *exitError
	if errors.As(err, &e) {
		return e.Code
	}
	return exitFailure
}
