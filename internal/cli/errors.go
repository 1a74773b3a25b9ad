package cli

import (
	"errors"
	"fmt"

	"taskmcp/internal/exitcode"
)

// exitError carries the exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userErrorf(format string, args ...any) error {
	return &exitError{code: exitcode.UserError, err: fmt.Errorf(format, args...)}
}

func authError(err error) error {
	return &exitError{code: exitcode.AuthError, err: err}
}

func authErrorf(format string, args ...any) error {
	return authError(fmt.Errorf(format, args...))
}

func configError(err error) error {
	return &exitError{code: exitcode.ConfigError, err: err}
}

func backendError(err error) error {
	return &exitError{code: exitcode.BackendError, err: err}
}

// codeFor returns the exit code for err. Errors without a code, such as
// cobra's flag and argument errors, are user errors.
func codeFor(err error) int {
	if err == nil {
		return exitcode.Success
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitcode.UserError
}
