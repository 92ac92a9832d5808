package commands

import "errors"

// Process exit codes. Scripts drive pdforce by exit code, so these are part
// of the CLI contract.
const (
	ExitFound       = 0
	ExitExhausted   = 1
	ExitInterrupted = 2
	ExitConfig      = 3
	ExitTarget      = 4
)

// ExitError wraps an error with the process exit code it should produce.
type ExitError struct {
	Code int
	Err  error
}

// Error implements error.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}

	return e.Err.Error()
}

// Unwrap exposes the wrapped error for errors.Is checks.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitErr builds an ExitError.
func exitErr(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps a command error to its process exit code. A nil error exits
// zero. Errors without an explicit code come from flag parsing and argument
// validation, so they exit ExitConfig; ExitExhausted stays reserved for a
// search that ran out of candidates.
func ExitCode(err error) int {
	if err == nil {
		return ExitFound
	}

	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}

	return ExitConfig
}
