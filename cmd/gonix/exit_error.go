// SPDX-License-Identifier: MPL-2.0

package main

import "fmt"

// ExitError signals a specific exit code without forcing os.Exit in RunE
// handlers. When the wrapped invocation failed, gonix exits with the same
// code the tool did.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
