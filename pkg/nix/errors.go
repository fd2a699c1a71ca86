// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic classification with errors.Is. Each typed
// error below unwraps to its sentinel and, where present, to its cause.
var (
	// ErrSpawn means the nix executable could not be started at all.
	ErrSpawn = errors.New("nix: spawn failed")
	// ErrCommandFailed means the process ran and exited non-zero.
	ErrCommandFailed = errors.New("nix: command failed")
	// ErrParse means stdout did not match the declared output shape even
	// though the process itself reported success.
	ErrParse = errors.New("nix: output parse failed")
	// ErrRecordParse means a single record within an otherwise healthy
	// stream was malformed.
	ErrRecordParse = errors.New("nix: record parse failed")
	// ErrCanceled means the invocation was canceled or timed out.
	ErrCanceled = errors.New("nix: invocation canceled")
)

type (
	// SpawnError reports that the external executable could not be started
	// (not found, permission denied). It is fatal for the invocation and is
	// never retried by the core.
	SpawnError struct {
		// Path is the executable that failed to start.
		Path string
		// Argv is the full argument vector that would have been used.
		Argv []string
		// Cause is the underlying os/exec error.
		Cause error
	}

	// ExitError reports a process that ran and exited non-zero. Stdout holds
	// whatever output was collected before the failure; it is diagnostic
	// only, never a result.
	ExitError struct {
		Argv            []string
		Code            int
		Stderr          []byte
		StderrTruncated bool
		Stdout          []byte
	}

	// ParseError reports stdout that did not deserialize into the declared
	// output shape. Raw holds the unparsed bytes.
	ParseError struct {
		Argv  []string
		Raw   []byte
		Cause error
	}

	// RecordParseError reports one malformed record within a stream. It is
	// scoped to that record and does not invalidate prior or subsequent
	// records.
	RecordParseError struct {
		// Line is the 1-based record number within the stream.
		Line  int
		Raw   []byte
		Cause error
	}

	// CanceledError reports an invocation terminated by cancellation or
	// timeout. Cause is the context error that triggered it.
	CanceledError struct {
		Argv  []string
		Cause error
	}
)

func (e *SpawnError) Error() string {
	return fmt.Sprintf("nix: failed to start %q: %v", e.Path, e.Cause)
}

func (e *SpawnError) Unwrap() []error { return []error{ErrSpawn, e.Cause} }

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("nix: command failed with exit code %d", e.Code)
	if diag := strings.TrimSpace(string(e.Stderr)); diag != "" {
		msg += ": " + diag
	}
	return msg
}

func (e *ExitError) Unwrap() error { return ErrCommandFailed }

func (e *ParseError) Error() string {
	return fmt.Sprintf("nix: failed to parse command output: %v", e.Cause)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Cause} }

func (e *RecordParseError) Error() string {
	return fmt.Sprintf("nix: failed to parse record on line %d: %v", e.Line, e.Cause)
}

func (e *RecordParseError) Unwrap() []error { return []error{ErrRecordParse, e.Cause} }

func (e *CanceledError) Error() string {
	return fmt.Sprintf("nix: invocation canceled: %v", e.Cause)
}

func (e *CanceledError) Unwrap() []error { return []error{ErrCanceled, e.Cause} }
