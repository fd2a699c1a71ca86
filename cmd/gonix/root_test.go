// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"strings"
	"testing"

	"gonix/pkg/nix"
)

func TestGetVersionString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version = "1.2.3"
	if got := getVersionString(); !strings.HasPrefix(got, "1.2.3") {
		t.Errorf("getVersionString() = %q, want prefix %q", got, "1.2.3")
	}
}

func TestRunErrorPropagatesExitCode(t *testing.T) {
	cause := &nix.ExitError{Argv: []string{"nix", "build"}, Code: 7}

	err := runError(cause)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("runError returned %T, want *ExitError", err)
	}
	if exitErr.Code != 7 {
		t.Errorf("Code = %d, want 7", exitErr.Code)
	}
	if !errors.Is(err, nix.ErrCommandFailed) {
		t.Errorf("err does not wrap ErrCommandFailed")
	}
}

func TestRunErrorPassesThroughOtherErrors(t *testing.T) {
	cause := errors.New("boom")
	if err := runError(cause); !errors.Is(err, cause) {
		t.Errorf("runError rewrote %v into %v", cause, err)
	}
}
