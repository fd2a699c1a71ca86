// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"os"
	"path/filepath"
	"testing"
)

// writeScript writes a /bin/sh stub acting as the external tool and returns
// its path.
func writeScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fake-nix")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub script: %v", err)
	}
	return path
}

// touch creates an empty sentinel file.
func touch(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return f.Close()
}
