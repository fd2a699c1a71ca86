// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"testing"

	"gonix/pkg/nixarg"
)

func TestNewPathPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		envVar   string
		want     string
	}{
		{name: "explicit wins over env", explicit: "/opt/nix/bin/nix", envVar: "/usr/bin/nix", want: "/opt/nix/bin/nix"},
		{name: "env wins over default", envVar: "/usr/bin/nix", want: "/usr/bin/nix"},
		{name: "built-in default", want: DefaultPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVar != "" {
				t.Setenv(PathEnvVar, tt.envVar)
			} else {
				t.Setenv(PathEnvVar, "")
			}

			c := New(Config{Path: tt.explicit})
			if c.Path() != tt.want {
				t.Errorf("Path() = %q, want %q", c.Path(), tt.want)
			}
		})
	}
}

func TestNewCopiesConfig(t *testing.T) {
	t.Parallel()

	args := []nixarg.Arg{nixarg.Flag("json")}
	env := map[string]string{"A": "1"}
	c := New(Config{Path: "nix", GlobalArgs: args, Env: env})

	// Mutating the inputs after construction must not leak into the Client.
	args[0] = nixarg.Flag("impure")
	env["A"] = "2"

	got := c.GlobalArgs()
	if len(got) != 1 || got[0].Name() != "json" {
		t.Errorf("GlobalArgs leaked caller mutation: %v", got)
	}
	if c.env["A"] != "1" {
		t.Errorf("Env leaked caller mutation: %q", c.env["A"])
	}
}
