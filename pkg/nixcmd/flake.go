// SPDX-License-Identifier: MPL-2.0

package nixcmd

import (
	"context"

	"gonix/pkg/nix"
	"gonix/pkg/nixarg"

	"github.com/goccy/go-json"
)

type (
	// FlakeMetadata describes `nix flake metadata`.
	FlakeMetadata struct {
		// Ref is the flake reference to inspect. Empty means the flake in
		// the working directory.
		Ref string
		// NoWriteLockFile keeps the invocation from updating flake.lock
		// (--no-write-lock-file).
		NoWriteLockFile bool
	}

	// Metadata is the JSON document printed by `nix flake metadata --json`.
	// Locked and Original are flake reference attribute sets; their shape
	// varies by reference type, so they are kept raw for the caller. An
	// indirect Original decodes into flakeref.IndirectRef.
	Metadata struct {
		Description  string          `json:"description"`
		Path         string          `json:"path"`
		Revision     string          `json:"revision"`
		LastModified int64           `json:"lastModified"`
		URL          string          `json:"url"`
		Locked       json.RawMessage `json:"locked"`
		Original     json.RawMessage `json:"original"`
	}

	// FlakeShow describes `nix flake show`.
	FlakeShow struct {
		// Ref is the flake reference to enumerate. Empty means the flake in
		// the working directory.
		Ref string
		// Legacy includes legacyPackages in the listing (--legacy).
		Legacy bool
		// AllSystems lists outputs for all systems, not just the current
		// one (--all-systems).
		AllSystems bool
	}
)

// Subcommand implements nix.Command.
func (m FlakeMetadata) Subcommand() []string { return []string{"flake", "metadata"} }

// Args implements nix.Command.
func (m FlakeMetadata) Args() []nixarg.Arg {
	args := []nixarg.Arg{nixarg.Flag("json")}
	if m.NoWriteLockFile {
		args = append(args, nixarg.Flag("no-write-lock-file"))
	}
	if m.Ref != "" {
		args = append(args, nixarg.Positional(m.Ref))
	}
	return args
}

// Run fetches and decodes the flake's metadata.
func (m FlakeMetadata) Run(ctx context.Context, c *nix.Client) (Metadata, error) {
	return nix.RunJSON[Metadata](ctx, c, m)
}

// Subcommand implements nix.Command.
func (s FlakeShow) Subcommand() []string { return []string{"flake", "show"} }

// Args implements nix.Command.
func (s FlakeShow) Args() []nixarg.Arg {
	args := []nixarg.Arg{nixarg.Flag("json")}
	if s.Legacy {
		args = append(args, nixarg.Flag("legacy"))
	}
	if s.AllSystems {
		args = append(args, nixarg.Flag("all-systems"))
	}
	if s.Ref != "" {
		args = append(args, nixarg.Positional(s.Ref))
	}
	return args
}

// Run returns the output tree as a raw JSON document. Its shape mirrors the
// flake's outputs attribute set, so decoding is left to the caller.
func (s FlakeShow) Run(ctx context.Context, c *nix.Client) (json.RawMessage, error) {
	return nix.RunJSON[json.RawMessage](ctx, c, s)
}
