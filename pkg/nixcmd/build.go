// SPDX-License-Identifier: MPL-2.0

package nixcmd

import (
	"context"

	"gonix/pkg/nix"
	"gonix/pkg/nixarg"
)

type (
	// Build describes `nix build`.
	Build struct {
		// Installables are the derivations to build, in order.
		Installables []string
		// NoLink suppresses the ./result symlink (--no-link).
		NoLink bool
		// OutLink overrides the symlink location (--out-link).
		OutLink string
		// PrintBuildLogs streams build logs to stderr (-L).
		PrintBuildLogs bool
	}

	// BuildResult is one element of `nix build --json` output.
	BuildResult struct {
		DrvPath string            `json:"drvPath"`
		Outputs map[string]string `json:"outputs"`
	}
)

// Subcommand implements nix.Command.
func (b Build) Subcommand() []string { return []string{"build"} }

// Args implements nix.Command.
func (b Build) Args() []nixarg.Arg {
	args := []nixarg.Arg{nixarg.Flag("json")}
	if b.NoLink {
		args = append(args, nixarg.Flag("no-link"))
	}
	if b.OutLink != "" {
		args = append(args, nixarg.Option("out-link", b.OutLink))
	}
	if b.PrintBuildLogs {
		args = append(args, nixarg.Flag("-L"))
	}
	for _, inst := range b.Installables {
		args = append(args, nixarg.Positional(inst))
	}
	return args
}

// Run builds the installables and returns the built derivations with their
// realized outputs.
func (b Build) Run(ctx context.Context, c *nix.Client) ([]BuildResult, error) {
	return nix.RunJSON[[]BuildResult](ctx, c, b)
}
