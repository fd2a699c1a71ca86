// SPDX-License-Identifier: MPL-2.0

package nixcmd

import (
	"context"

	"gonix/pkg/nix"
	"gonix/pkg/nixarg"
)

// Run describes `nix run`: building an installable and executing its main
// program, forwarding ProgramArgs to it verbatim.
type Run struct {
	// Installable is the app or package to run, e.g. "nixpkgs#hello".
	Installable string
	// ProgramArgs are passed to the program after the "--" separator. Each
	// element is one argv entry of the program, never re-tokenized.
	ProgramArgs []string
}

// Subcommand implements nix.Command.
func (r Run) Subcommand() []string { return []string{"run"} }

// Args implements nix.Command.
func (r Run) Args() []nixarg.Arg {
	args := []nixarg.Arg{nixarg.Positional(r.Installable)}
	if len(r.ProgramArgs) > 0 {
		args = append(args, nixarg.Raw("--"))
		for _, a := range r.ProgramArgs {
			args = append(args, nixarg.Positional(a))
		}
	}
	return args
}

// Exec runs the program to completion. The program's stdout is drained and
// discarded; diagnostics surface through the returned error.
func (r Run) Exec(ctx context.Context, c *nix.Client) error {
	return nix.RunEmpty(ctx, c, r)
}
