// SPDX-License-Identifier: MPL-2.0

package nixcmd

import (
	"context"

	"gonix/pkg/nix"
	"gonix/pkg/nixarg"

	"github.com/goccy/go-json"
)

// Eval describes `nix eval`. Exactly one of Installable or Expr is usually
// set; nix itself rejects meaningless combinations, which this package does
// not second-guess.
type Eval struct {
	// Installable is the attribute to evaluate, e.g. "nixpkgs#lib.version".
	Installable string
	// Expr is an expression evaluated instead of an installable (--expr).
	Expr string
	// Apply is applied to the result before printing (--apply).
	Apply string
	// Impure allows access to mutable paths and environment (--impure).
	Impure bool
	// Raw prints the result as a bare string instead of JSON (--raw).
	Raw bool
}

// Subcommand implements nix.Command.
func (e Eval) Subcommand() []string { return []string{"eval"} }

// Args implements nix.Command.
func (e Eval) Args() []nixarg.Arg {
	var args []nixarg.Arg
	if e.Raw {
		args = append(args, nixarg.Flag("raw"))
	} else {
		args = append(args, nixarg.Flag("json"))
	}
	if e.Impure {
		args = append(args, nixarg.Flag("impure"))
	}
	if e.Expr != "" {
		args = append(args, nixarg.Option("expr", e.Expr))
	}
	if e.Apply != "" {
		args = append(args, nixarg.Option("apply", e.Apply))
	}
	if e.Installable != "" {
		args = append(args, nixarg.Positional(e.Installable))
	}
	return args
}

// Run evaluates with JSON output and returns the raw document for the
// caller to decode further. It overrides Raw to false.
func (e Eval) Run(ctx context.Context, c *nix.Client) (json.RawMessage, error) {
	e.Raw = false
	return nix.RunJSON[json.RawMessage](ctx, c, e)
}

// RunRaw evaluates with --raw and returns the bare text result.
func (e Eval) RunRaw(ctx context.Context, c *nix.Client) (string, error) {
	e.Raw = true
	return nix.RunText(ctx, c, e)
}
