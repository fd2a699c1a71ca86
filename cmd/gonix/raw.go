// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"gonix/pkg/nix"
	"gonix/pkg/nixarg"

	"github.com/spf13/cobra"
)

// rawCmd passes an arbitrary subcommand line through to the tool, keeping
// only the client's argv assembly and failure semantics. Useful for
// operations without a typed catalog entry.
var rawCmd = &cobra.Command{
	Use:   "raw -- <subcommand> [args...]",
	Short: "Invoke an arbitrary nix subcommand through the client",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		op := nix.Cmdline{Path: []string{args[0]}}
		for _, a := range args[1:] {
			op.Arguments = append(op.Arguments, nixarg.Positional(a))
		}

		client := newClient()
		logger.Debug("raw invocation", "cmdline", nixarg.ShellJoin(client.Argv(op)))

		out, err := nix.RunText(cmd.Context(), client, op)
		if err != nil {
			return runError(err)
		}
		fmt.Fprint(os.Stdout, out)
		return nil
	},
}
