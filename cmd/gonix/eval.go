// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"gonix/pkg/nixcmd"

	"github.com/spf13/cobra"
)

var (
	evalExpr   string
	evalApply  string
	evalRaw    bool
	evalImpure bool

	evalCmd = &cobra.Command{
		Use:   "eval [installable]",
		Short: "Evaluate a nix expression or installable",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := nixcmd.Eval{
				Expr:   evalExpr,
				Apply:  evalApply,
				Impure: evalImpure,
			}
			if len(args) == 1 {
				op.Installable = args[0]
			}

			if evalRaw {
				out, err := op.RunRaw(cmd.Context(), newClient())
				if err != nil {
					return runError(err)
				}
				fmt.Print(out)
				return nil
			}

			raw, err := op.Run(cmd.Context(), newClient())
			if err != nil {
				return runError(err)
			}
			fmt.Println(string(raw))
			return nil
		},
	}
)

func init() {
	evalCmd.Flags().StringVar(&evalExpr, "expr", "", "evaluate an expression instead of an installable")
	evalCmd.Flags().StringVar(&evalApply, "apply", "", "apply a function to the result before printing")
	evalCmd.Flags().BoolVar(&evalRaw, "raw", false, "print the result as a bare string")
	evalCmd.Flags().BoolVar(&evalImpure, "impure", false, "allow impure evaluation")
}
