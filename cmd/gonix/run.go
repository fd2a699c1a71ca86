// SPDX-License-Identifier: MPL-2.0

package main

import (
	"gonix/pkg/nixcmd"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <installable> [-- args...]",
	Short: "Build an installable and run its main program",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := nixcmd.Run{
			Installable: args[0],
			ProgramArgs: args[1:],
		}.Exec(cmd.Context(), newClient())
		if err != nil {
			return runError(err)
		}
		return nil
	},
}
