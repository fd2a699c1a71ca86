// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"gonix/pkg/nixcmd"

	"github.com/spf13/cobra"
)

var (
	buildNoLink  bool
	buildOutLink string
	buildLogs    bool

	buildCmd = &cobra.Command{
		Use:   "build <installable>...",
		Short: "Build installables and print their store outputs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := nixcmd.Build{
				Installables:   args,
				NoLink:         buildNoLink,
				OutLink:        buildOutLink,
				PrintBuildLogs: buildLogs,
			}.Run(cmd.Context(), newClient())
			if err != nil {
				return runError(err)
			}

			for _, res := range results {
				fmt.Println(TitleStyle.Render(res.DrvPath))
				for name, path := range res.Outputs {
					fmt.Printf("  %s %s\n", SubtitleStyle.Render(name+":"), path)
				}
			}
			return nil
		},
	}
)

func init() {
	buildCmd.Flags().BoolVar(&buildNoLink, "no-link", false, "do not create the ./result symlink")
	buildCmd.Flags().StringVar(&buildOutLink, "out-link", "", "symlink location for build results")
	buildCmd.Flags().BoolVarP(&buildLogs, "print-build-logs", "L", false, "stream build logs to stderr")
}
