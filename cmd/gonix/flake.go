// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"time"

	"gonix/pkg/nixcmd"

	"github.com/spf13/cobra"
)

var (
	flakeCmd = &cobra.Command{
		Use:   "flake",
		Short: "Inspect flakes",
	}

	flakeMetadataCmd = &cobra.Command{
		Use:   "metadata [flake-ref]",
		Short: "Show a flake's resolved metadata",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := nixcmd.FlakeMetadata{NoWriteLockFile: true}
			if len(args) == 1 {
				op.Ref = args[0]
			}

			meta, err := op.Run(cmd.Context(), newClient())
			if err != nil {
				return runError(err)
			}

			if meta.Description != "" {
				fmt.Println(TitleStyle.Render(meta.Description))
			}
			fmt.Printf("%s %s\n", SubtitleStyle.Render("url:"), meta.URL)
			fmt.Printf("%s %s\n", SubtitleStyle.Render("path:"), meta.Path)
			if meta.Revision != "" {
				fmt.Printf("%s %s\n", SubtitleStyle.Render("revision:"), meta.Revision)
			}
			if meta.LastModified > 0 {
				fmt.Printf("%s %s\n", SubtitleStyle.Render("modified:"),
					time.Unix(meta.LastModified, 0).UTC().Format(time.RFC3339))
			}
			return nil
		},
	}

	flakeShowCmd = &cobra.Command{
		Use:   "show [flake-ref]",
		Short: "Print a flake's output tree as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := nixcmd.FlakeShow{}
			if len(args) == 1 {
				op.Ref = args[0]
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
	flakeCmd.AddCommand(flakeMetadataCmd)
	flakeCmd.AddCommand(flakeShowCmd)
}
