// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gonix/internal/config"
	"gonix/pkg/nix"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose forces debug logging regardless of the configured level.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string
	// nixBin overrides the configured nix executable.
	nixBin string
	// timeout overrides the configured per-invocation timeout.
	timeout time.Duration

	// cfg is the loaded configuration, populated before any RunE runs.
	cfg *config.Config
	// logger is shared by the CLI and handed to the client for spawn/exit
	// debug logs.
	logger *log.Logger

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "gonix",
		Short: "A typed front end for the nix CLI",
		Long: TitleStyle.Render("gonix") + SubtitleStyle.Render(" - A typed front end for the nix CLI") + `

gonix wraps the nix command-line tool behind typed operations: arguments
are encoded field by field, output is decoded per command, and failures
carry the tool's own exit code and stderr.

` + SubtitleStyle.Render("Examples:") + `
  gonix eval nixpkgs#lib.version        Evaluate and print JSON
  gonix eval --raw nixpkgs#lib.version  Evaluate and print the bare string
  gonix build nixpkgs#hello             Build and print store outputs
  gonix flake metadata nixpkgs          Inspect a flake
  gonix raw -- store gc                 Pass a subcommand through verbatim`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/gonix/config.cue)")
	rootCmd.PersistentFlags().StringVar(&nixBin, "nix-bin", "", "nix executable to invoke (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-invocation timeout (overrides config)")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(flakeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(rawCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads the config file and environment overrides.
func initRootConfig() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
		loaded = config.DefaultConfig()
	}
	cfg = loaded

	level := log.WarnLevel
	if parsed, err := log.ParseLevel(cfg.LogLevel); err == nil {
		level = parsed
	}
	if verbose {
		level = log.DebugLevel
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
		Prefix:          "gonix",
	})
}

// newClient builds the nix client from the loaded configuration with flag
// overrides applied on top.
func newClient() *nix.Client {
	clientCfg := cfg.ClientConfig(logger)
	if nixBin != "" {
		clientCfg.Path = nixBin
	}
	if timeout > 0 {
		clientCfg.Timeout = timeout
	}
	return nix.New(clientCfg)
}

// runError converts an invocation failure into the CLI's exit semantics:
// the tool's own exit code is propagated, its stderr shown once.
func runError(err error) error {
	var exitErr *nix.ExitError
	if errors.As(err, &exitErr) {
		if len(exitErr.Stderr) > 0 {
			fmt.Fprint(os.Stderr, string(exitErr.Stderr))
			if exitErr.StderrTruncated {
				fmt.Fprintln(os.Stderr, WarningStyle.Render("... stderr truncated"))
			}
		}
		return &ExitError{Code: exitErr.Code, Err: err}
	}
	return err
}
