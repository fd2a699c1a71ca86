// SPDX-License-Identifier: MPL-2.0

package config

import (
	"time"

	"gonix/pkg/nix"
	"gonix/pkg/nixarg"

	"github.com/charmbracelet/log"
)

// Config is the process-level configuration for a nix Client.
type Config struct {
	// NixBin is the nix executable path; empty falls back to the Client's
	// own resolution ($GONIX_NIX_BIN, then "nix" on PATH).
	NixBin string `mapstructure:"nix_bin"`

	// GlobalArgs are tokens prepended to every invocation before the
	// subcommand, already in their final form (e.g.
	// "--extra-experimental-features", "flakes").
	GlobalArgs []string `mapstructure:"global_args"`

	// Dir is the working directory for every invocation.
	Dir string `mapstructure:"dir"`

	// Env holds environment overrides applied to every invocation.
	Env map[string]string `mapstructure:"env"`

	// Timeout bounds each invocation; zero means none.
	Timeout time.Duration `mapstructure:"timeout"`

	// StderrLimit caps captured stderr bytes; zero means the engine default.
	StderrLimit int `mapstructure:"stderr_limit"`

	// KillGrace is the window between graceful stop and hard kill; zero
	// means the engine default.
	KillGrace time.Duration `mapstructure:"kill_grace"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "warn",
	}
}

// ClientConfig converts the loaded configuration into a nix.Config. Global
// argument tokens from the config file are final already, so they map to
// Raw arguments that bypass re-encoding.
func (c *Config) ClientConfig(logger *log.Logger) nix.Config {
	args := make([]nixarg.Arg, 0, len(c.GlobalArgs))
	for _, tok := range c.GlobalArgs {
		args = append(args, nixarg.Raw(tok))
	}

	return nix.Config{
		Path:        c.NixBin,
		GlobalArgs:  args,
		Dir:         c.Dir,
		Env:         c.Env,
		Timeout:     c.Timeout,
		StderrLimit: c.StderrLimit,
		KillGrace:   c.KillGrace,
		Logger:      logger,
	}
}
