// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"maps"
	"os"
	"slices"
	"time"

	"gonix/pkg/nixarg"

	"github.com/charmbracelet/log"
)

const (
	// DefaultPath is the built-in executable default, resolved via PATH.
	DefaultPath = "nix"

	// PathEnvVar overrides the executable default at the process level.
	// Precedence: explicit Config.Path > PathEnvVar > DefaultPath.
	PathEnvVar = "GONIX_NIX_BIN"
)

type (
	// Config collects the knobs applied to every invocation made through a
	// Client. The zero value is usable: it resolves to the `nix` binary on
	// PATH with no global arguments and no timeout.
	Config struct {
		// Path is the nix executable. Empty means: $GONIX_NIX_BIN if set,
		// otherwise "nix". Resolution errors (executable not found) surface
		// at invocation time as a SpawnError, never at construction.
		Path string

		// GlobalArgs are prepended before the subcommand tokens of every
		// command, in order (e.g. --extra-experimental-features flakes).
		GlobalArgs []nixarg.Arg

		// Dir is the working directory for every invocation; empty means
		// inherit the caller's.
		Dir string

		// Env holds environment overrides merged over the inherited process
		// environment; an override wins on key collision.
		Env map[string]string

		// Timeout, when positive, cancels an invocation that has not
		// produced an exit status by the deadline, identically to explicit
		// cancellation.
		Timeout time.Duration

		// StderrLimit caps captured stderr bytes; 0 means the engine
		// default (64 KiB).
		StderrLimit int

		// KillGrace is the window between the graceful stop signal and the
		// hard kill; 0 means the engine default (5s).
		KillGrace time.Duration

		// Logger, when non-nil, receives debug logs for every spawn/exit.
		Logger *log.Logger
	}

	// Client is the immutable per-session context threaded through every
	// call. Construct it once with New and share it freely: a Client is
	// never mutated after construction, so arbitrarily many concurrent
	// invocations may read it. To change settings, build a new Client.
	Client struct {
		path        string
		globalArgs  []nixarg.Arg
		dir         string
		env         map[string]string
		timeout     time.Duration
		stderrLimit int
		killGrace   time.Duration
		logger      *log.Logger
	}
)

// New constructs a Client from cfg, applying the executable-path precedence
// and copying every slice and map so later mutation of cfg cannot leak into
// the Client.
func New(cfg Config) *Client {
	path := cfg.Path
	if path == "" {
		path = os.Getenv(PathEnvVar)
	}
	if path == "" {
		path = DefaultPath
	}

	return &Client{
		path:        path,
		globalArgs:  slices.Clone(cfg.GlobalArgs),
		dir:         cfg.Dir,
		env:         maps.Clone(cfg.Env),
		timeout:     cfg.Timeout,
		stderrLimit: cfg.StderrLimit,
		killGrace:   cfg.KillGrace,
		logger:      cfg.Logger,
	}
}

// Path returns the resolved executable path.
func (c *Client) Path() string { return c.path }

// GlobalArgs returns a copy of the global arguments.
func (c *Client) GlobalArgs() []nixarg.Arg { return slices.Clone(c.globalArgs) }

// Dir returns the configured working directory.
func (c *Client) Dir() string { return c.dir }

// Timeout returns the per-invocation timeout; zero means none.
func (c *Client) Timeout() time.Duration { return c.timeout }
