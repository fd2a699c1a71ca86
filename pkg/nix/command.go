// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"slices"

	"gonix/pkg/nixarg"
)

type (
	// Command is the capability every operation implements: it knows its
	// subcommand path and how to map its fields to arguments. A Command is
	// an immutable value with no relation to any live process until it is
	// passed to one of the Run entry points; new operations are added by
	// implementing this interface, never by touching the encoder or the
	// invocation engine.
	//
	// The output shape is bound by the entry point a command is used with
	// (RunText, RunJSON, RunStream, RunEmpty); catalog types in pkg/nixcmd
	// each expose a Run method that fixes the right one.
	Command interface {
		// Subcommand returns the ordered subcommand tokens, e.g.
		// ["flake", "show"].
		Subcommand() []string

		// Args returns the operation's own arguments in order. The mapping
		// must be pure: same value, same arguments.
		Args() []nixarg.Arg
	}

	// Cmdline is an ad hoc Command for operations without a typed catalog
	// entry.
	Cmdline struct {
		// Path is the subcommand path, e.g. []string{"store", "gc"}.
		Path []string
		// Arguments are the operation's own arguments.
		Arguments []nixarg.Arg
	}
)

// Subcommand implements Command.
func (c Cmdline) Subcommand() []string { return slices.Clone(c.Path) }

// Args implements Command.
func (c Cmdline) Args() []nixarg.Arg { return slices.Clone(c.Arguments) }

// Argv assembles the full argument vector (excluding the executable) for
// cmd: encoded global arguments, then the subcommand tokens, then the
// command's own encoded arguments. Each input sequence keeps its internal
// order.
func (c *Client) Argv(cmd Command) []string {
	argv := nixarg.EncodeAll(c.globalArgs)
	argv = append(argv, cmd.Subcommand()...)
	return append(argv, nixarg.EncodeAll(cmd.Args())...)
}
