// SPDX-License-Identifier: MPL-2.0

// Package nix is a typed façade over the nix command-line tool.
//
// A Client holds the per-session configuration applied to every invocation:
// executable path, global arguments, working directory, environment
// overrides, and timeout. A Command describes one operation as a value: its
// subcommand path plus its own arguments. The argument vector handed to the
// process is always assembled as
//
//	[global arguments] [subcommand tokens] [command arguments]
//
// which is the grammar nix requires; the ordering is enforced by Argv, not
// by caller discipline.
//
// Output is consumed according to the entry point used: RunText returns the
// full stdout, RunJSON decodes it into a typed value, RunStream yields
// newline-delimited JSON records incrementally, and RunEmpty discards it.
// Whatever the entry point, a non-zero exit always wins: the result is an
// ExitError carrying the captured stderr, even when stdout parsed cleanly.
//
// All failures are typed (SpawnError, ExitError, ParseError,
// RecordParseError, CanceledError) and carry the argument vector and
// captured diagnostics, so a caller can act on them without re-running the
// command. The core never retries.
package nix
