// SPDX-License-Identifier: MPL-2.0

// Package nixarg models command-line arguments for the nix CLI as typed
// values and encodes them into argv tokens.
//
// An Arg is one of five kinds: Flag (--name), Option (--name value),
// Positional (value), List (a repeated Option), or Raw (a literal token that
// bypasses all processing). Encode and EncodeAll turn Args into the exact
// token sequence handed to the process; ShellString and ShellJoin render
// tokens as a copy-pasteable shell line for logs and error reports, quoting
// via mvdan.cc/sh so that embedded whitespace and metacharacters survive a
// shell tokenizer intact.
//
// Encoding is deterministic: the same Arg sequence always yields the same
// tokens, byte for byte.
package nixarg
