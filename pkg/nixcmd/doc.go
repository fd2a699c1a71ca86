// SPDX-License-Identifier: MPL-2.0

// Package nixcmd is a catalog of typed nix operations built on pkg/nix.
//
// Each operation is a plain value implementing nix.Command with an explicit,
// pure field-to-flag mapping in its Args method, plus a Run method that
// binds the operation to its natural output shape (JSON document, text, or
// exit status only). The catalog is open: new operations are added by
// writing another value like these, without touching the encoder or the
// invocation engine.
package nixcmd
