// SPDX-License-Identifier: MPL-2.0

// Package config loads the process-level defaults for a nix Client.
//
// Settings are resolved with a fixed precedence: explicit values given by
// the caller win over GONIX_* environment variables, which win over an
// optional config.cue file in the platform config directory, which wins
// over built-in defaults. The config file is validated against an embedded
// CUE schema before it is merged into Viper.
//
// Loading performs no filesystem or network validation beyond resolving
// defaults; a misconfigured executable path surfaces only at invocation
// time, as a nix.SpawnError.
package config
