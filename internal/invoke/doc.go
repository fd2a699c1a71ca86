// SPDX-License-Identifier: MPL-2.0

// Package invoke spawns the external nix process and owns its pipes for the
// lifetime of one invocation.
//
// Start launches the process and immediately begins draining stdout and
// stderr on independent goroutines, so a process writing heavily to one pipe
// can never deadlock on the other's buffer. Stdout is delivered to the
// consumer as a lazy sequence of byte chunks; stderr is accumulated into a
// capped buffer for error reporting and kept draining past the cap.
//
// Cancellation is cooperative and graceful: when the context is done the
// process receives a termination signal, and if it has not exited within the
// configured grace period it is hard-killed. Wait returns only after both
// pipes reached EOF and the process was reaped, so no invocation leaks a
// running subprocess on any path.
package invoke
