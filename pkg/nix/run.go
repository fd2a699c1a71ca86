// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"context"
	"fmt"

	"gonix/internal/invoke"

	"github.com/goccy/go-json"
)

// execution pairs a live invocation with the context that governs it. The
// context is derived from the caller's and additionally carries the Client
// timeout, so a deadline and an explicit cancel travel the same path.
type execution struct {
	inv    *invoke.Invocation
	ctx    context.Context
	cancel context.CancelFunc
}

// start encodes cmd and spawns the process. A failure to spawn is returned
// as a SpawnError; from that point on the invocation owns the process.
func (c *Client) start(ctx context.Context, cmd Command) (*execution, error) {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if c.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}

	argv := c.Argv(cmd)
	inv, err := invoke.Start(runCtx, invoke.Options{
		Path:        c.path,
		Args:        argv,
		Dir:         c.dir,
		Env:         c.env,
		StderrLimit: c.stderrLimit,
		KillGrace:   c.killGrace,
		Logger:      c.logger,
	})
	if err != nil {
		cancel()
		return nil, &SpawnError{
			Path:  c.path,
			Argv:  append([]string{c.path}, argv...),
			Cause: err,
		}
	}

	return &execution{inv: inv, ctx: runCtx, cancel: cancel}, nil
}

// finish waits for the invocation and applies the error precedence:
// cancellation first, then infrastructure failures, then non-zero exit.
// stdout is whatever the caller collected; on an ExitError it is attached
// for diagnostics only.
func (e *execution) finish(stdout []byte) error {
	defer e.cancel()

	code, err := e.inv.Wait()
	if ctxErr := e.ctx.Err(); ctxErr != nil {
		return &CanceledError{Argv: e.inv.Argv(), Cause: ctxErr}
	}
	if err != nil {
		return fmt.Errorf("nix: invocation failed: %w", err)
	}
	if code != 0 {
		return &ExitError{
			Argv:            e.inv.Argv(),
			Code:            code,
			Stderr:          e.inv.Stderr(),
			StderrTruncated: e.inv.StderrTruncated(),
			Stdout:          stdout,
		}
	}
	return nil
}

// runCollect executes cmd, drains stdout fully, then waits for completion.
// Exit status is only consulted after both pipes reached end-of-stream.
func (c *Client) runCollect(ctx context.Context, cmd Command) ([]byte, []string, error) {
	exe, err := c.start(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}

	var stdout []byte
	for chunk := range exe.inv.Stdout() {
		stdout = append(stdout, chunk...)
	}

	if err := exe.finish(stdout); err != nil {
		return nil, exe.inv.Argv(), err
	}
	return stdout, exe.inv.Argv(), nil
}

// RunText executes cmd and returns its complete stdout as text.
func RunText(ctx context.Context, c *Client, cmd Command) (string, error) {
	stdout, _, err := c.runCollect(ctx, cmd)
	if err != nil {
		return "", err
	}
	return string(stdout), nil
}

// RunJSON executes cmd, buffers its complete stdout, and decodes it into T.
// A decode failure is a ParseError, reported distinctly from a process
// failure: the tool itself exited zero.
func RunJSON[T any](ctx context.Context, c *Client, cmd Command) (T, error) {
	var result T

	stdout, argv, err := c.runCollect(ctx, cmd)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(stdout, &result); err != nil {
		var zero T
		return zero, &ParseError{Argv: argv, Raw: stdout, Cause: err}
	}
	return result, nil
}

// RunEmpty executes cmd, discards its stdout (still draining it, so the
// process can never block on a full pipe), and reports success purely by
// exit status.
func RunEmpty(ctx context.Context, c *Client, cmd Command) error {
	_, _, err := c.runCollect(ctx, cmd)
	return err
}

// RunStream executes cmd and returns a lazy stream of newline-delimited
// JSON records decoded into T. Records are yielded in stdout order as soon
// as their line is complete; the stream terminates at process exit and is
// not restartable. See Stream for the consumption contract.
func RunStream[T any](ctx context.Context, c *Client, cmd Command) (*Stream[T], error) {
	exe, err := c.start(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return &Stream[T]{exe: exe}, nil
}
