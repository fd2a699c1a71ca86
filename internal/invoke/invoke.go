// SPDX-License-Identifier: MPL-2.0

package invoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"sync"
	"time"

	"gonix/pkg/nixarg"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultStderrLimit caps captured stderr at 64 KiB. The pipe is drained
	// past the cap so the process never blocks on a full stderr buffer.
	DefaultStderrLimit = 64 << 10

	// DefaultKillGrace is the time a signaled process gets to exit before it
	// is hard-killed. The same bound applies to pipe draining after the
	// process has been reaped, in case orphaned grandchildren still hold the
	// write ends.
	DefaultKillGrace = 5 * time.Second

	// stdoutChunkSize is the read buffer size for the stdout drain loop.
	stdoutChunkSize = 32 << 10
)

type (
	// Options parameterizes one process invocation.
	Options struct {
		// Path is the executable to spawn.
		Path string
		// Args is argv[1:], already encoded into atomic tokens.
		Args []string
		// Dir is the working directory; empty means inherit.
		Dir string
		// Env holds environment overrides merged over the inherited process
		// environment. An override wins on key collision.
		Env map[string]string
		// StderrLimit caps captured stderr bytes; 0 means DefaultStderrLimit.
		StderrLimit int
		// KillGrace is the termination grace period; 0 means DefaultKillGrace.
		KillGrace time.Duration
		// Logger, when non-nil, receives debug logs for spawn and exit.
		Logger *log.Logger
	}

	// Invocation is one live run of the external tool. It is owned by the
	// caller of Start and is complete once Wait has returned.
	Invocation struct {
		cmd       *exec.Cmd
		argv      []string
		started   time.Time
		killGrace time.Duration
		logger    *log.Logger

		stdoutR *os.File
		stderrR *os.File
		chunks  chan []byte
		stderr  *cappedBuffer

		procDone  chan struct{}
		procErr   error
		drainDone chan struct{}
		drainErr  error

		waitOnce sync.Once
		exitCode int
		waitErr  error
	}
)

// Start spawns the process described by opts and begins draining both pipes.
// It returns as soon as the process is running; completion is observed via
// Wait. The returned error, if any, means the process could not be started
// at all.
//
// The context governs the process lifetime: once it is done the process
// group is signaled to stop and hard-killed after the grace period. Consume
// Stdout before calling Wait; chunks still undelivered when Wait times out
// the drain are discarded.
func Start(ctx context.Context, opts Options) (*Invocation, error) {
	if opts.StderrLimit <= 0 {
		opts.StderrLimit = DefaultStderrLimit
	}
	if opts.KillGrace <= 0 {
		opts.KillGrace = DefaultKillGrace
	}

	cmd := exec.CommandContext(ctx, opts.Path, opts.Args...)
	cmd.Dir = opts.Dir
	cmd.Env = mergeEnv(os.Environ(), opts.Env)
	cmd.Cancel = func() error { return gracefulStop(cmd.Process) }
	cmd.WaitDelay = opts.KillGrace
	cmd.SysProcAttr = sysProcAttr()

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("open stdout pipe: %w", err)
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		stdoutR.Close()
		stdoutW.Close()
		return nil, fmt.Errorf("open stderr pipe: %w", err)
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	inv := &Invocation{
		cmd:       cmd,
		argv:      append([]string{opts.Path}, opts.Args...),
		started:   time.Now(),
		killGrace: opts.KillGrace,
		logger:    opts.Logger,
		stdoutR:   stdoutR,
		stderrR:   stderrR,
		chunks:    make(chan []byte),
		stderr:    newCappedBuffer(opts.StderrLimit),
		procDone:  make(chan struct{}),
		drainDone: make(chan struct{}),
	}

	if err := cmd.Start(); err != nil {
		stdoutR.Close()
		stdoutW.Close()
		stderrR.Close()
		stderrW.Close()
		return nil, err
	}

	// The child holds its own copies of the write ends; release ours so the
	// read loops observe EOF when the child side closes.
	stdoutW.Close()
	stderrW.Close()

	if inv.logger != nil {
		inv.logger.Debug("process started",
			"pid", cmd.Process.Pid,
			"cmd", nixarg.ShellJoin(inv.argv))
	}

	go func() {
		inv.procErr = cmd.Wait()
		close(inv.procDone)
	}()

	drain := &errgroup.Group{}
	drain.Go(func() error { return inv.drainStdout(ctx) })
	drain.Go(func() error {
		_, err := io.Copy(inv.stderr, inv.stderrR)
		if err != nil && errors.Is(err, os.ErrClosed) {
			return nil
		}
		return err
	})
	go func() {
		inv.drainErr = drain.Wait()
		close(inv.drainDone)
	}()

	return inv, nil
}

// Argv returns the full argument vector, executable path included.
func (inv *Invocation) Argv() []string {
	return slices.Clone(inv.argv)
}

// Stdout returns the lazy sequence of stdout chunks. The channel is closed
// when the pipe reaches end-of-stream. Each chunk is owned by the receiver.
func (inv *Invocation) Stdout() <-chan []byte {
	return inv.chunks
}

// Stderr returns the captured stderr bytes, valid once Wait has returned.
func (inv *Invocation) Stderr() []byte {
	return inv.stderr.Bytes()
}

// StderrTruncated reports whether stderr exceeded the capture cap.
func (inv *Invocation) StderrTruncated() bool {
	return inv.stderr.Truncated()
}

// Wait blocks until the process has been reaped and both pipes reached
// end-of-stream, then returns the exit code. If orphaned grandchildren keep
// the pipes open past the grace period, the read ends are closed to unblock
// the drain. The error is non-nil only for infrastructure failures; a plain
// non-zero exit is reported through the code alone. Wait is idempotent.
func (inv *Invocation) Wait() (int, error) {
	inv.waitOnce.Do(func() {
		<-inv.procDone

		select {
		case <-inv.drainDone:
		case <-time.After(inv.killGrace):
			inv.stdoutR.Close()
			inv.stderrR.Close()
			<-inv.drainDone
		}
		inv.stdoutR.Close()
		inv.stderrR.Close()

		switch e := inv.procErr.(type) {
		case nil:
			inv.exitCode = 0
		case *exec.ExitError:
			inv.exitCode = e.ExitCode()
		default:
			inv.exitCode = -1
			inv.waitErr = inv.procErr
		}
		if inv.waitErr == nil && inv.drainErr != nil && inv.exitCode == 0 {
			inv.waitErr = fmt.Errorf("drain output: %w", inv.drainErr)
		}

		if inv.logger != nil {
			inv.logger.Debug("process exited",
				"pid", inv.cmd.Process.Pid,
				"code", inv.exitCode,
				"duration", time.Since(inv.started))
		}
	})
	return inv.exitCode, inv.waitErr
}

// drainStdout reads the pipe until end-of-stream, forwarding each chunk to
// the consumer. If the context is canceled while the consumer has stopped
// receiving, delivery is abandoned but the pipe keeps being drained so the
// dying process is never blocked on a full buffer.
func (inv *Invocation) drainStdout(ctx context.Context) error {
	defer close(inv.chunks)

	delivering := true
	buf := make([]byte, stdoutChunkSize)
	for {
		n, err := inv.stdoutR.Read(buf)
		if n > 0 && delivering {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case inv.chunks <- chunk:
			case <-ctx.Done():
				delivering = false
			}
		}
		if err != nil {
			if err == io.EOF || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

// mergeEnv appends overrides to the inherited environment in sorted key
// order. os/exec keeps the last value for a duplicated key, so an override
// always wins.
func mergeEnv(inherited []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return inherited
	}
	env := slices.Clone(inherited)
	for _, k := range slices.Sorted(maps.Keys(overrides)) {
		env = append(env, k+"="+overrides[k])
	}
	return env
}
