// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/matt-FFFFFF/cmdpipe/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdpipe/internal/linetee"
	"github.com/matt-FFFFFF/cmdpipe/internal/shellpath"
)

var (
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToCreatePipe is returned when an operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrProcessWait is returned when waiting on the process failed.
	ErrProcessWait = errors.New("failed to wait for process")
)

// Run drives the node through its lifecycle: spawn the process, resolve the
// upstream pipe source, stream output and finalize the buffers.
//
// In synchronous mode Run blocks until the process has exited and the output
// buffers are final. In background mode Run returns as soon as the process
// handle exists; use Finish or the buffer accessors to wait for completion.
//
// A node runs at most once: a second call is a no-op returning nil. A
// non-zero exit status is not an error; it is reported by ReturnCode.
func (c *Command) Run(ctx context.Context) error {
	if err := c.checkComposition(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.hasRun {
		c.mu.Unlock()
		return nil
	}

	c.hasRun = true
	c.mu.Unlock()

	if c.background {
		go func() {
			c.bgErr = c.execute(ctx)
			close(c.done)
		}()

		// Readiness is signalled by the ready channel closing when the
		// process handle exists. If execution fails before the spawn, done
		// closes first and the spawn error is surfaced here.
		select {
		case <-c.ready:
			return nil
		case <-c.done:
			return c.bgErr
		}
	}

	err := c.execute(ctx)
	close(c.done)

	return err
}

// execute performs the full lifecycle for one process. The caller closes the
// done channel once execute returns; only then are the finalized buffers
// safe to read.
func (c *Command) execute(ctx context.Context) error {
	logger := ctxlog.Logger(ctx).With("command", c.name)

	cmdline := c.name
	if len(c.args) > 0 {
		cmdline += " " + strings.Join(c.args, " ")
	}

	shell, shellSwitch := shellpath.Interpreter(ctx)

	rIn, wIn, err := os.Pipe()
	if err != nil {
		return errors.Join(ErrFailedToCreatePipe, err)
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		closeFiles(rIn, wIn)
		return errors.Join(ErrFailedToCreatePipe, err)
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		closeFiles(rIn, wIn, rOut, wOut)
		return errors.Join(ErrFailedToCreatePipe, err)
	}

	logger.Debug("starting process", "shell", shell, "cmdline", cmdline)

	ps, err := os.StartProcess(shell, []string{filepath.Base(shell), shellSwitch, cmdline}, &os.ProcAttr{
		Files: []*os.File{rIn, wOut, wErr},
	})
	if err != nil {
		closeFiles(rIn, wIn, rOut, wOut, rErr, wErr)
		return errors.Join(ErrCouldNotStartProcess, err)
	}

	// The child holds its own copies of these ends now.
	closeFiles(rIn, wOut, wErr)

	h := &procHandle{ps: ps}
	c.setHandle(h)

	logger.Debug("process started", "pid", ps.Pid)

	c.stdoutTee = linetee.New(rOut)
	c.stderrTee = linetee.New(rErr)

	c.drainers.Add(2)

	go c.drain(ctx, c.stdoutTee, &c.stdoutQ)
	go c.drain(ctx, c.stderrTee, &c.stderrQ)

	// Resolving the upstream node blocks until it has fully finished, so the
	// stdin write below happens strictly after the upstream finalize.
	input, inputErr := c.resolveInput(ctx)
	if inputErr == nil {
		writeLines(ctx, wIn, input)
	}

	_ = wIn.Close()

	waitErr := h.wait()

	logger.Debug("process finished")

	c.drainers.Wait()
	closeFiles(rOut, rErr)

	c.finalize()

	if waitErr != nil {
		return errors.Join(ErrProcessWait, waitErr)
	}

	return inputErr
}

// resolveInput produces the bytes to feed to this node's stdin. An upstream
// node that has not yet run is run synchronously to completion first.
func (c *Command) resolveInput(ctx context.Context) ([]byte, error) {
	if c.upstream == nil {
		return c.literal, nil
	}

	up := c.upstream
	if !up.HasRun() {
		if err := up.Run(ctx); err != nil {
			return nil, fmt.Errorf("resolving pipe input: %w", err)
		}
	}

	// The accessors join the upstream drainers before returning, covering an
	// upstream that was started earlier in background mode.
	switch c.selector {
	case SelectStderr:
		return up.Stderr(), nil
	case SelectCombined:
		return up.CombinedOutput(), nil
	default:
		return up.Stdout(), nil
	}
}

// writeLines writes input to the process stdin one line-terminated chunk at
// a time, preserving every byte. A write failure means the process stopped
// reading; the remaining input is dropped.
func writeLines(ctx context.Context, w io.Writer, input []byte) {
	if len(input) == 0 {
		return
	}

	for _, line := range bytes.SplitAfter(input, []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}

		if _, err := w.Write(line); err != nil {
			ctxlog.Debug(ctx, "stdin write aborted", "error", err)
			return
		}
	}
}

// drain copies lines from one process stream into its dedicated queue, the
// combined queue and the combined buffer until the stream ends. Read errors
// end the loop without surfacing: a transient hiccup must not take down the
// pipeline, at the cost of losing diagnostics about the failed read.
func (c *Command) drain(ctx context.Context, tee *linetee.LineTee, q *StreamQueue) {
	defer c.drainers.Done()

	for {
		line, err := tee.Next()
		if len(line) > 0 {
			q.Push(line)
			c.combinedQ.Push(line)

			c.combinedMu.Lock()
			c.combinedBuf.Write(line)
			c.combinedMu.Unlock()
		}

		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				ctxlog.Debug(ctx, "stream read ended", "error", err)
			}

			return
		}
	}
}

// finalize fixes the output buffers and closes the queues. It must only be
// called after both drainers have been joined; each stream's buffer is
// assigned independently from its own capture.
func (c *Command) finalize() {
	c.finalizeOnce.Do(func() {
		if c.stdoutTee != nil {
			c.finalStdout = c.stdoutTee.Bytes()
		}

		if c.stderrTee != nil {
			c.finalStderr = c.stderrTee.Bytes()
		}

		c.combinedMu.Lock()
		c.finalCombined = bytes.Clone(c.combinedBuf.Bytes())
		c.combinedMu.Unlock()

		c.stdoutQ.Close()
		c.stderrQ.Close()
		c.combinedQ.Close()
	})
}

// Finish blocks until the process has exited, both drainers have been joined
// and the buffers are final. It is idempotent and a no-op for a node that
// has not run.
func (c *Command) Finish() {
	if !c.HasRun() {
		return
	}

	<-c.done
}

// Err returns the execution error of a background run, once finished.
func (c *Command) Err() error {
	c.Finish()
	return c.bgErr
}

// Stdout returns the finalized stdout bytes, calling Finish first if needed.
// Repeated calls return the same bytes.
func (c *Command) Stdout() []byte {
	c.Finish()
	return c.finalStdout
}

// Stderr returns the finalized stderr bytes, calling Finish first if needed.
// Repeated calls return the same bytes.
func (c *Command) Stderr() []byte {
	c.Finish()
	return c.finalStderr
}

// CombinedOutput returns the finalized interleaved stdout and stderr bytes
// in the order the drainers observed them, calling Finish first if needed.
// No ordering is guaranteed between the two streams beyond observation order.
func (c *Command) CombinedOutput() []byte {
	c.Finish()
	return c.finalCombined
}

// Running reports whether the process exists and has not exited.
func (c *Command) Running() bool {
	h := c.handle()
	return h != nil && h.running()
}

// Pid returns the process id once spawned. The second return value is false
// before the process exists.
func (c *Command) Pid() (int, bool) {
	h := c.handle()
	if h == nil {
		return 0, false
	}

	return h.pid(), true
}

// ReturnCode returns the process exit status. The second return value is
// false while the process is running or before it was spawned.
func (c *Command) ReturnCode() (int, bool) {
	h := c.handle()
	if h == nil {
		return 0, false
	}

	return h.exitCode()
}

// Kill delivers a termination signal to the running process. It fails with
// ErrNoSuchProcess when the node never started or has already finished. The
// drainers are not stopped; they observe process exit on their own.
func (c *Command) Kill() error {
	h := c.handle()
	if h == nil || !h.running() {
		pid := -1
		if h != nil {
			pid = h.pid()
		}

		return fmt.Errorf("%w: pid %d", ErrNoSuchProcess, pid)
	}

	return h.signal(syscall.SIGTERM)
}

func closeFiles(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
