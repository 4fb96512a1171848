// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/matt-FFFFFF/cmdpipe/internal/linetee"
)

var (
	// ErrInvalidComposition is returned when a pipe builder's target is not a
	// valid command node, or when the resulting pipeline contains a cycle.
	ErrInvalidComposition = errors.New("invalid pipe composition")
	// ErrNoSuchProcess is returned by Kill when the target process is not
	// currently running.
	ErrNoSuchProcess = errors.New("no such process")
)

// StreamSelector identifies which of an upstream node's output streams feeds
// the downstream node's stdin.
type StreamSelector int

const (
	// SelectStdout feeds the upstream node's stdout (the default).
	SelectStdout StreamSelector = iota
	// SelectStderr feeds the upstream node's stderr.
	SelectStderr
	// SelectCombined feeds the interleaved union of stdout and stderr.
	SelectCombined
)

// Command is a composable command node: one external command invocation plus
// its execution state. A node spawns at most one OS process in its lifetime
// and exclusively owns that process, its two drainer goroutines and its three
// stream queues.
type Command struct {
	name string
	args []string

	// Exactly one of upstream and literal may be set; the selector chooses
	// which of the upstream node's streams is read.
	upstream   *Command
	selector   StreamSelector
	literal    []byte
	composeErr error

	background bool

	mu     sync.Mutex
	hasRun bool
	proc   *procHandle

	ready chan struct{} // closed once the process handle exists
	done  chan struct{} // closed once execution has fully finished

	drainers sync.WaitGroup

	stdoutQ   StreamQueue
	stderrQ   StreamQueue
	combinedQ StreamQueue

	stdoutTee *linetee.LineTee
	stderrTee *linetee.LineTee

	// The combined buffer has two writers, one per drainer, so unlike the
	// per-stream captures it needs its own lock.
	combinedMu  sync.Mutex
	combinedBuf bytes.Buffer

	finalizeOnce  sync.Once
	finalStdout   []byte
	finalStderr   []byte
	finalCombined []byte

	bgErr error // written by the background driver before done is closed
}

// New creates a command node for the named command. Arguments are coerced to
// strings with fmt.Sprint.
func New(name string, args ...any) *Command {
	return newCommand(name).Invoke(args...)
}

func newCommand(name string) *Command {
	return &Command{
		name:  name,
		ready: make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Invoke freezes the command line, replacing any previously set arguments,
// and returns the node so composition builders can act on it immediately.
func (c *Command) Invoke(args ...any) *Command {
	c.args = make([]string, 0, len(args))
	for _, a := range args {
		c.args = append(c.args, fmt.Sprint(a))
	}

	return c
}

// Name returns the command name the node was constructed with.
func (c *Command) Name() string {
	return c.name
}

// Args returns the frozen argument list.
func (c *Command) Args() []string {
	return c.args
}

// Pipe feeds this node's stdout into next's stdin and returns next, so that
// chains read left to right.
func (c *Command) Pipe(next *Command) *Command {
	return c.pipe(next, SelectStdout)
}

// PipeStderr feeds this node's stderr into next's stdin and returns next.
func (c *Command) PipeStderr(next *Command) *Command {
	return c.pipe(next, SelectStderr)
}

// PipeCombined feeds this node's interleaved stdout and stderr into next's
// stdin and returns next.
func (c *Command) PipeCombined(next *Command) *Command {
	return c.pipe(next, SelectCombined)
}

func (c *Command) pipe(next *Command, sel StreamSelector) *Command {
	if next == nil {
		bad := newCommand("")
		bad.composeErr = fmt.Errorf("%w: pipe target is not a command node", ErrInvalidComposition)

		return bad
	}

	next.upstream = c
	next.selector = sel
	next.literal = nil

	return next
}

// Input feeds v, string-coerced and encoded, to this node's stdin, replacing
// any upstream pipe source. It returns the node for fluent chaining.
func (c *Command) Input(v any) *Command {
	c.literal = []byte(fmt.Sprint(v))
	c.upstream = nil

	return c
}

// Background marks the node to run on its own goroutine. Run will return as
// soon as the process has been spawned instead of waiting for completion.
func (c *Command) Background() *Command {
	c.background = true

	return c
}

// HasRun reports whether the node has been executed. It stays true forever
// after the first Run.
func (c *Command) HasRun() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hasRun
}

// checkComposition walks the upstream chain before execution, surfacing any
// recorded composition error and rejecting cycles that would otherwise
// recurse indefinitely at run time.
func (c *Command) checkComposition() error {
	seen := make(map[*Command]struct{})

	for n := c; n != nil; n = n.upstream {
		if n.composeErr != nil {
			return n.composeErr
		}

		if _, ok := seen[n]; ok {
			return fmt.Errorf("%w: pipeline contains a cycle", ErrInvalidComposition)
		}

		seen[n] = struct{}{}
	}

	return nil
}

func (c *Command) handle() *procHandle {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.proc
}

func (c *Command) setHandle(h *procHandle) {
	c.mu.Lock()
	c.proc = h
	c.mu.Unlock()

	close(c.ready)
}
