// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"iter"
	"time"
)

// streamPollInterval is how long the iterator sleeps when both queues are
// momentarily empty but not yet closed.
const streamPollInterval = time.Millisecond

// NextLine pops the next available stdout and stderr lines captured while
// the process runs. Either side may be nil when that stream has nothing
// queued at the instant of the call.
func (c *Command) NextLine() (stdout, stderr []byte) {
	stdout, _ = c.stdoutQ.TryPop()
	stderr, _ = c.stderrQ.TryPop()

	return stdout, stderr
}

// StreamEmpty reports whether both the stdout and stderr queues are empty.
// The process may still be producing output, so callers polling NextLine
// should guard on Running as well.
func (c *Command) StreamEmpty() bool {
	return c.stdoutQ.Empty() && c.stderrQ.Empty()
}

// Lines returns an iterator over (stdout, stderr) line pairs captured while
// the process runs. Every yielded pair has at least one non-nil side.
// Iteration ends only when both queues are closed and fully drained, so a
// momentarily quiet process does not end the stream early. Iterating a node
// that never runs blocks forever.
func (c *Command) Lines() iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		for {
			stdout, okOut := c.stdoutQ.TryPop()
			stderr, okErr := c.stderrQ.TryPop()

			if okOut || okErr {
				if !yield(stdout, stderr) {
					return
				}

				continue
			}

			if c.stdoutQ.Done() && c.stderrQ.Done() {
				return
			}

			time.Sleep(streamPollInterval)
		}
	}
}
