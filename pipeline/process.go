// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"os"
	"sync"
)

// procHandle owns the spawned OS process for a single command node. The
// process is spawned at most once per node and is never shared across nodes.
type procHandle struct {
	mu    sync.Mutex
	ps    *os.Process
	state *os.ProcessState
}

func (h *procHandle) pid() int {
	return h.ps.Pid
}

// running reports whether the process exists and has not yet been waited on.
func (h *procHandle) running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.ps != nil && h.state == nil
}

// exitCode returns the process exit status once the process has been waited
// on. The second return value is false while the process is still running.
func (h *procHandle) exitCode() (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == nil {
		return 0, false
	}

	return h.state.ExitCode(), true
}

// wait blocks until the process exits and records its final state.
func (h *procHandle) wait() error {
	state, err := h.ps.Wait()

	h.mu.Lock()
	h.state = state
	h.mu.Unlock()

	return err //nolint:wrapcheck
}

func (h *procHandle) signal(sig os.Signal) error {
	return h.ps.Signal(sig) //nolint:wrapcheck
}
