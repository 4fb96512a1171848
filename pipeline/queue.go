// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import "sync"

// StreamQueue is a FIFO of captured output lines. It is safe for concurrent
// use: the owning drainer pushes while a consumer pops.
type StreamQueue struct {
	mu     sync.Mutex
	items  [][]byte
	closed bool
}

// Push appends a line to the queue. Pushes after Close are dropped.
func (q *StreamQueue) Push(line []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.items = append(q.items, line)
}

// TryPop removes and returns the oldest line. The second return value is
// false when the queue is currently empty.
func (q *StreamQueue) TryPop() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}

	line := q.items[0]
	q.items = q.items[1:]

	return line, true
}

// Len returns the number of lines currently queued.
func (q *StreamQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

// Empty reports whether the queue is currently empty. The producing process
// may still be running, so a true result is a point-in-time observation only.
func (q *StreamQueue) Empty() bool {
	return q.Len() == 0
}

// Close marks the queue as complete. No further lines will be accepted.
func (q *StreamQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
}

// Done reports whether the queue is closed and fully drained. Unlike Empty,
// a true result is permanent.
func (q *StreamQueue) Done() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.closed && len(q.items) == 0
}
