// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package linetee

import (
	"bufio"
	"bytes"
	"io"
	"sync"
)

// LineTee reads from an underlying reader one line at a time and accumulates
// everything it has read. Bytes is safe to call concurrently with Next.
type LineTee struct {
	br   *bufio.Reader
	mu   sync.RWMutex
	full bytes.Buffer
}

// New creates a LineTee wrapping the given reader.
func New(r io.Reader) *LineTee {
	return &LineTee{
		br: bufio.NewReader(r),
	}
}

// Next returns the next newline-terminated line, including the terminator.
// At end of stream it returns any unterminated tail bytes together with the
// error from the underlying reader, typically io.EOF.
func (lt *LineTee) Next() ([]byte, error) {
	line, err := lt.br.ReadBytes('\n')
	if len(line) > 0 {
		lt.mu.Lock()
		lt.full.Write(line)
		lt.mu.Unlock()
	}

	return line, err //nolint:wrapcheck
}

// Bytes returns a copy of everything read so far.
func (lt *LineTee) Bytes() []byte {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return bytes.Clone(lt.full.Bytes())
}

// Len returns the number of bytes read so far.
func (lt *LineTee) Len() int {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return lt.full.Len()
}
