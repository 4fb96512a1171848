// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLinesAfterSyncRun(t *testing.T) {
	skipOnWindows(t)

	defer goleak.VerifyNone(t)

	c := New("printf", `'one\ntwo\nthree\n'`)

	require.NoError(t, c.Run(testContext()))

	var got [][]byte
	for stdout, stderr := range c.Lines() {
		assert.Nil(t, stderr)
		got = append(got, stdout)
	}

	assert.Equal(t, [][]byte{
		[]byte("one\n"),
		[]byte("two\n"),
		[]byte("three\n"),
	}, got)
}

func TestLinesTerminatesWhenDrained(t *testing.T) {
	skipOnWindows(t)

	c := New("echo", "only")

	require.NoError(t, c.Run(testContext()))

	var count int
	for range c.Lines() {
		count++
	}

	assert.Equal(t, 1, count)
	assert.True(t, c.StreamEmpty())
}

func TestLinesDuringBackgroundRun(t *testing.T) {
	skipOnWindows(t)

	defer goleak.VerifyNone(t)

	c := New("sh", "-c", `'echo first; sleep 0.05; echo second; echo third 1>&2'`).Background()

	require.NoError(t, c.Run(testContext()))

	var stdoutLines, stderrLines bytes.Buffer
	for stdout, stderr := range c.Lines() {
		stdoutLines.Write(stdout)
		stderrLines.Write(stderr)
	}

	assert.Equal(t, "first\nsecond\n", stdoutLines.String())
	assert.Equal(t, "third\n", stderrLines.String())

	c.Finish()
	assert.False(t, c.Running())
}

func TestLinesYieldBreakStopsEarly(t *testing.T) {
	skipOnWindows(t)

	c := New("printf", `'a\nb\nc\n'`)

	require.NoError(t, c.Run(testContext()))

	var first []byte
	for stdout := range c.Lines() {
		first = stdout
		break
	}

	assert.Equal(t, []byte("a\n"), first)
	assert.False(t, c.StreamEmpty(), "breaking the iteration must leave the remaining lines queued")
}

func TestNextLinePollLoop(t *testing.T) {
	skipOnWindows(t)

	c := New("printf", `'x\ny\n'`)

	require.NoError(t, c.Run(testContext()))

	var out bytes.Buffer

	for !c.StreamEmpty() {
		stdout, stderr := c.NextLine()
		out.Write(stdout)
		assert.Nil(t, stderr)
	}

	assert.Equal(t, "x\ny\n", out.String())

	stdout, stderr := c.NextLine()
	assert.Nil(t, stdout)
	assert.Nil(t, stderr)
}
