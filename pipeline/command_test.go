// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoercesArguments(t *testing.T) {
	c := New("echo", "hello", 42, true, 1.5)

	assert.Equal(t, "echo", c.Name())
	assert.Equal(t, []string{"hello", "42", "true", "1.5"}, c.Args())
}

func TestInvokeOverwritesArguments(t *testing.T) {
	c := New("echo", "first")
	c.Invoke("second", "third")

	assert.Equal(t, []string{"second", "third"}, c.Args())
}

func TestPipeReturnsDownstreamNode(t *testing.T) {
	a := New("echo", "abc")
	b := New("grep", "abc")

	got := a.Pipe(b)

	assert.Same(t, b, got, "Pipe should return the downstream node for fluent chaining")
}

func TestPipeSelectors(t *testing.T) {
	tests := []struct {
		name     string
		pipe     func(a, b *Command) *Command
		selector StreamSelector
	}{
		{
			name:     "stdout",
			pipe:     func(a, b *Command) *Command { return a.Pipe(b) },
			selector: SelectStdout,
		},
		{
			name:     "stderr",
			pipe:     func(a, b *Command) *Command { return a.PipeStderr(b) },
			selector: SelectStderr,
		},
		{
			name:     "combined",
			pipe:     func(a, b *Command) *Command { return a.PipeCombined(b) },
			selector: SelectCombined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New("echo", "x")
			b := New("cat")

			got := tt.pipe(a, b)

			assert.Same(t, b, got)
			assert.Same(t, a, b.upstream)
			assert.Equal(t, tt.selector, b.selector)
		})
	}
}

func TestInputReplacesUpstream(t *testing.T) {
	a := New("echo", "x")
	b := New("cat")

	a.Pipe(b)
	b.Input("literal value")

	assert.Nil(t, b.upstream, "a literal input replaces the upstream pipe source")
	assert.Equal(t, []byte("literal value"), b.literal)
}

func TestPipeNilTargetFailsAtRun(t *testing.T) {
	a := New("echo", "x")

	bad := a.Pipe(nil)
	require.NotNil(t, bad)

	err := bad.Run(context.Background())
	require.ErrorIs(t, err, ErrInvalidComposition)
}

func TestCyclicCompositionFailsAtRun(t *testing.T) {
	a := New("echo", "x")
	b := New("cat")

	a.Pipe(b)
	tail := b.Pipe(a)

	err := tail.Run(context.Background())
	require.ErrorIs(t, err, ErrInvalidComposition)
	assert.False(t, tail.HasRun(), "a rejected pipeline must not be marked as run")
}

func TestSelfPipeFailsAtRun(t *testing.T) {
	a := New("cat")

	tail := a.Pipe(a)

	err := tail.Run(context.Background())
	require.ErrorIs(t, err, ErrInvalidComposition)
}

func TestKillBeforeRun(t *testing.T) {
	c := New("sleep", "5")

	err := c.Kill()
	require.ErrorIs(t, err, ErrNoSuchProcess)
}

func TestQueriesBeforeRun(t *testing.T) {
	c := New("echo", "x")

	assert.False(t, c.Running())
	assert.False(t, c.HasRun())

	_, ok := c.Pid()
	assert.False(t, ok)

	_, ok = c.ReturnCode()
	assert.False(t, ok)
}
