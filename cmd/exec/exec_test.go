// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChainSingleCommand(t *testing.T) {
	tail, err := buildChain([]string{"echo hello world"}, "")
	require.NoError(t, err)

	assert.Equal(t, "echo", tail.Name())
	assert.Equal(t, []string{"hello", "world"}, tail.Args())
}

func TestBuildChainJoinsCommands(t *testing.T) {
	tail, err := buildChain([]string{"echo abc", "grep abc", "wc -l"}, "")
	require.NoError(t, err)

	assert.Equal(t, "wc", tail.Name())
	assert.Equal(t, []string{"-l"}, tail.Args())
}

func TestBuildChainEmptyCommandLine(t *testing.T) {
	_, err := buildChain([]string{"echo ok", "   "}, "")
	require.ErrorIs(t, err, ErrEmptyCommand)
	assert.Contains(t, err.Error(), "argument 1")
}

func TestBuildChainStdin(t *testing.T) {
	tail, err := buildChain([]string{"cat"}, "payload")
	require.NoError(t, err)
	assert.Equal(t, "cat", tail.Name())
}
