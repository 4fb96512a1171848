// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shellpath

import (
	"context"
	"runtime"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
)

func TestInterpreterUsesShellEnv(t *testing.T) {
	if runtime.GOOS == GOOSWindows {
		t.Skip("SHELL is not consulted on windows")
	}

	stub := gostub.New().SetEnv("SHELL", "/usr/local/bin/zsh")
	defer stub.Reset()

	shell, sw := Interpreter(context.Background())

	assert.Equal(t, "/usr/local/bin/zsh", shell)
	assert.Equal(t, commandSwitchUnix, sw)
}

func TestInterpreterFallsBackToBinSh(t *testing.T) {
	if runtime.GOOS == GOOSWindows {
		t.Skip("SHELL is not consulted on windows")
	}

	stub := gostub.New().UnsetEnv("SHELL")
	defer stub.Reset()

	shell, sw := Interpreter(context.Background())

	assert.Equal(t, binSh, shell)
	assert.Equal(t, commandSwitchUnix, sw)
}

func TestInterpreterWindows(t *testing.T) {
	if runtime.GOOS != GOOSWindows {
		t.Skip("windows only")
	}

	shell, sw := Interpreter(context.Background())

	assert.Contains(t, shell, cmdExe)
	assert.Equal(t, commandSwitchWindows, sw)
}
