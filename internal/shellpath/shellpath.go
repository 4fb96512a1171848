// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package shellpath resolves the shell interpreter used to execute composed
// command lines.
package shellpath

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/matt-FFFFFF/cmdpipe/internal/ctxlog"
)

const (
	// GOOSWindows is the string constant for Windows OS from the runtime package.
	GOOSWindows          = "windows"
	commandSwitchWindows = "/C"         // Command switch for Windows cmd.exe
	commandSwitchUnix    = "-c"         // Command switch for Unix-like shells
	winSystem32          = "System32"   // System32 is the directory where cmd.exe is located on Windows.
	cmdExe               = "cmd.exe"    // cmdExe is the name of the command interpreter executable on Windows.
	binSh                = "/bin/sh"    // Default shell for Unix-like systems.
	winSystemRootEnv     = "SystemRoot" // Environment variable for Windows system root directory.
)

// Interpreter returns the path of the platform shell interpreter and the
// switch that makes it execute the next argument as a command line.
// On Unix-like systems the SHELL environment variable takes precedence.
func Interpreter(ctx context.Context) (string, string) {
	if runtime.GOOS == GOOSWindows {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return fmt.Sprintf(`%s\%s\%s`, systemRoot, winSystem32, cmdExe), commandSwitchWindows
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		ctxlog.Debug(ctx, "Using SHELL environment variable", "shell", shell)
		return shell, commandSwitchUnix
	}

	return binSh, commandSwitchUnix
}
