// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"fmt"
	"os"

	"github.com/matt-FFFFFF/cmdpipe"
	"github.com/matt-FFFFFF/cmdpipe/cmd/exec"
	"github.com/matt-FFFFFF/cmdpipe/cmd/run"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
		exec.ExecCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "cmdpipe",
	Description: `Cmdpipe builds and executes pipelines of external shell commands.
Commands are composed into chains (stdout, stderr or combined output into the
next command's stdin, or a literal payload), run synchronously or in the
background, and their output is streamed line by line while they run.`,
	Usage:     "cmdpipe run -f mypipeline.yaml",
	Version:   fmt.Sprintf("%s (commit: %s)", cmdpipe.Version, cmdpipe.Commit),
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}
