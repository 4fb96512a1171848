// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package exec contains the CLI command that runs an ad-hoc pipeline built
// from command lines given as arguments.
package exec

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matt-FFFFFF/cmdpipe/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdpipe/pipeline"
	"github.com/urfave/cli/v3"
)

const (
	stdinFlag = "stdin"

	pollInterval = 10 * time.Millisecond
)

// ErrEmptyCommand is returned when a command line argument contains no command.
var ErrEmptyCommand = errors.New("empty command line")

// ExecCmd is the command that runs an ad-hoc pipeline. Each argument is one
// command line; adjacent commands are joined stdout to stdin.
var ExecCmd = &cli.Command{
	Name: "exec",
	Description: `Run an ad-hoc pipeline of shell commands. Each argument is a
command line; adjacent commands are joined stdout to stdin, and the
pipeline's output is streamed as it is produced.

Example: cmdpipe exec "echo hello world" "grep hello"`,
	ArgsUsage: "COMMAND [COMMAND ...]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     stdinFlag,
			Usage:    "Feed this literal value to the first command's stdin.",
			OnlyOnce: true,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	cmdlines := cmd.Args().Slice()
	if len(cmdlines) == 0 {
		logger.Error("Please specify at least one command line to run.")
		return cli.Exit("", 1)
	}

	tail, err := buildChain(cmdlines, cmd.String(stdinFlag))
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to build pipeline: %s", err.Error()))
		return cli.Exit("", 1)
	}

	if err := tail.Background().Run(ctx); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// Poll the pair stream while the process is live; the queues may be
	// momentarily empty between polls even though more output is coming.
	for tail.Running() || !tail.StreamEmpty() {
		out, errLine := tail.NextLine()

		if out != nil {
			_, _ = cmd.Writer.Write(out)
		}

		if errLine != nil {
			_, _ = cmd.ErrWriter.Write(errLine)
		}

		if out == nil && errLine == nil {
			time.Sleep(pollInterval)
		}
	}

	if err := tail.Err(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if code, ok := tail.ReturnCode(); ok && code != 0 {
		return cli.Exit(fmt.Sprintf("pipeline exited with code %d", code), code)
	}

	return nil
}

// buildChain turns whitespace-split command lines into a stdout-joined chain
// and returns the tail node.
func buildChain(cmdlines []string, stdin string) (*pipeline.Command, error) {
	var tail *pipeline.Command

	for i, cl := range cmdlines {
		fields := strings.Fields(cl)
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: argument %d", ErrEmptyCommand, i)
		}

		args := make([]any, len(fields)-1)
		for j, f := range fields[1:] {
			args[j] = f
		}

		node := pipeline.New(fields[0], args...)

		if i == 0 {
			if stdin != "" {
				node.Input(stdin)
			}

			tail = node

			continue
		}

		tail = tail.Pipe(node)
	}

	return tail, nil
}
