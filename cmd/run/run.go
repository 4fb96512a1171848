// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run contains the CLI command that executes a pipeline defined in a
// YAML pipefile.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/cmdpipe/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdpipe/internal/pipefile"
	"github.com/matt-FFFFFF/cmdpipe/pipeline"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	fileFlag = "file"
)

// ErrGetPipefile is returned when the pipefile cannot be retrieved.
var ErrGetPipefile = errors.New("failed to get pipefile")

// RunCmd is the command that runs a pipeline defined in a YAML pipefile.
var RunCmd = &cli.Command{
	Name: "run",
	Description: `Run a pipeline of shell commands defined in a YAML pipefile.
Each step's stdin is fed from the previous step's selected output stream
(stdout, stderr or combined), and the pipeline's output is streamed line by
line as it is produced.

Pipefile URLs use Hashicorp's go-getter syntax, which allows for fetching
files from various sources. See https://github.com/hashicorp/go-getter.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      fileFlag,
			Aliases:   []string{"f"},
			Usage:     "Specify the path or URL of the YAML pipefile to run.",
			TakesFile: true,
			OnlyOnce:  true,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	src := cmd.String(fileFlag)
	if src == "" {
		logger.Error("Please specify the pipefile with the --file or -f flag.")
		return cli.Exit("", 1)
	}

	def, err := loadDefinition(ctx, src)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to load pipefile %s: %s", src, err.Error()))
		return cli.Exit("", 1)
	}

	tail, err := def.Build(ctx)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to build pipeline from %s: %s", src, err.Error()))
		return cli.Exit("", 1)
	}

	return streamPipeline(ctx, cmd.Writer, cmd.ErrWriter, tail)
}

// loadDefinition reads the pipefile from a local path or, failing that, from
// any URL supported by go-getter.
func loadDefinition(ctx context.Context, src string) (*pipefile.Definition, error) {
	if _, err := os.Stat(src); err == nil {
		return pipefile.Load(afero.NewOsFs(), src) //nolint:wrapcheck
	}

	data, err := getURL(ctx, src)
	if err != nil {
		return nil, err
	}

	return pipefile.Parse(data) //nolint:wrapcheck
}

// getURL retrieves the content from the specified URL using Hashicorp's
// go-getter. The temporary file is removed after reading its content.
func getURL(ctx context.Context, url string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "cmdpipe-getter-*")
	if err != nil {
		return nil, errors.Join(ErrGetPipefile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetPipefile, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	dst := filepath.Join(tmpDir, "pipefile.yaml")

	req := &getter.Request{
		Src:     url,
		Dst:     dst,
		Pwd:     wd,
		GetMode: getter.ModeFile,
	}

	if _, err := client.Get(ctx, req); err != nil {
		return nil, errors.Join(ErrGetPipefile, err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		return nil, errors.Join(ErrGetPipefile, err)
	}

	return data, nil
}

// streamPipeline runs the tail node in the background and writes each
// captured line as it arrives, stdout lines to w and stderr lines to ew.
func streamPipeline(ctx context.Context, w, ew io.Writer, tail *pipeline.Command) error {
	if err := tail.Background().Run(ctx); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	for out, errLine := range tail.Lines() {
		if out != nil {
			_, _ = w.Write(out)
		}

		if errLine != nil {
			_, _ = ew.Write(errLine)
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
