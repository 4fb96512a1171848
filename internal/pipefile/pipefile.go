// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipefile

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/cmdpipe/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdpipe/pipeline"
	"github.com/spf13/afero"
)

const (
	pipeStdout   = "stdout"
	pipeStderr   = "stderr"
	pipeCombined = "combined"
)

var (
	// ErrReadPipefile is returned when the pipefile cannot be read.
	ErrReadPipefile = errors.New("failed to read pipefile")
	// ErrUnmarshalPipefile is returned when the pipefile cannot be unmarshaled.
	ErrUnmarshalPipefile = errors.New("failed to unmarshal pipefile")
	// ErrInvalidPipefile is returned when the pipefile fails validation.
	ErrInvalidPipefile = errors.New("invalid pipefile")
)

// Definition is the YAML definition of a pipeline.
type Definition struct {
	// Name is an optional label for the pipeline.
	Name string `yaml:"name,omitempty"`
	// Stdin is an optional literal payload fed to the first step's stdin.
	Stdin string `yaml:"stdin,omitempty"`
	// Steps are executed as a chain, each step's stdin fed from the
	// previous step's selected output stream.
	Steps []StepDefinition `yaml:"steps"`
}

// StepDefinition is one command in the chain.
type StepDefinition struct {
	// Command is the command name to execute.
	Command string `yaml:"command"`
	// Args are the command arguments.
	Args []string `yaml:"args,omitempty"`
	// Pipe selects which of the previous step's streams feeds this step's
	// stdin: "stdout" (default), "stderr" or "combined". Not valid on the
	// first step.
	Pipe string `yaml:"pipe,omitempty"`
}

// Load reads and parses a pipeline definition from the filesystem.
func Load(fs afero.Fs, path string) (*Definition, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Join(ErrReadPipefile, err)
	}

	return Parse(data)
}

// Parse unmarshals and validates a pipeline definition.
func Parse(data []byte) (*Definition, error) {
	def := new(Definition)
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, errors.Join(ErrUnmarshalPipefile, err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return def, nil
}

// Validate checks every step, accumulating all problems rather than stopping
// at the first.
func (d *Definition) Validate() error {
	var merr *multierror.Error

	if len(d.Steps) == 0 {
		merr = multierror.Append(merr, fmt.Errorf("%w: at least one step is required", ErrInvalidPipefile))
	}

	for i, s := range d.Steps {
		if s.Command == "" {
			merr = multierror.Append(merr, fmt.Errorf("%w: step %d has no command", ErrInvalidPipefile, i))
		}

		switch s.Pipe {
		case "", pipeStdout, pipeStderr, pipeCombined:
		default:
			merr = multierror.Append(merr, fmt.Errorf("%w: step %d has unknown pipe selector %q", ErrInvalidPipefile, i, s.Pipe))
		}

		if i == 0 && s.Pipe != "" {
			merr = multierror.Append(merr, fmt.Errorf("%w: first step cannot have a pipe selector", ErrInvalidPipefile))
		}
	}

	return merr.ErrorOrNil() //nolint:wrapcheck
}

// Build assembles the command chain and returns its tail node. Running the
// tail resolves and runs the upstream steps in order.
func (d *Definition) Build(ctx context.Context) (*pipeline.Command, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var tail *pipeline.Command

	for i, s := range d.Steps {
		args := make([]any, len(s.Args))
		for j, a := range s.Args {
			args[j] = a
		}

		node := pipeline.New(s.Command, args...)

		if i == 0 {
			if d.Stdin != "" {
				node.Input(d.Stdin)
			}

			tail = node

			continue
		}

		switch s.Pipe {
		case pipeStderr:
			tail = tail.PipeStderr(node)
		case pipeCombined:
			tail = tail.PipeCombined(node)
		default:
			tail = tail.Pipe(node)
		}
	}

	ctxlog.Debug(ctx, "built pipeline", "name", d.Name, "steps", len(d.Steps))

	return tail, nil
}
