// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pipefile loads YAML pipeline definitions and assembles them into
// command chains. A pipefile is a list of steps, each naming a command, its
// arguments and how it receives the previous step's output (stdout, stderr
// or combined); an optional literal stdin payload feeds the first step.
package pipefile
