// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pipeline provides composable command nodes for building and
// executing pipelines of external shell commands. Nodes are chained with
// pipe builders (stdout, stderr or combined output into the next node's
// stdin, or a literal payload), run synchronously or in the background, and
// expose their output both as finalized byte buffers and as a live stream
// of (stdout, stderr) line pairs.
package pipeline
