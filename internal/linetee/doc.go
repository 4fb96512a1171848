// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package linetee provides a line-splitting capture reader. It wraps an
// io.Reader, returning complete lines one at a time while retaining the
// full byte capture for later use.
package linetee
