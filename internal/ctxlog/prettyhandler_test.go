// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrettyHandler(t *testing.T) {
	tests := []struct {
		name    string
		options *slog.HandlerOptions
		opts    []Option
	}{
		{
			name:    "with nil options",
			options: nil,
			opts:    []Option{},
		},
		{
			name: "with custom options",
			options: &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			},
			opts: []Option{},
		},
		{
			name:    "with functional options",
			options: &slog.HandlerOptions{},
			opts: []Option{
				WithColour(),
				WithOutputEmptyAttrs(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewPrettyHandler(tt.options, tt.opts...)
			require.NotNil(t, handler)
			assert.NotNil(t, handler.h, "inner handler should be set")
			assert.NotNil(t, handler.b, "buffer should be set")
			assert.NotNil(t, handler.m, "mutex should be set")
		})
	}
}

func TestPrettyHandlerHandle(t *testing.T) {
	var buf bytes.Buffer

	handler := NewPrettyHandler(&slog.HandlerOptions{
		Level: slog.LevelDebug,
	}, WithDestinationWriter(&buf))

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "test message", 0)
	record.AddAttrs(slog.String("key", "value"))

	require.NoError(t, handler.Handle(context.Background(), record))

	out := buf.String()
	assert.Contains(t, out, "test message")
	assert.Contains(t, out, "key")
	assert.Contains(t, out, "value")
}

func TestPrettyHandlerEnabled(t *testing.T) {
	handler := NewPrettyHandler(&slog.HandlerOptions{
		Level: slog.LevelWarn,
	}, WithDestinationWriter(&bytes.Buffer{}))

	ctx := context.Background()
	assert.False(t, handler.Enabled(ctx, slog.LevelDebug))
	assert.False(t, handler.Enabled(ctx, slog.LevelInfo))
	assert.True(t, handler.Enabled(ctx, slog.LevelWarn))
	assert.True(t, handler.Enabled(ctx, slog.LevelError))
}

func TestPrettyHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer

	handler := NewPrettyHandler(nil, WithDestinationWriter(&buf))

	withAttrs := handler.WithAttrs([]slog.Attr{slog.String("component", "test")})
	require.NotNil(t, withAttrs)

	withGroup := handler.WithGroup("group")
	require.NotNil(t, withGroup)

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "grouped", 0)
	require.NoError(t, withAttrs.Handle(context.Background(), record))
	assert.Contains(t, buf.String(), "component")
}

func TestPrettyHandlerNoAttrs(t *testing.T) {
	var buf bytes.Buffer

	handler := NewPrettyHandler(nil, WithDestinationWriter(&buf))

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "bare message", 0)
	require.NoError(t, handler.Handle(context.Background(), record))

	out := buf.String()
	assert.Contains(t, out, "bare message")
	assert.NotContains(t, out, "{}", "empty attrs should be suppressed by default")
}
