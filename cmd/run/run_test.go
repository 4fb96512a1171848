// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/matt-FFFFFF/cmdpipe/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_getURL(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name      string
		url       string
		wantErr   error
		wantBytes []byte
	}{
		{
			name:    "empty url returns error",
			url:     "",
			wantErr: ErrGetPipefile,
		},
		{
			name:    "nonexistent path returns error",
			url:     "./testdata/does-not-exist.yaml",
			wantErr: ErrGetPipefile,
		},
		{
			name:      "local file succeeds",
			url:       "./testdata/pipefile.yaml",
			wantErr:   nil,
			wantBytes: []byte("name: test\nsteps:\n  - command: echo\n    args: [\"hi\"]\n"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			data, err := getURL(ctx, tc.url)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, data)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.wantBytes, data)
			}
		})
	}
}

func Test_loadDefinition(t *testing.T) {
	def, err := loadDefinition(context.Background(), "./testdata/pipefile.yaml")
	require.NoError(t, err)

	assert.Equal(t, "test", def.Name)
	require.Len(t, def.Steps, 1)
	assert.Equal(t, "echo", def.Steps[0].Command)
}

func Test_streamPipeline(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping unix shell test on windows")
	}

	tail := pipeline.New("sh", "-c", `'echo out; echo err 1>&2'`)

	var stdout, stderr bytes.Buffer

	err := streamPipeline(context.Background(), &stdout, &stderr, tail)
	require.NoError(t, err)

	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
}
