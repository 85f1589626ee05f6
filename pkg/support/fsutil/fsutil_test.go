// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"os"
	"os/user"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceTildeInDir(t *testing.T) {
	usr, err := user.Current()
	require.NoError(t, err)
	for dir, want := range map[string]string{
		"~/reports": path.Join(usr.HomeDir, "reports"),
		"~":         usr.HomeDir,
		"/tmp/x":    "/tmp/x",
		"":          "",
	} {
		got, err := ReplaceTildeInDir(dir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err = ReplaceTildeInDir("~user-that-does-not-exist-7/x")
	assert.Error(t, err)
}

func TestCreateOutput(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "report.txt")
	exists, err := FileExists(filePath)
	require.NoError(t, err)
	assert.False(t, exists)

	f, err := CreateOutput(filePath, false)
	require.NoError(t, err)
	_, err = f.WriteString("tape")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	exists, err = FileExists(filePath)
	require.NoError(t, err)
	assert.True(t, exists)
	_, err = CreateOutput(filePath, false)
	assert.Error(t, err)

	f, err = CreateOutput(filePath, true)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	contents, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Empty(t, contents)
}
