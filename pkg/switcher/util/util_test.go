package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, EnsureDirExists(dir))
	assert.DirExists(t, dir)

	// already existing is fine
	require.NoError(t, EnsureDirExists(dir))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "missing.yaml")))
	assert.False(t, FileExists(dir))

	// stat errors other than not-exist (a file used as a path component)
	// report absence instead of blowing up
	assert.False(t, FileExists(filepath.Join(file, "child")))
}
