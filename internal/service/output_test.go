package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteProjectIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")

	written, err := WriteProjectIDs([]string{"p1", "p2", "p3"}, path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "p1\np2\np3\n", string(content))
}

func TestWriteProjectIDsOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	_, err := WriteProjectIDs([]string{"p1"}, path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "p1\n", string(content))
}

func TestWriteProjectIDsBadPath(t *testing.T) {
	_, err := WriteProjectIDs([]string{"p1"}, filepath.Join(t.TempDir(), "missing", "ids.txt"))
	assert.Error(t, err)
}

func TestDefaultOutputPath(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.Equal(t, "project_ids_1700000000.txt", DefaultOutputPath(now))
}
