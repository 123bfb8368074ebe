package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.json.gz")

	require.NoError(t, WriteFile(path, sampleCatalog()))

	page, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 3)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestWriteFile_ReplacesExisting(t *testing.T) {
	path := createTestSnapshotFile(t, "catalog.json.gz", sampleCatalog())

	smaller := sampleCatalog()
	smaller.Items = smaller.Items[:1]
	smaller.Total = 1
	require.NoError(t, WriteFile(path, smaller))

	page, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestWriteFile_Error(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteFile(filepath.Join(blocker, "catalog.json.gz"), sampleCatalog())

	require.Error(t, err)
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Len(t, entries, 1)
}

func TestWriteFile_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "catalog.json.gz")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0o644))

	err := WriteFile(target, sampleCatalog())

	require.Error(t, err)
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Len(t, entries, 1, "temporary file removed after a failed rename")
}
