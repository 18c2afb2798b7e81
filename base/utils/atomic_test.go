package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dest := filepath.Join(dir, "icon.png")

	require.NoError(t, WriteFileAtomic(dest, []byte("first"), 0o0600))
	require.NoError(t, WriteFileAtomic(dest, []byte("second"), 0o0644))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temp files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.Error(t, WriteFileAtomic(filepath.Join(dir, "missing", "icon.png"), nil, 0o0600))
}
