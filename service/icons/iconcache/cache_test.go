package iconcache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	c, err := New(Options{Size: 2})
	require.NoError(t, err)
	defer func() {
		_ = c.Close()
	}()

	_, err = c.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Put("https://example.com/app.icns", &Entry{
		MimeType: "image/png",
		Data:     []byte("png"),
	}))
	entry, err := c.Get("https://example.com/app.icns")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), entry.Data)
	assert.False(t, entry.Created.IsZero())
	assert.True(t, entry.Expires.IsZero())

	require.NoError(t, c.Delete("https://example.com/app.icns"))
	_, err = c.Get("https://example.com/app.icns")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPersistentCache(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache", "icons.bbolt")

	c, err := New(Options{Path: path})
	require.NoError(t, err)
	require.NoError(t, c.Put("1234", &Entry{
		MimeType: "image/png",
		Data:     []byte{1, 2, 3},
		Width:    512,
		Height:   512,
		Source:   "https://example.com/artwork.png",
	}))
	require.NoError(t, c.Close())

	// Reopen and read from the database.
	c, err = New(Options{Path: path})
	require.NoError(t, err)
	defer func() {
		_ = c.Close()
	}()

	entry, err := c.Get("1234")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, entry.Data)
	assert.Equal(t, 512, entry.Width)
	assert.Equal(t, "https://example.com/artwork.png", entry.Source)
}

func TestCacheExpiry(t *testing.T) {
	t.Parallel()

	c, err := New(Options{Path: filepath.Join(t.TempDir(), "icons.bbolt"), TTL: time.Hour})
	require.NoError(t, err)
	defer func() {
		_ = c.Close()
	}()

	require.NoError(t, c.Put("fresh", &Entry{Data: []byte("a")}))
	entry, err := c.Get("fresh")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), entry.Expires, time.Minute)

	require.NoError(t, c.Put("stale", &Entry{
		Data:    []byte("b"),
		Created: time.Now().Add(-2 * time.Hour),
		Expires: time.Now().Add(-time.Hour),
	}))
	_, err = c.Get("stale")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Put("stale2", &Entry{
		Data:    []byte("c"),
		Created: time.Now().Add(-2 * time.Hour),
		Expires: time.Now().Add(-time.Minute),
	}))
	purged, err := c.Purge()
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = c.Get("fresh")
	require.NoError(t, err)
}
