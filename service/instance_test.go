package service

import (
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstance(t *testing.T) {
	t.Parallel()

	// One 1x1 ICO entry holding PNG signature bytes only. Decoding succeeds,
	// materializing fails.
	dir := t.TempDir()
	ico := make([]byte, 6+16)
	binary.LittleEndian.PutUint16(ico[2:], 1)
	binary.LittleEndian.PutUint16(ico[4:], 1)
	ico[6], ico[7] = 1, 1
	binary.LittleEndian.PutUint32(ico[6+8:], 8)
	binary.LittleEndian.PutUint32(ico[6+12:], 22)
	ico = append(ico, "\x89PNG\r\n\x1a\n"...)
	src := filepath.Join(dir, "broken.ico")
	require.NoError(t, os.WriteFile(src, ico, 0o0600))

	cfg := &Config{
		DataDir:      dir,
		LogToStdout:  true,
		PersistCache: true,
	}
	require.NoError(t, cfg.Init())

	instance, err := New("v1.0.0", cfg)
	require.NoError(t, err)
	require.NoError(t, instance.Start())
	defer func() {
		require.NoError(t, instance.Stop())
	}()
	assert.Equal(t, "v1.0.0", instance.Version())
	assert.NotNil(t, instance.API())
	assert.NotNil(t, instance.Lookup())
	assert.FileExists(t, cfg.CachePath())

	inspection, err := instance.Loader().Inspect(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "ico", inspection.FormatName)

	_, err = instance.Loader().Load(context.Background(), src)
	require.Error(t, err)

	// The API does not serve local files the CLI can read.
	rec := httptest.NewRecorder()
	instance.API().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inspect?src="+url.QueryEscape(src), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
