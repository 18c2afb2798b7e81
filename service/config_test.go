package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/iconloader/service/icons"
)

func TestConfigInit(t *testing.T) {
	t.Parallel()

	cfg := &Config{DataDir: t.TempDir()}
	require.NoError(t, cfg.Init())
	assert.Equal(t, filepath.Join(cfg.DataDir, "logs"), cfg.LogDir)
	assert.Equal(t, DefaultListenAddress, cfg.ListenAddress)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, icons.SelectFirst, cfg.Policy())
	assert.Equal(t, "first", cfg.SelectionPolicy)
	assert.Equal(t, filepath.Join(cfg.DataDir, "cache", "icons.bbolt"), cfg.CachePath())

	cfg = &Config{DataDir: t.TempDir(), SelectionPolicy: "best"}
	require.ErrorIs(t, cfg.Init(), icons.ErrInvalidPolicy)

	cfg = &Config{DataDir: t.TempDir(), LogLevel: "loud"}
	require.Error(t, cfg.Init())

	cfg = &Config{DataDir: t.TempDir(), MaxEdge: -1}
	require.Error(t, cfg.Init())
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "iconloader.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dataDir: `+dir+`
logLevel: debug
cacheTTL: 24h
fetchTimeout: 5s
selectionPolicy: largest
maxEdge: 128
lookup:
  country: US
  lang: en
`), 0o0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Init())
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, icons.SelectLargest, cfg.Policy())
	assert.Equal(t, 128, cfg.MaxEdge)
	assert.Equal(t, "US", cfg.Lookup.Country)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("cacheTTL: [nope"), 0o0600))
	_, err = LoadConfig(path)
	require.Error(t, err)
}
