package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoreline/internal/maps"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shoreline.yaml")
	doc := `
catalog_dir: content/catalog
edge_policy: clamp
diagonals: false
workers: 3
log_level: debug
ssh:
  addr: ":2022"
preview:
  default_map: Lake
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "content/catalog", cfg.CatalogDir)
	assert.Equal(t, "assets/maps", cfg.MapsDir, "unset keys keep defaults")
	assert.Equal(t, maps.EdgeClamp, cfg.EdgePolicy)
	assert.False(t, cfg.Diagonals)
	assert.Equal(t, ":2022", cfg.SSH.Addr)
	assert.Equal(t, "host_key", cfg.SSH.HostKey)
	assert.Equal(t, "Lake", cfg.Preview.DefaultMap)

	opts := cfg.RetileOptions()
	assert.Equal(t, maps.EdgeClamp, opts.Policy)
	assert.Equal(t, 3, opts.Workers)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown edge policy", "edge_policy: wrap\n"},
		{"negative workers", "workers: -1\n"},
		{"bad log level", "log_level: loud\n"},
		{"tiny png cell", "preview:\n  png_cell: 1\n"},
		{"unknown key", "edge_polcy: clamp\n"},
		{"unknown nested key", "preview:\n  default_mpa: harbor\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
