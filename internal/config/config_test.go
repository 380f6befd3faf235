package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "virtualize.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, SourceMemory, cfg.Source.Kind)
	assert.Equal(t, defaultCount, cfg.Source.Count)
	assert.Equal(t, 1, cfg.List.ItemHeight)
	assert.Equal(t, defaultDataDirectory, cfg.Options.DataDirectory)
	assert.True(t, cfg.ScrollbarEnabled())

	latency, err := cfg.Latency()
	require.NoError(t, err)
	assert.Zero(t, latency)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{
		"source": {"kind": "sqlite", "latency": "150ms", "path": "items.db"},
		"list": {"item_height": 3, "placeholder": "loading…", "scrollbar": false},
		"options": {"debug": true}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SourceSQLite, cfg.Source.Kind)
	assert.Equal(t, defaultCount, cfg.Source.Count, "unset fields keep defaults")
	assert.Equal(t, 3, cfg.List.ItemHeight)
	assert.Equal(t, "loading…", cfg.List.Placeholder)
	assert.False(t, cfg.ScrollbarEnabled())
	assert.True(t, cfg.Options.Debug)
	assert.Equal(t, defaultDataDirectory, cfg.Options.DataDirectory)
	assert.Equal(t, "items.db", cfg.DatabasePath())
	assert.Equal(t, path, cfg.Path())

	latency, err := cfg.Latency()
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, latency)
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"source":`},
		{"unknown source", `{"source": {"kind": "redis"}}`},
		{"file source without path", `{"source": {"kind": "file"}}`},
		{"negative count", `{"source": {"count": -1}}`},
		{"bad latency", `{"source": {"latency": "soon"}}`},
		{"negative latency", `{"source": {"latency": "-1s"}}`},
		{"negative item height", `{"list": {"item_height": -2}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestSetConfigField(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "virtualize.json")
	cfg, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, cfg.SetConfigField("list.item_height", 2))
	require.Error(t, cfg.SetConfigField("source.kind", "file"), "the file source needs a path")
	require.NoError(t, cfg.SetConfigField("source.path", "/var/log/syslog"))
	require.NoError(t, cfg.SetConfigField("source.kind", "file"))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.List.ItemHeight)
	assert.Equal(t, SourceFile, reloaded.Source.Kind)
	assert.Equal(t, "/var/log/syslog", reloaded.Source.Path)
}

func TestSetConfigFieldRejectsInvalid(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{"source":{"kind":"sqlite"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	err = cfg.SetConfigField("source.kind", "bogus")
	require.ErrorContains(t, err, `unknown source kind "bogus"`)
	require.Error(t, cfg.SetConfigField("list.item_height", -1))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"source":{"kind":"sqlite"}}`, string(data))

	require.NoError(t, cfg.SetConfigField("source.kind", "memory"))
	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceMemory, reloaded.Source.Kind)
}

func TestGlobalPathsHonorOverrides(t *testing.T) {
	t.Setenv("VIRTUALIZE_GLOBAL_CONFIG", "/tmp/cfg")
	t.Setenv("VIRTUALIZE_GLOBAL_DATA", "/tmp/data")

	assert.Equal(t, filepath.Join("/tmp/cfg", "virtualize.json"), GlobalConfig())
	assert.Equal(t, "/tmp/data", GlobalDataDir())
}
