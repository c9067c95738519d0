package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kilupskalvis/gitsim/internal/layout"
	"github.com/kilupskalvis/gitsim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, layout.DefaultParams(), cfg.LayoutParams())
	assert.Equal(t, models.Point{X: 30, Y: 30}, cfg.Origin())
	assert.Equal(t, "127.0.0.1:8090", cfg.Server.Listen)

	timeout, err := cfg.SessionTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, timeout)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[layout]
step = 80
fast_path_lift = 0

[server]
listen = ":9000"
session_timeout = "5m"

[log]
level = "debug"
format = "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Layout.Step)
	assert.Equal(t, 0, cfg.Layout.FastPathLift, "explicit zero is kept")
	assert.Equal(t, 70, cfg.Layout.LabelGutter, "unset keys keep defaults")
	assert.Equal(t, ":9000", cfg.Server.Listen)
	assert.Equal(t, 1000, cfg.Server.MaxSessions)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, path, cfg.Path())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "[layout\nstep = 1"},
		{"zero step", "[layout]\nstep = 0"},
		{"bad level", "[log]\nlevel = \"loud\""},
		{"bad format", "[log]\nformat = \"xml\""},
		{"bad timeout", "[server]\nsession_timeout = \"soon\""},
		{"negative timeout", "[server]\nsession_timeout = \"-1m\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_DiscoversFromParent(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[layout]\nstep = 60\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	found, err := FindConfigFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ConfigFile), found)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Layout.Step)
}

func TestInitialize(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Initialize(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConfigFile), cfg.Path())

	loaded, err := Load(cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, cfg.LayoutParams(), loaded.LayoutParams())
	assert.Equal(t, cfg.Server, loaded.Server)

	_, err = Initialize(dir)
	assert.Error(t, err, "second initialize must not overwrite")
}

func TestSave_RoundTripsChanges(t *testing.T) {
	cfg, err := Initialize(t.TempDir())
	require.NoError(t, err)

	cfg.History.Limit = 42
	require.NoError(t, cfg.Save())

	loaded, err := Load(cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.History.Limit)
}

func TestSave_WithoutPath(t *testing.T) {
	assert.Error(t, Default().Save())
}

func TestHistoryPath(t *testing.T) {
	cfg := Default()
	cfg.History.Path = "/tmp/h.db"

	path, err := cfg.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/h.db", path)
}
