package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"logbook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("LOGBOOK_TEST_DIR", "/data/run7")

	tests := []struct {
		in   string
		want string
	}{
		{"~/att/x.png", filepath.Join(home, "att/x.png")},
		{"~", home},
		{"$LOGBOOK_TEST_DIR/x.png", "/data/run7/x.png"},
		{"${LOGBOOK_TEST_DIR}/y", "/data/run7/y"},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ExpandPath(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfig, filepath.Join(dir, "config.yaml"))
	t.Setenv(EnvTheme, "")

	exists, err := ConfigExists()
	require.NoError(t, err)
	assert.False(t, exists)

	empty, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, empty.Logbooks)

	cfg := &model.Config{
		Theme:         "ocean",
		LinkByDefault: true,
		Viewers:       map[string]string{"image_viewer": "feh %s"},
	}
	AddLogbook(cfg, "ops", filepath.Join(dir, "ops.db"), filepath.Join(dir, "att"))
	AddLogbook(cfg, "ops again", filepath.Join(dir, "ops.db"), "")
	require.NoError(t, SaveConfig(cfg))

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "ocean", loaded.Theme)
	assert.True(t, loaded.LinkByDefault)
	assert.Equal(t, "feh %s", loaded.Viewers["image_viewer"])
	require.Len(t, loaded.Logbooks, 1)
	assert.Equal(t, "ops", loaded.Logbooks[0].Name)

	confDir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, dir, confDir)
}

func TestThemeFromEnvironment(t *testing.T) {
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv(EnvTheme, "forest")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "forest", cfg.Theme)
}

func TestGetSortedLogbooks(t *testing.T) {
	now := time.Now()
	cfg := &model.Config{Logbooks: []model.LogbookRef{
		{Name: "old", Catalog: "a", LastOpened: now.Add(-time.Hour)},
		{Name: "new", Catalog: "b", LastOpened: now},
	}}

	sorted := GetSortedLogbooks(cfg)
	assert.Equal(t, "new", sorted[0].Name)
	assert.Equal(t, "old", cfg.Logbooks[0].Name, "config order untouched")

	UpdateLogbookLastOpened(cfg, "a", now.Add(time.Hour))
	assert.Equal(t, "old", GetSortedLogbooks(cfg)[0].Name)
}
