package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lull/internal/adapters/config"
	"go.trai.ch/lull/internal/core/domain"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), domain.SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestStore_Load_MissingFileYieldsDefaults(t *testing.T) {
	store := config.NewStore(filepath.Join(t.TempDir(), "missing.yaml"))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultQuiescence, settings.Quiescence)
	assert.Equal(t, domain.RenameLatest, settings.RenameTracking)
	assert.Equal(t, domain.DefaultIgnorePatterns(), settings.Ignore)
	assert.Empty(t, settings.Root)
}

func TestStore_Load_FullFile(t *testing.T) {
	path := writeSettings(t, `
root: /srv/project
quiescence: 2s
include_deletes: true
rename_tracking: root
ignore:
  - "*.swp"
history: ""
hook: ["notify-send", "settled"]
health_socket: /run/lull.sock
log_json: true
flush_on_exit: true
`)

	settings, err := config.NewStore(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/project", settings.Root)
	assert.Equal(t, 2*time.Second, settings.Quiescence)
	assert.True(t, settings.IncludeDeletes)
	assert.Equal(t, domain.RenameRoot, settings.RenameTracking)
	assert.Equal(t, []string{"*.swp"}, settings.Ignore)
	assert.Empty(t, settings.HistoryPath)
	assert.Equal(t, []string{"notify-send", "settled"}, settings.Hook)
	assert.Equal(t, "/run/lull.sock", settings.HealthSocket)
	assert.True(t, settings.LogJSON)
	assert.True(t, settings.FlushOnExit)
}

func TestStore_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "malformed yaml", content: "root: [unclosed", wantErr: domain.ErrSettingsParseFailed},
		{name: "bad duration", content: "quiescence: soon", wantErr: domain.ErrInvalidSettings},
		{name: "negative duration", content: "quiescence: -1s", wantErr: domain.ErrInvalidSettings},
		{name: "unknown rename tracking", content: "rename_tracking: first", wantErr: domain.ErrInvalidSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.NewStore(writeSettings(t, tt.content)).Load()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStore_SetRootPath(t *testing.T) {
	t.Run("CreatesFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", domain.SettingsFileName)
		store := config.NewStore(path)
		root := t.TempDir()

		require.NoError(t, store.SetRootPath(root))

		settings, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, root, settings.Root)
	})

	t.Run("KeepsOtherSettings", func(t *testing.T) {
		path := writeSettings(t, "root: /old\nquiescence: 3s\nignore: [\"*.log\"]\n")
		store := config.NewStore(path)

		require.NoError(t, store.SetRootPath("/new"))

		settings, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, filepath.Clean("/new"), settings.Root)
		assert.Equal(t, 3*time.Second, settings.Quiescence)
		assert.Equal(t, []string{"*.log"}, settings.Ignore)
	})

	t.Run("MakesRelativePathsAbsolute", func(t *testing.T) {
		store := config.NewStore(filepath.Join(t.TempDir(), domain.SettingsFileName))

		require.NoError(t, store.SetRootPath("relative/dir"))

		settings, err := store.Load()
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(settings.Root))
	})

	t.Run("UnparseableFile", func(t *testing.T) {
		store := config.NewStore(writeSettings(t, "{{{"))
		require.ErrorIs(t, store.SetRootPath("/x"), domain.ErrSettingsParseFailed)
	})
}

func TestNewStore_DefaultPath(t *testing.T) {
	assert.Equal(t, domain.DefaultSettingsPath(), config.NewStore("").Path())
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(config.PathEnv, "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", config.PathFromEnv())
}
