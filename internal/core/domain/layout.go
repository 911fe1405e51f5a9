package domain

import (
	"os"
	"path/filepath"
)

const (
	// AppDirName is the name of the per-user lull directory.
	AppDirName = "lull"

	// SettingsFileName is the name of the settings file.
	SettingsFileName = "settings.yaml"

	// HistoryFileName is the name of the session history database.
	HistoryFileName = "history.db"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// SocketPerm is the permission of the health socket (rw-------).
	SocketPerm = 0o600
)

// DefaultConfigDir returns the per-user configuration directory for lull.
// It falls back to a relative .lull directory when no user config dir is known.
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "." + AppDirName
	}
	return filepath.Join(dir, AppDirName)
}

// DefaultSettingsPath returns the default settings file location.
func DefaultSettingsPath() string {
	return filepath.Join(DefaultConfigDir(), SettingsFileName)
}

// DefaultHistoryPath returns the default session history database location.
func DefaultHistoryPath() string {
	return filepath.Join(DefaultConfigDir(), HistoryFileName)
}
