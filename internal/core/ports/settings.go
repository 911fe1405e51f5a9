package ports

import "go.trai.ch/lull/internal/core/domain"

//go:generate mockgen -source=settings.go -destination=mocks/mock_settings.go -package=mocks

// SettingsStore loads and persists the watcher settings.
type SettingsStore interface {
	// Load returns the stored settings, or the defaults when nothing is stored yet.
	Load() (*domain.Settings, error)
	// SetRootPath persists a new watched root. It takes effect on the next start.
	SetRootPath(path string) error
	// Path returns the location of the settings file.
	Path() string
}
