// Package config provides the YAML settings store for lull.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/lull/internal/core/domain"
	"go.trai.ch/lull/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.SettingsStore = (*Store)(nil)

// Store implements ports.SettingsStore on a YAML file.
type Store struct {
	path string
}

// NewStore creates a store for the settings file at path.
// An empty path selects domain.DefaultSettingsPath().
func NewStore(path string) *Store {
	if path == "" {
		path = domain.DefaultSettingsPath()
	}
	return &Store{path: path}
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file yields the defaults.
func (s *Store) Load() (*domain.Settings, error) {
	file, err := s.read()
	if err != nil {
		return nil, err
	}
	if file == nil {
		return domain.DefaultSettings(), nil
	}

	settings, err := toDomain(file)
	if err != nil {
		return nil, zerr.With(err, "path", s.path)
	}
	if err := settings.Validate(); err != nil {
		return nil, zerr.With(err, "path", s.path)
	}
	return settings, nil
}

// SetRootPath persists a new root, keeping every other setting in the file.
func (s *Store) SetRootPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Join(domain.ErrInvalidRootPath, zerr.With(err, "root", path))
	}

	file, err := s.read()
	if err != nil {
		return err
	}
	if file == nil {
		file = &Settingsfile{}
	}
	file.Root = abs

	return s.write(file)
}

// read returns nil without error when the file does not exist.
func (s *Store) read() (*Settingsfile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Join(domain.ErrSettingsReadFailed, zerr.With(err, "path", s.path))
	}

	var file Settingsfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(domain.ErrSettingsParseFailed, zerr.With(err, "path", s.path))
	}
	return &file, nil
}

// write stores the file atomically through a temporary sibling.
func (s *Store) write(file *Settingsfile) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return errors.Join(domain.ErrSettingsWriteFailed, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return errors.Join(domain.ErrSettingsWriteFailed, zerr.With(err, "dir", dir))
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return errors.Join(domain.ErrSettingsWriteFailed, zerr.With(err, "dir", dir))
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Join(domain.ErrSettingsWriteFailed, zerr.With(err, "path", tmpName))
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(domain.ErrSettingsWriteFailed, zerr.With(err, "path", tmpName))
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.Join(domain.ErrSettingsWriteFailed, zerr.With(err, "path", s.path))
	}
	return nil
}

// toDomain converts the file representation, filling unset fields with defaults.
func toDomain(file *Settingsfile) (*domain.Settings, error) {
	settings := domain.DefaultSettings()
	settings.Root = file.Root
	settings.IncludeDeletes = file.IncludeDeletes
	settings.Hook = file.Hook
	settings.HealthSocket = file.HealthSocket
	settings.LogJSON = file.LogJSON
	settings.FlushOnExit = file.FlushOnExit

	if file.Quiescence != "" {
		d, err := time.ParseDuration(file.Quiescence)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "invalid quiescence duration"), "quiescence", file.Quiescence)
		}
		settings.Quiescence = d
	}
	if file.RenameTracking != "" {
		settings.RenameTracking = domain.RenameTracking(file.RenameTracking)
	}
	if file.Ignore != nil {
		settings.Ignore = file.Ignore
	}
	if file.History != nil {
		settings.HistoryPath = *file.History
	}
	return settings, nil
}
