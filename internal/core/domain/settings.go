package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// DefaultQuiescence is how long the tree has to stay quiet before a session settles.
const DefaultQuiescence = 10 * time.Second

// DefaultRenamePairWindow is how long an unpaired rename origin waits for its new name.
const DefaultRenamePairWindow = 100 * time.Millisecond

// RenameTracking selects how chained renames inside one session are recorded.
type RenameTracking string

const (
	// RenameLatest keeps only the most recent hop: A->B->C records origin(C) == B.
	RenameLatest RenameTracking = "latest"
	// RenameRoot follows the chain back: A->B->C records origin(C) == A.
	RenameRoot RenameTracking = "root"
)

// Settings is the persisted configuration of a watcher.
type Settings struct {
	// Root is the watched directory.
	Root string
	// Quiescence is the debounce window.
	Quiescence time.Duration
	// IncludeDeletes carries deleted paths into the scored change set.
	IncludeDeletes bool
	// RenameTracking selects the rename-origin policy.
	RenameTracking RenameTracking
	// Ignore holds glob patterns for paths that are neither watched nor counted.
	Ignore []string
	// HistoryPath is the session history database. Empty disables history.
	HistoryPath string
	// Hook is a command run on every settlement. Empty disables it.
	Hook []string
	// HealthSocket is the unix socket serving gRPC health. Empty disables it.
	HealthSocket string
	// LogJSON switches the logger to JSON output.
	LogJSON bool
	// FlushOnExit settles a pending session on shutdown instead of dropping it.
	FlushOnExit bool
}

// DefaultIgnorePatterns are the patterns ignored when the settings file names none.
func DefaultIgnorePatterns() []string {
	return []string{
		"**/.git",
		"**/.git/**",
		"**/.jj",
		"**/.jj/**",
		"**/node_modules",
		"**/node_modules/**",
	}
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Quiescence:     DefaultQuiescence,
		RenameTracking: RenameLatest,
		Ignore:         DefaultIgnorePatterns(),
		HistoryPath:    DefaultHistoryPath(),
	}
}

// Validate checks that the settings are usable. The root itself is checked at startup.
func (s *Settings) Validate() error {
	if s.Quiescence <= 0 {
		return zerr.With(zerr.Wrap(ErrInvalidSettings, "quiescence must be positive"), "quiescence", s.Quiescence.String())
	}
	switch s.RenameTracking {
	case RenameLatest, RenameRoot:
	default:
		return zerr.With(
			zerr.Wrap(ErrInvalidSettings, "rename tracking must be 'latest' or 'root'"),
			"rename_tracking", string(s.RenameTracking),
		)
	}
	return nil
}
