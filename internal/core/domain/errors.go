package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidRootPath is returned when the watched root does not exist or is not a directory.
	// It is the only error that halts a run; the operator has to supply a replacement root.
	ErrInvalidRootPath = zerr.New("invalid root path")

	// ErrSourceOverflow is reported when the notification source dropped events.
	ErrSourceOverflow = zerr.New("notification source overflowed, some events were lost")

	// ErrSourceFailed is reported for any other notification source error.
	ErrSourceFailed = zerr.New("notification source error")

	// ErrWatchFailed is returned when the notification source cannot be started.
	ErrWatchFailed = zerr.New("failed to start watching")

	// ErrScoringFailed is returned when the downstream scorer fails for a session.
	ErrScoringFailed = zerr.New("scoring failed")

	// ErrRescanFailed is returned when the tracked-file rescan fails.
	ErrRescanFailed = zerr.New("failed to rescan tracked files")

	// ErrSettingsReadFailed is returned when the settings file cannot be read.
	ErrSettingsReadFailed = zerr.New("failed to read settings file")

	// ErrSettingsParseFailed is returned when the settings file cannot be parsed.
	ErrSettingsParseFailed = zerr.New("failed to parse settings file")

	// ErrSettingsWriteFailed is returned when the settings file cannot be written.
	ErrSettingsWriteFailed = zerr.New("failed to write settings file")

	// ErrInvalidSettings is returned when a settings value is out of range.
	ErrInvalidSettings = zerr.New("invalid settings")

	// ErrInvalidPattern is returned when an ignore pattern does not compile.
	ErrInvalidPattern = zerr.New("invalid ignore pattern")

	// ErrHistoryOpenFailed is returned when the session history database cannot be opened.
	ErrHistoryOpenFailed = zerr.New("failed to open session history")

	// ErrHistoryWriteFailed is returned when a settled session cannot be recorded.
	ErrHistoryWriteFailed = zerr.New("failed to record session history")

	// ErrHistoryReadFailed is returned when the session history cannot be queried.
	ErrHistoryReadFailed = zerr.New("failed to read session history")

	// ErrHistoryDisabled is returned when history is queried but no history path is configured.
	ErrHistoryDisabled = zerr.New("session history is disabled")

	// ErrHookFailed is returned when the scoring hook command exits unsuccessfully.
	ErrHookFailed = zerr.New("scoring hook failed")

	// ErrHealthServeFailed is returned when the health endpoint cannot be served.
	ErrHealthServeFailed = zerr.New("failed to serve health endpoint")
)
