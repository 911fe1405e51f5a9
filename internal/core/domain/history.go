package domain

import "time"

// HistoryEntry is one settled session as recorded in the history store.
type HistoryEntry struct {
	SessionID   string
	SettledAt   time.Time
	Fingerprint uint64
	Paths       []string
	Renames     map[string]string
}
