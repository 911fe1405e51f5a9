package domain

import (
	"encoding/binary"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
)

// SessionState is the state of the single live debounce session.
type SessionState uint8

const (
	// Idle means no timer is pending.
	Idle SessionState = iota
	// Armed means a timer is scheduled and will settle the session unless re-armed.
	Armed
	// Settling means the timer fired and the evaluation is running.
	Settling
)

// String returns the lower-case name of the state.
func (s SessionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Settling:
		return "settling"
	default:
		return "unknown"
	}
}

// ChangeSet is the snapshot of one settled session handed to scorers.
type ChangeSet struct {
	// SessionID uniquely identifies the settled session.
	SessionID string
	// Paths are the changed paths in lexical order.
	Paths []string
	// RenameOrigins maps a renamed entry's current path to its previous path.
	RenameOrigins map[string]string
	// Fingerprint is a digest of Paths and RenameOrigins.
	Fingerprint uint64
	// SettledAt is when the session was declared settled.
	SettledAt time.Time
}

// Empty reports whether the session recorded no changes.
func (c ChangeSet) Empty() bool {
	return len(c.Paths) == 0 && len(c.RenameOrigins) == 0
}

// Origin returns the previous path of a renamed entry.
func (c ChangeSet) Origin(path string) (string, bool) {
	origin, ok := c.RenameOrigins[path]
	return origin, ok
}

// Fingerprint computes a stable digest over sorted paths and rename origins.
// Two sessions that touched the same entries produce the same fingerprint.
func Fingerprint(paths []string, origins map[string]string) uint64 {
	d := xxhash.New()
	var lenBuf [8]byte

	write := func(s string) {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(s)))
		_, _ = d.Write(lenBuf[:])
		_, _ = d.WriteString(s)
	}

	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	for _, p := range sorted {
		write(p)
	}

	keys := make([]string, 0, len(origins))
	for k := range origins {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		write(k)
		write(origins[k])
	}

	return d.Sum64()
}

// SettlementReport describes the outcome of one settlement.
type SettlementReport struct {
	// Changes is the snapshot that was scored.
	Changes ChangeSet
	// TrackedBefore is the tracked-file count before the rescan.
	TrackedBefore int
	// TrackedAfter is the tracked-file count after the rescan.
	TrackedAfter int
	// Duration is how long the settlement took.
	Duration time.Duration
	// ScoreErr is set when scoring failed.
	ScoreErr error
	// RescanErr is set when the rescan failed and TrackedAfter kept the previous value.
	RescanErr error
}
