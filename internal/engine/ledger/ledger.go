// Package ledger accumulates the changes of the live session until it settles.
package ledger

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/lull/internal/core/domain"
	"go.trai.ch/zerr"
)

// Ledger records changed paths and rename origins for the current session.
// All methods are safe for concurrent use.
type Ledger struct {
	mu       sync.Mutex
	changed  map[domain.PathKey]struct{}
	origins  map[string]string
	tracked  int
	tracking domain.RenameTracking
	now      func() time.Time
}

// New creates an empty ledger using the given rename tracking policy.
// An empty policy defaults to domain.RenameLatest.
func New(tracking domain.RenameTracking) *Ledger {
	if tracking == "" {
		tracking = domain.RenameLatest
	}
	return &Ledger{
		changed:  make(map[domain.PathKey]struct{}),
		origins:  make(map[string]string),
		tracking: tracking,
		now:      time.Now,
	}
}

// RecordChanged adds path to the changed set. Recording a path twice is a no-op.
func (l *Ledger) RecordChanged(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.changed[domain.NewPathKey(path)] = struct{}{}
}

// RecordRenameOrigin remembers that the entry now at newPath previously lived at oldPath.
func (l *Ledger) RecordRenameOrigin(newPath, oldPath string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	origin := oldPath
	if l.tracking == domain.RenameRoot {
		if root, ok := l.origins[oldPath]; ok {
			origin = root
			delete(l.origins, oldPath)
		}
	}
	l.origins[newPath] = origin
}

// SnapshotAndClear returns the accumulated change set and empties the ledger atomically.
// Anything recorded after the call belongs to the next snapshot.
func (l *Ledger) SnapshotAndClear() domain.ChangeSet {
	l.mu.Lock()
	changed := l.changed
	origins := l.origins
	l.changed = make(map[domain.PathKey]struct{})
	l.origins = make(map[string]string)
	l.mu.Unlock()

	paths := make([]string, 0, len(changed))
	for key := range changed {
		paths = append(paths, key.String())
	}
	slices.Sort(paths)

	return domain.ChangeSet{
		SessionID:     uuid.NewString(),
		Paths:         paths,
		RenameOrigins: origins,
		Fingerprint:   domain.Fingerprint(paths, origins),
		SettledAt:     l.now(),
	}
}

// RefreshTrackedCount runs scan outside the lock and stores its result.
// On failure the previous count is kept and the error wraps domain.ErrRescanFailed.
func (l *Ledger) RefreshTrackedCount(scan func() (int, error)) (before, after int, err error) {
	l.mu.Lock()
	before = l.tracked
	l.mu.Unlock()

	count, scanErr := scan()
	if scanErr != nil {
		return before, before, errors.Join(domain.ErrRescanFailed, zerr.With(scanErr, "kept_count", before))
	}

	l.mu.Lock()
	l.tracked = count
	l.mu.Unlock()

	return before, count, nil
}

// SetTrackedCount stores an initial tracked count.
func (l *Ledger) SetTrackedCount(count int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tracked = count
}

// TrackedCount returns the last known tracked count.
func (l *Ledger) TrackedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tracked
}

// Len returns the number of changed paths recorded so far.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.changed)
}
