// Package normalizer turns raw notifications into change events and feeds the ledger.
package normalizer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/lull/internal/core/domain"
	"go.trai.ch/lull/internal/core/ports"
	"go.trai.ch/lull/internal/engine/ledger"
	"go.trai.ch/zerr"
)

// Activity receives a signal for every normalized event.
type Activity interface {
	OnActivity()
}

// Config holds the collaborators and policy of a Normalizer.
type Config struct {
	Ledger   *ledger.Ledger
	Activity Activity
	Reporter ports.Reporter
	Logger   ports.Logger
	// IncludeDeletes records deleted paths in the ledger.
	IncludeDeletes bool
	// PairWindow is how long a rename origin waits for its new name.
	PairWindow time.Duration
}

// pendingRename is the old half of a rename waiting for its create.
type pendingRename struct {
	path  string
	timer *time.Timer
}

// Normalizer classifies raw events, records them and signals activity.
// It is safe for concurrent use.
type Normalizer struct {
	ledger         *ledger.Ledger
	activity       Activity
	reporter       ports.Reporter
	logger         ports.Logger
	includeDeletes bool
	pairWindow     time.Duration

	mu      sync.Mutex
	pending []*pendingRename
}

// New creates a Normalizer.
func New(cfg Config) *Normalizer {
	window := cfg.PairWindow
	if window <= 0 {
		window = domain.DefaultRenamePairWindow
	}
	return &Normalizer{
		ledger:         cfg.Ledger,
		activity:       cfg.Activity,
		reporter:       cfg.Reporter,
		logger:         cfg.Logger,
		includeDeletes: cfg.IncludeDeletes,
		pairWindow:     window,
	}
}

// Normalize maps a raw event to a change event. It returns false when the event
// produced nothing yet, which is the case for the old half of a rename.
// Only the event right after the old half can complete a rename: any other
// event first reports the parked origin as deleted.
func (n *Normalizer) Normalize(raw domain.RawEvent) (domain.ChangeEvent, bool) {
	now := time.Now()

	if raw.Op != domain.RawCreate {
		n.expireAll()
	}

	switch raw.Op {
	case domain.RawWrite:
		return domain.ChangeEvent{Path: raw.Path, Kind: domain.Modified, At: now}, true
	case domain.RawRemove:
		return domain.ChangeEvent{Path: raw.Path, Kind: domain.Deleted, At: now}, true
	case domain.RawRename:
		if raw.OldPath == "" {
			return domain.ChangeEvent{Path: raw.Path, Kind: domain.Created, At: now}, true
		}
		return domain.ChangeEvent{Path: raw.Path, Kind: domain.RenamedTo, PreviousPath: raw.OldPath, At: now}, true
	case domain.RawRenameFrom:
		n.hold(raw.Path)
		return domain.ChangeEvent{}, false
	case domain.RawCreate:
		if origin, ok := n.claim(); ok && origin != raw.Path {
			return domain.ChangeEvent{Path: raw.Path, Kind: domain.RenamedTo, PreviousPath: origin, At: now}, true
		}
		return domain.ChangeEvent{Path: raw.Path, Kind: domain.Created, At: now}, true
	default:
		return domain.ChangeEvent{}, false
	}
}

// hold parks a rename origin until a create claims it or the pairing window passes.
func (n *Normalizer) hold(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	p := &pendingRename{path: path}
	p.timer = time.AfterFunc(n.pairWindow, func() { n.expire(p) })
	n.pending = append(n.pending, p)
}

// claim pops the oldest pending rename origin.
func (n *Normalizer) claim() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for len(n.pending) > 0 {
		p := n.pending[0]
		n.pending = n.pending[1:]
		if p.timer.Stop() {
			return p.path, true
		}
	}
	return "", false
}

// expire reports an unpaired rename origin as a deletion: the entry left the tree.
func (n *Normalizer) expire(p *pendingRename) {
	n.mu.Lock()
	idx := -1
	for i, candidate := range n.pending {
		if candidate == p {
			idx = i
			break
		}
	}
	if idx >= 0 {
		n.pending = append(n.pending[:idx], n.pending[idx+1:]...)
	}
	n.mu.Unlock()

	n.dispatch(domain.ChangeEvent{Path: p.path, Kind: domain.Deleted, At: time.Now()})
}

// Handle normalizes raw, reports it, records it and signals activity.
func (n *Normalizer) Handle(_ context.Context, raw domain.RawEvent) {
	event, ok := n.Normalize(raw)
	if !ok {
		n.signal()
		return
	}
	n.dispatch(event)
}

// dispatch records event before signaling, so a settlement triggered by the signal sees it.
func (n *Normalizer) dispatch(event domain.ChangeEvent) {
	if n.reporter != nil {
		n.reporter.OnEvent(event)
	}

	switch event.Kind {
	case domain.RenamedTo:
		n.ledger.RecordRenameOrigin(event.Path, event.PreviousPath)
		n.ledger.RecordChanged(event.Path)
	case domain.Created, domain.Modified:
		n.ledger.RecordChanged(event.Path)
	case domain.Deleted:
		if n.includeDeletes {
			n.ledger.RecordChanged(event.Path)
		}
	}

	n.signal()
}

func (n *Normalizer) signal() {
	if n.activity != nil {
		n.activity.OnActivity()
	}
}

// HandleError classifies a source error and logs it. Source errors are never fatal.
// An overflow still signals activity so the next settlement rescans the tree.
func (n *Normalizer) HandleError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsnotify.ErrEventOverflow) || errors.Is(err, domain.ErrSourceOverflow) {
		classified := err
		if !errors.Is(err, domain.ErrSourceOverflow) {
			classified = errors.Join(domain.ErrSourceOverflow, err)
		}
		if n.logger != nil {
			n.logger.Warn("event queue overflowed, some changes may be missing from this session")
		}
		n.signal()
		return classified
	}

	classified := err
	if !errors.Is(err, domain.ErrSourceFailed) {
		classified = errors.Join(domain.ErrSourceFailed, zerr.Wrap(err, "notification source error"))
	}
	if n.logger != nil {
		n.logger.Error(classified)
	}
	return classified
}

// Run drains source until it closes or ctx is done.
func (n *Normalizer) Run(ctx context.Context, source ports.EventSource) error {
	for raw, err := range source.Events() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			_ = n.HandleError(err)
			continue
		}
		n.Handle(ctx, raw)
	}
	return ctx.Err()
}

// Close reports every parked rename origin as a deletion.
func (n *Normalizer) Close() {
	n.expireAll()
}

// expireAll reports every parked rename origin whose timer has not fired yet as a deletion.
func (n *Normalizer) expireAll() {
	n.mu.Lock()
	var expired []*pendingRename
	for _, p := range n.pending {
		if p.timer.Stop() {
			expired = append(expired, p)
		}
	}
	n.pending = nil
	n.mu.Unlock()

	for _, p := range expired {
		n.dispatch(domain.ChangeEvent{Path: p.path, Kind: domain.Deleted, At: time.Now()})
	}
}
