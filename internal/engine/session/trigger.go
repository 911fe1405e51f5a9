package session

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/lull/internal/core/domain"
	"go.trai.ch/lull/internal/core/ports"
	"go.trai.ch/lull/internal/engine/ledger"
	"go.trai.ch/zerr"
)

// Trigger performs one settlement: snapshot, score, rescan, report.
type Trigger struct {
	ledger   *ledger.Ledger
	scorer   ports.Scorer
	scanner  ports.Scanner
	reporter ports.Reporter
	logger   ports.Logger
	tracer   ports.Tracer
	root     string
}

// TriggerConfig holds the collaborators of a Trigger.
type TriggerConfig struct {
	Ledger   *ledger.Ledger
	Scorer   ports.Scorer
	Scanner  ports.Scanner
	Reporter ports.Reporter
	Logger   ports.Logger
	Tracer   ports.Tracer
	Root     string
}

// NewTrigger creates a Trigger. Scorer, Scanner and Reporter may be nil.
func NewTrigger(cfg TriggerConfig) *Trigger {
	return &Trigger{
		ledger:   cfg.Ledger,
		scorer:   cfg.Scorer,
		scanner:  cfg.Scanner,
		reporter: cfg.Reporter,
		logger:   cfg.Logger,
		tracer:   cfg.Tracer,
		root:     cfg.Root,
	}
}

// Settle runs one settlement. Failures are logged and reported, never returned,
// and the ledger is always cleared.
func (t *Trigger) Settle(ctx context.Context) domain.SettlementReport {
	start := time.Now()

	var span ports.Span
	if t.tracer != nil {
		ctx, span = t.tracer.Start(ctx, "session.settle")
		defer span.End()
	}

	changes := t.ledger.SnapshotAndClear()
	report := domain.SettlementReport{Changes: changes}

	if span != nil {
		span.SetAttribute("session.id", changes.SessionID)
		span.SetAttribute("session.paths", len(changes.Paths))
		span.SetAttribute("session.renames", len(changes.RenameOrigins))
	}

	if err := t.score(ctx, changes); err != nil {
		report.ScoreErr = err
		t.logError(err)
		if span != nil {
			span.RecordError(err)
		}
	}

	before, after, err := t.ledger.RefreshTrackedCount(func() (int, error) {
		return t.count(ctx)
	})
	report.TrackedBefore = before
	report.TrackedAfter = after
	if err != nil {
		report.RescanErr = err
		t.logError(err)
		if span != nil {
			span.RecordError(err)
		}
	}

	report.Duration = time.Since(start)
	if span != nil {
		span.SetAttribute("tracked.before", before)
		span.SetAttribute("tracked.after", after)
	}

	t.report(report)
	return report
}

// score calls the scorer and converts both errors and panics into domain.ErrScoringFailed.
func (t *Trigger) score(ctx context.Context, changes domain.ChangeSet) (err error) {
	if t.scorer == nil {
		return nil
	}

	defer zerr.Defer(func(recovered error) {
		err = errors.Join(domain.ErrScoringFailed, zerr.With(recovered, "session", changes.SessionID))
	})

	if scoreErr := t.scorer.Score(ctx, changes); scoreErr != nil {
		return errors.Join(domain.ErrScoringFailed, zerr.With(scoreErr, "session", changes.SessionID))
	}
	return nil
}

// count rescans the root. A panicking scanner is reported as a failed scan.
func (t *Trigger) count(ctx context.Context) (n int, err error) {
	if t.scanner == nil {
		return t.ledger.TrackedCount(), nil
	}

	defer zerr.Defer(func(recovered error) {
		n, err = 0, recovered
	})

	return t.scanner.Count(ctx, t.root)
}

// report hands the outcome to the reporter. A panicking reporter is logged.
func (t *Trigger) report(report domain.SettlementReport) {
	if t.reporter == nil {
		return
	}

	defer zerr.Defer(func(recovered error) {
		t.logError(zerr.With(zerr.Wrap(recovered, "reporter panicked"), "session", report.Changes.SessionID))
	})

	t.reporter.OnSettled(report)
}

func (t *Trigger) logError(err error) {
	if t.logger != nil {
		t.logger.Error(err)
	}
}
