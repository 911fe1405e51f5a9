package ports

import (
	"context"
	"errors"

	"go.trai.ch/lull/internal/core/domain"
)

//go:generate mockgen -source=scorer.go -destination=mocks/mock_scorer.go -package=mocks

// Scorer evaluates one settled change session.
// It is called exactly once per settlement, including settlements with an empty change set.
type Scorer interface {
	Score(ctx context.Context, changes domain.ChangeSet) error
}

// Scorers fans a settlement out to several scorers.
// Every scorer runs even when an earlier one fails; the failures are joined.
type Scorers []Scorer

// Score implements Scorer.
func (s Scorers) Score(ctx context.Context, changes domain.ChangeSet) error {
	var errs error
	for _, scorer := range s {
		if err := scorer.Score(ctx, changes); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// HookFactory builds the hook scorer for a watched root.
type HookFactory func(root string) Scorer
