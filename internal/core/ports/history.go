package ports

import (
	"context"

	"go.trai.ch/lull/internal/core/domain"
)

//go:generate mockgen -source=history.go -destination=mocks/mock_history.go -package=mocks

// SessionHistory records settled sessions and lists them back for operators.
type SessionHistory interface {
	Scorer
	// Recent returns up to limit sessions, newest first.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	// Close releases the underlying database.
	Close() error
}
