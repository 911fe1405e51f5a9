package ports

import (
	"context"
	"iter"

	"go.trai.ch/lull/internal/core/domain"
)

//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

// EventSource delivers raw filesystem notifications for a directory tree.
type EventSource interface {
	// Start begins watching the given root directory recursively.
	// It returns an error if the source fails to start.
	Start(ctx context.Context, root string) error
	// Stop stops the source and releases all resources.
	Stop() error
	// Events returns an iterator of raw events. An element with a non-nil error is an
	// out-of-band source condition such as an overflow; its event is the zero value.
	// The iterator ends when the source stops.
	Events() iter.Seq2[domain.RawEvent, error]
}
