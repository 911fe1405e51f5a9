package ports

import "context"

//go:generate mockgen -source=health.go -destination=mocks/mock_health.go -package=mocks

// Health serves the liveness endpoint of a running watcher and probes a running one.
type Health interface {
	// SetServing flips the reported status.
	SetServing(serving bool)
	// Serve blocks until ctx is done.
	Serve(ctx context.Context, socketPath string) error
	// Probe returns the status reported by the watcher listening on socketPath.
	Probe(ctx context.Context, socketPath string) (string, error)
}
