package ports

import "context"

//go:generate mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks

// Scanner counts the entries tracked under a root.
type Scanner interface {
	// Count returns the number of files and directories below root, root excluded.
	Count(ctx context.Context, root string) (int, error)
}
