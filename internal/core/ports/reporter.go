package ports

import "go.trai.ch/lull/internal/core/domain"

//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks

// Reporter produces the human-readable operator output.
type Reporter interface {
	// OnStartup reports the watched root and its initial tracked-file count.
	OnStartup(root string, tracked int)
	// OnEvent reports one normalized event.
	OnEvent(event domain.ChangeEvent)
	// OnSettled reports the outcome of a settlement.
	OnSettled(report domain.SettlementReport)
}
