package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lull/internal/adapters/config"
	"go.trai.ch/lull/internal/core/ports"
)

// ScannerNodeID is the graft node of the tracked-count scanner.
const ScannerNodeID graft.ID = "adapter.fs.scanner"

func init() {
	graft.Register(graft.Node[ports.Scanner]{
		ID:        ScannerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.Scanner, error) {
			store, err := graft.Dep[ports.SettingsStore](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := store.Load()
			if err != nil {
				return nil, err
			}
			return NewScanner(settings.Ignore), nil
		},
	})
}
