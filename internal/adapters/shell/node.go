package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lull/internal/adapters/config"
	"go.trai.ch/lull/internal/adapters/logger"
	"go.trai.ch/lull/internal/core/ports"
)

// NodeID is the graft node of the hook scorer.
const NodeID graft.ID = "adapter.hook_scorer"

func init() {
	graft.Register(graft.Node[*HookScorer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, config.NodeID},
		Run: func(ctx context.Context) (*HookScorer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.SettingsStore](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := store.Load()
			if err != nil {
				return nil, err
			}
			return NewHookScorer(settings.Hook, settings.Root, log), nil
		},
	})
}
