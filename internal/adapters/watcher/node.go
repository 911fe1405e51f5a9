package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lull/internal/adapters/config"
	"go.trai.ch/lull/internal/core/ports"
)

// NodeID is the graft node of the filesystem event source.
const NodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[ports.EventSource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.EventSource, error) {
			store, err := graft.Dep[ports.SettingsStore](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := store.Load()
			if err != nil {
				return nil, err
			}
			return NewWatcher(settings.Ignore)
		},
	})
}
