package history

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lull/internal/adapters/config"
	"go.trai.ch/lull/internal/core/ports"
)

// NodeID is the graft node of the session history store.
const NodeID graft.ID = "adapter.history"

func init() {
	graft.Register(graft.Node[ports.SessionHistory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.SessionHistory, error) {
			store, err := graft.Dep[ports.SettingsStore](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := store.Load()
			if err != nil {
				return nil, err
			}
			if settings.HistoryPath == "" {
				return nil, nil
			}
			return NewStore(settings.HistoryPath), nil
		},
	})
}
