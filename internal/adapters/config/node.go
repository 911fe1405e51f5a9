package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lull/internal/core/ports"
)

// NodeID is the graft node of the settings store.
const NodeID graft.ID = "adapter.settings_store"

func init() {
	graft.Register(graft.Node[ports.SettingsStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SettingsStore, error) {
			return NewStore(PathFromEnv()), nil
		},
	})
}
