package health

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lull/internal/core/ports"
)

// NodeID is the graft node of the health server.
const NodeID graft.ID = "adapter.health"

func init() {
	graft.Register(graft.Node[ports.Health]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Health, error) {
			return NewServer(), nil
		},
	})
}
