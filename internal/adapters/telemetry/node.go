package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lull/internal/core/ports"
)

// TracerNodeID is the graft node of the tracer.
const TracerNodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			return NewOTelTracer(InstrumentationName), nil
		},
	})
}
