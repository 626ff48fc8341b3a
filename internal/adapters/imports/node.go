package imports

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/retest/internal/core/ports"
)

// NodeID is the unique identifier for the import parser Graft node.
const NodeID graft.ID = "adapter.imports"

func init() {
	graft.Register(graft.Node[ports.ImportParser]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ImportParser, error) {
			return NewParser(), nil
		},
	})
}
