package changes

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/retest/internal/adapters/git"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/core/ports"
)

// NodeID is the unique identifier for the change detector Graft node.
const NodeID graft.ID = "engine.changes"

func init() {
	graft.Register(graft.Node[*Detector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{git.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Detector, error) {
			vcs, err := graft.Dep[ports.VersionControl](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewDetector(vcs, log), nil
		},
	})
}
