package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/retest/internal/adapters/cas"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/config"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/fs"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/logger"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/metrics" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
)

// NodeID is the unique identifier for the result cache Graft node.
const NodeID graft.ID = "engine.cache"

func init() {
	graft.Register(graft.Node[*Cache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ProjectNodeID,
			cas.CacheStoreNodeID,
			fs.HasherNodeID,
			metrics.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Cache, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.FileHasher](ctx)
			if err != nil {
				return nil, err
			}
			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(store, hasher, m, log, cfg.Cache), nil
		},
	})
}
