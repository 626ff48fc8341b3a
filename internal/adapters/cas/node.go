package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/retest/internal/adapters/config"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
)

const (
	// CacheStoreNodeID is the unique identifier for the cache store Graft node.
	CacheStoreNodeID graft.ID = "adapter.cache_store"
	// HistoryStoreNodeID is the unique identifier for the verification history Graft node.
	HistoryStoreNodeID graft.ID = "adapter.history_store"
)

func init() {
	graft.Register(graft.Node[ports.CacheStore]{
		ID:        CacheStoreNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ProjectNodeID},
		Run: func(ctx context.Context) (ports.CacheStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewCacheStore(cfg.Path(cfg.Cache.Dir), cfg.Cache.Compress)
		},
	})

	graft.Register(graft.Node[ports.HistoryStore]{
		ID:        HistoryStoreNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ProjectNodeID},
		Run: func(ctx context.Context) (ports.HistoryStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewHistoryStore(cfg.Path(cfg.Verify.HistoryPath)), nil
		},
	})
}
