package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/retest/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/metrics"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/retest/internal/engine/cache"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ProjectNodeID,
			shell.NodeID,
			cache.NodeID,
			metrics.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			executor, err := graft.Dep[ports.TestExecutor](ctx)
			if err != nil {
				return nil, err
			}
			c, err := graft.Dep[*cache.Cache](ctx)
			if err != nil {
				return nil, err
			}
			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewScheduler(executor, c, m, tracer, log, cfg.Runner), nil
		},
	})
}
