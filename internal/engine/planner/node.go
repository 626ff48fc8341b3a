package planner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/retest/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/metrics"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/retest/internal/engine/analyzer"
	"go.trai.ch/retest/internal/engine/cache"
	"go.trai.ch/retest/internal/engine/changes"
)

// NodeID is the unique identifier for the planner Graft node.
const NodeID graft.ID = "engine.planner"

func init() {
	graft.Register(graft.Node[*Planner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ProjectNodeID,
			changes.NodeID,
			analyzer.NodeID,
			cache.NodeID,
			metrics.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Planner, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			detector, err := graft.Dep[*changes.Detector](ctx)
			if err != nil {
				return nil, err
			}
			a, err := graft.Dep[*analyzer.Analyzer](ctx)
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
			return NewPlanner(cfg, detector, a, c, m, tracer, log), nil
		},
	})
}
