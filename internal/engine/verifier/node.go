package verifier

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/retest/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/metrics"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/retest/internal/engine/analyzer"
	"go.trai.ch/retest/internal/engine/scheduler"
)

// NodeID is the unique identifier for the verifier Graft node.
const NodeID graft.ID = "engine.verifier"

func init() {
	graft.Register(graft.Node[*Verifier]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ProjectNodeID,
			analyzer.NodeID,
			scheduler.NodeID,
			cas.HistoryStoreNodeID,
			metrics.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Verifier, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			a, err := graft.Dep[*analyzer.Analyzer](ctx)
			if err != nil {
				return nil, err
			}
			s, err := graft.Dep[*scheduler.Scheduler](ctx)
			if err != nil {
				return nil, err
			}
			history, err := graft.Dep[ports.HistoryStore](ctx)
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
			return NewVerifier(cfg.Verify, a, s, history, m, tracer, log), nil
		},
	})
}
