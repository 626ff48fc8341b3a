package analyzer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/retest/internal/adapters/config"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/fs"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/imports" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/adapters/logger"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
)

// NodeID is the unique identifier for the dependency analyzer Graft node.
const NodeID graft.ID = "engine.analyzer"

func init() {
	graft.Register(graft.Node[*Analyzer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ProjectNodeID, fs.FileSystemNodeID, imports.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Analyzer, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			files, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			parser, err := graft.Dep[ports.ImportParser](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewAnalyzer(files, parser, log, cfg.Tests, cfg.Resolve), nil
		},
	})
}
