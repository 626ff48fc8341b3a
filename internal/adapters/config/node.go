package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/retest/internal/adapters/logger"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// NodeID is the unique identifier for the config loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// ProjectNodeID is the unique identifier for the loaded project configuration.
	ProjectNodeID graft.ID = "adapter.config.project"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[*domain.Config]{
		ID:        ProjectNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (*domain.Config, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			return loadProject(loader, os.Getwd)
		},
	})
}

func loadProject(loader ports.ConfigLoader, getwd func() (string, error)) (*domain.Config, error) {
	cwd, err := getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}
	return loader.Load(cwd)
}
