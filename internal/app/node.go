package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/mayer2014/appserver/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"github.com/mayer2014/appserver/internal/adapters/generator" //nolint:depguard // Wired in app layer
	"github.com/mayer2014/appserver/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"github.com/mayer2014/appserver/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"github.com/mayer2014/appserver/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the main Manager Graft node.
	NodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the Components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components the CLI layer
// needs.
type Components struct {
	App    *Manager
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			generator.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Manager, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			gen, err := graft.Dep[ports.Generator](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, gen, tel, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			manager, err := graft.Dep[*Manager](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: manager, Logger: log}, nil
		},
	})
}
