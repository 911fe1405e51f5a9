package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lull/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/lull/internal/adapters/console"   //nolint:depguard // Wired in app layer
	"go.trai.ch/lull/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/lull/internal/adapters/health"    //nolint:depguard // Wired in app layer
	"go.trai.ch/lull/internal/adapters/history"   //nolint:depguard // Wired in app layer
	"go.trai.ch/lull/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/lull/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/lull/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/lull/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/lull/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			watcher.NodeID,
			fs.ScannerNodeID,
			history.NodeID,
			shell.NodeID,
			console.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			health.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[ports.SettingsStore](ctx)
	if err != nil {
		return nil, err
	}

	source, err := graft.Dep[ports.EventSource](ctx)
	if err != nil {
		return nil, err
	}

	scanner, err := graft.Dep[ports.Scanner](ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := graft.Dep[ports.SessionHistory](ctx)
	if err != nil {
		return nil, err
	}

	hook, err := graft.Dep[*shell.HookScorer](ctx)
	if err != nil {
		return nil, err
	}

	reporter, err := graft.Dep[ports.Reporter](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	probe, err := graft.Dep[ports.Health](ctx)
	if err != nil {
		return nil, err
	}

	hookFor := func(root string) ports.Scorer {
		return hook.WithDir(root)
	}

	return New(settings, source, scanner, sessions, hookFor, reporter, log, tracer, probe), nil
}
