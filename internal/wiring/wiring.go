// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/lull/internal/adapters/config"
	_ "go.trai.ch/lull/internal/adapters/console"
	_ "go.trai.ch/lull/internal/adapters/fs"
	_ "go.trai.ch/lull/internal/adapters/health"
	_ "go.trai.ch/lull/internal/adapters/history"
	_ "go.trai.ch/lull/internal/adapters/logger"
	_ "go.trai.ch/lull/internal/adapters/shell"
	_ "go.trai.ch/lull/internal/adapters/telemetry"
	_ "go.trai.ch/lull/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/lull/internal/app"
)
