// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/retest/internal/adapters/cas"
	_ "go.trai.ch/retest/internal/adapters/config"
	_ "go.trai.ch/retest/internal/adapters/fs"
	_ "go.trai.ch/retest/internal/adapters/git"
	_ "go.trai.ch/retest/internal/adapters/imports"
	_ "go.trai.ch/retest/internal/adapters/logger"
	_ "go.trai.ch/retest/internal/adapters/metrics"
	_ "go.trai.ch/retest/internal/adapters/shell"
	_ "go.trai.ch/retest/internal/adapters/telemetry"
	_ "go.trai.ch/retest/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/retest/internal/app"
	_ "go.trai.ch/retest/internal/engine/analyzer"
	_ "go.trai.ch/retest/internal/engine/cache"
	_ "go.trai.ch/retest/internal/engine/changes"
	_ "go.trai.ch/retest/internal/engine/planner"
	_ "go.trai.ch/retest/internal/engine/scheduler"
	_ "go.trai.ch/retest/internal/engine/verifier"
)
