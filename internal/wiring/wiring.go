// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/shaderforge/internal/adapters/config"
	_ "go.trai.ch/shaderforge/internal/adapters/logger"
	// Register app and engine nodes.
	_ "go.trai.ch/shaderforge/internal/app"
	_ "go.trai.ch/shaderforge/internal/engine/scheduler"
)
