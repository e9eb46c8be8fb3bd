// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/mayer2014/appserver/internal/adapters/config"
	_ "github.com/mayer2014/appserver/internal/adapters/generator"
	_ "github.com/mayer2014/appserver/internal/adapters/logger"
	_ "github.com/mayer2014/appserver/internal/adapters/telemetry"
	// Register the app node.
	_ "github.com/mayer2014/appserver/internal/app"
)
