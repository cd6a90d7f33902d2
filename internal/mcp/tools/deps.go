package tools

import (
	"github.com/usestring/jtd-infer/internal/config"
	"github.com/usestring/jtd-infer/internal/pipeline"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Engine *pipeline.Engine
	Config *config.Config
}
