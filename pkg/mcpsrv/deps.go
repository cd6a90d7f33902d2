package mcpsrv

import (
	"github.com/usestring/jtd-infer/internal/config"
	"github.com/usestring/jtd-infer/internal/pipeline"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Engine *pipeline.Engine
	Config *config.Config
}
