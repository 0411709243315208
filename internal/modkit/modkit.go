package modkit

import "mbot/internal/modkit/module"

// Module is the common surface for modules that expose ports
// keep this tiny so modules stay decoupled
type Module = module.Module
