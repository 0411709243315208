// Package module wires the supervisor over a set of pipeline modules
package module

import (
	"mbot/internal/modkit"
	"mbot/internal/modkit/module"
	pdomain "mbot/internal/services/pipeline/domain"
	"mbot/internal/services/supervisor/service"
)

// Module defines the supervisor module
type Module struct {
	ports Ports
}

// New builds the supervisor. Every module must expose a pipeline runner port; anything else panics
func New(deps modkit.Deps, overrides Options, mods ...modkit.Module) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.Stdin != nil {
		opts.Stdin = overrides.Stdin
	}
	if overrides.NoStdin {
		opts.NoStdin = true
	}
	if opts.NoStdin {
		opts.Stdin = nil
	}

	runners := make([]pdomain.RunnerPort, 0, len(mods))
	for _, m := range mods {
		runners = append(runners, module.MustPortsOf[pdomain.RunnerPort](m))
	}
	return &Module{ports: Ports{Supervisor: service.New(service.Config{Stdin: opts.Stdin}, runners...)}}
}

// Name returns the module name
func (m *Module) Name() string { return "supervisor" }

// Ports returns the module ports (Supervisor)
func (m *Module) Ports() any { return m.ports }
