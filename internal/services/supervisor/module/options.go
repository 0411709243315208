package module

import (
	"io"
	"os"

	"mbot/internal/platform/config"
)

// Options controls the supervisor
type Options struct {
	// Stdin carries operator commands; nil keeps the default
	Stdin io.Reader
	// NoStdin disables the quit listener
	NoStdin bool
}

// FromConfig reads options from env
func FromConfig(cfg config.Conf) Options {
	return Options{
		Stdin:   os.Stdin,
		NoStdin: cfg.Prefix("SUPERVISOR_").MayBool("NO_STDIN", false),
	}
}
