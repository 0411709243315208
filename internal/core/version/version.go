// Package version provides information about the build version of the bot.
package version

// BuildInfo holds version information about the build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'mbot/internal/core/version.version=v0.1.0'
	// -X 'mbot/internal/core/version.commit=abcd' -X 'mbot/internal/core/version.date=2026-10-17'"
	return BuildInfo{
		Service: "mbot",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
