// Package version provides information about the build version of the bot.
package version

import "fmt"

// BuildInfo holds version information about the bot build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// String renders the info on one line for the CLI
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", b.Service, b.Version, b.Commit, b.Date)
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'jakebot/internal/core/version.version=v0.1.0'
	// -X 'jakebot/internal/core/version.commit=abcd' -X 'jakebot/internal/core/version.date=2026-01-02'"
	return BuildInfo{
		Service: "jakebot",
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
