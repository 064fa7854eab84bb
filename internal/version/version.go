// Package version holds build metadata injected with -ldflags -X.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Name is the program name reported by the CLI and the version endpoint.
const Name = "encodecfg"

// Set via -ldflags "-X github.com/smazurov/encodecfg/internal/version.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	BuildID   = "unknown"
)

// Info is a snapshot of the build metadata and the Go runtime that built it.
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
	BuildID   string
	GoVersion string
	Compiler  string
	Platform  string
}

// Get returns the current build information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		BuildID:   BuildID,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String formats the version for `encodecfg --version`, e.g.
// "1.2.0 (commit 3f2a9c1, built 2025-01-10)". Unknown fields are omitted.
func String() string {
	var extra []string
	if GitCommit != "" && GitCommit != "unknown" {
		commit := GitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		extra = append(extra, "commit "+commit)
	}
	if BuildDate != "" && BuildDate != "unknown" {
		extra = append(extra, "built "+BuildDate)
	}
	if len(extra) == 0 {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, strings.Join(extra, ", "))
}
