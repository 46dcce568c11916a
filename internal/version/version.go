// Package version exposes build-time metadata for the blogbuilder binary.
package version

import "fmt"

// Version is set via ldflags in release builds:
// go build -ldflags "-X git.home.luguber.info/inful/blogbuilder/internal/version.Version=v1.0.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String is the line printed by --version.
func String() string {
	return fmt.Sprintf("blogbuilder %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
