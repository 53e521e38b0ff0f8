// Package version carries build metadata stamped in with -ldflags.
package version

import "fmt"

// Version is set at build time:
// go build -ldflags "-X github.com/kalkulator/blogbuilder/internal/version.Version=v1.0.0".
var Version = "dev"

// Build metadata, stamped the same way as Version.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("blogbuilder %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
