// Package version carries build metadata injected at link time.
package version

import "fmt"

// Set via -ldflags "-X github.com/soundtag-tech/soundtag/internal/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String formats the full build identification.
func String() string {
	return fmt.Sprintf("soundtag %s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
