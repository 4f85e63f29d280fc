// Package version holds the build version, set with
// -ldflags "-X github.com/alvmarrod/wiki-weaver/internal/version.Version=..."
package version

import "fmt"

var (
	Version = "0.1.0"
	Commit  = ""
)

// String returns the printable version
func String() string {
	if Commit != "" {
		return fmt.Sprintf("wiki-weaver %s (commit: %s)", Version, Commit)
	}
	return fmt.Sprintf("wiki-weaver %s-dev", Version)
}
