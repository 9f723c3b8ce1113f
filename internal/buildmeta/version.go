// Package buildmeta holds build-time version information injected via ldflags:
//
//	go build -ldflags="-X github.com/geostack-dev/geostack/internal/buildmeta.Version=v1.0.0 ..."
//
//nolint:gochecknoglobals
package buildmeta

import "fmt"

var (
	// Version is the semantic version of the build (e.g., "v1.0.0").
	Version = "dev"
	// Commit is the Git SHA of the build.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// Describe formats version, commit and date the way `geostack --version` prints them.
func Describe(version, commit, date string) string {
	return fmt.Sprintf("%s (built %s from %s)", version, date, commit)
}
