// Package version holds bodyfit build information, set with -ldflags -X.
package version

var (
	// Version is the release version of the bodyfit tools
	Version = "0.1.0"

	// BuildTime is the UTC build timestamp
	BuildTime = "unknown"

	// GitCommit is the commit the binary was built from
	GitCommit = "unknown"
)
