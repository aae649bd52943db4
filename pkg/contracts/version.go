package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the application
	Version = "0.3.0"

	// DataFormatVersion is the version of the exported table layout
	DataFormatVersion = "v1"
)

var (
	// BuildTime is set during build using ldflags
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags
	GitCommit = "unknown"
)

// VersionString returns a one-line description of the build.
func VersionString() string {
	return fmt.Sprintf("osccli %s (data %s, commit %s, built %s, %s)",
		Version, DataFormatVersion, GitCommit, BuildTime, runtime.Version())
}
