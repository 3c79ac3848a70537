// Package version reports the sniff build.
package version

import (
	"fmt"
	"runtime"
)

// Set with -ldflags "-X github.com/Aman-CERP/sniff/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String returns the version line shown in the usage text.
func String() string {
	return fmt.Sprintf("sniff %s (commit: %s, built: %s, go: %s)",
		Version, Commit, Date, runtime.Version())
}

// Short returns just the version string.
func Short() string {
	return Version
}
