// Package version carries the build version stamped in at link time.
package version

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// Version is the current released version. Overridden at build time:
//
//	go build -ldflags "-X github.com/magicailabs/magicai/internal/version.Version=1.2.0"
var Version = "0.0.0-dev"

// GitCommit is the commit hash at build time, set via ldflags.
var GitCommit = "unknown"

// GetCurrentVersion returns the version string reported by the server;
// dev and demo builds include the commit suffix.
func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return String()
	}
	return Version
}

// String returns the version with a short commit suffix when available.
func String() string {
	v := Version
	if GitCommit != "" && GitCommit != "unknown" {
		short := GitCommit
		if len(short) > 8 {
			short = short[:8]
		}
		v = fmt.Sprintf("%s-%s", v, short)
	}
	return v
}

// IsVersionGreaterOrEqualThan compares two bare semver strings.
func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare("v"+version, "v"+target) > -1
}
