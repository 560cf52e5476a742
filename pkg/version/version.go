// Package version holds build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/rmlive/capctl/pkg/version.version=v1.2.0"
package version

import (
	"fmt"
	"runtime"
)

//nolint:gochecknoglobals // Set at link time.
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the release version, "dev" for local builds.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// GetFullVersion renders version, commit, build date and Go runtime.
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s %s/%s)",
		version, gitCommit, buildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
