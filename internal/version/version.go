// Package version reports build metadata for stargate --version.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X github.com/example/stargate/internal/version.Commit=...".
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = "unknown"
)

// String returns "stargate <version> (commit: <short>, built: <time>)".
func String() string {
	return fmt.Sprintf("stargate %s (commit: %s, built: %s)", Version, shortCommit(resolveCommit()), BuildTime)
}

// resolveCommit prefers the ldflags value and falls back to the VCS stamp
// the go toolchain embeds in module builds.
func resolveCommit() string {
	if Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return "unknown"
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
