// Package version reports lessonbook build metadata.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X".
var (
	Commit    = ""
	BuildTime = "unknown"
)

// String returns "lessonbook dev (commit: <sha>, built: <time>)".
func String() string {
	return fmt.Sprintf("lessonbook dev (commit: %s, built: %s)", commit(), BuildTime)
}

// commit prefers the ldflags value and falls back to the VCS revision the Go
// toolchain stamps into module builds.
func commit() string {
	rev := Commit
	if rev == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					rev = s.Value
				}
			}
		}
	}
	if rev == "" {
		return "unknown"
	}
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
