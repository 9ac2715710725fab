package version

import (
	"fmt"
	"runtime/debug"
)

// Set via -ldflags "-X github.com/rescp17/sysmonitor/internal/version.Version=..." at release time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the version shown by --version.
func Short() string {
	if Version != "dev" {
		return Version
	}
	if rev := vcsRevision(); rev != "" {
		return "dev-" + rev
	}
	return "dev"
}

// Full returns the version with commit and build date when known.
func Full() string {
	if Version == "dev" {
		return Short() + " (development build)"
	}
	out := "v" + Version
	if len(Commit) >= 7 && Commit != "unknown" {
		out += fmt.Sprintf(" (%s)", Commit[:7])
	}
	if Date != "unknown" {
		out += " built on " + Date
	}
	return out
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
