// Package buildinfo identifies the running plotter build.
package buildinfo

import "runtime/debug"

// Version and Commit are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

// Short returns a compact build identifier for the window title and
// -version. Without ldflags it falls back to the VCS revision stamped by the
// go command.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if rev := revision(info.Settings); rev != "" {
			return rev
		}
	}
	return "dev"
}

// revision returns the short vcs.revision, marked when the tree was dirty.
func revision(settings []debug.BuildSetting) string {
	var rev string
	var dirty bool
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev == "" {
		return ""
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if dirty {
		rev += "+dirty"
	}
	return rev
}
