// Package version reports the version of the running cleave binary.
package version

import "runtime/debug"

// Version is set via ldflags on release builds.
var Version string

// GetVersion returns [Version], or the short VCS revision the binary was
// built from when no version was set.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	return revision(info.Settings)
}

func revision(settings []debug.BuildSetting) string {
	rev := "unknown"
	dirty := false

	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value[:min(len(s.Value), 7)]
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if dirty {
		return rev + "-dirty"
	}

	return rev
}

