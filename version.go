package xmpmeta

import (
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the xmpmeta library.
const Version = "0.1.0"

// Toolkit returns the x:xmptk value written into every packet, e.g.
// "xmpmeta 0.1.0" or "xmpmeta 0.1.0 (3f2a9c1)" when the commit is known.
func Toolkit() string {
	tk := "xmpmeta " + Version
	if c := BuildInfo().GitCommit; c != "unknown" {
		if len(c) > 7 {
			c = c[:7]
		}
		tk += " (" + c + ")"
	}
	return tk
}

// VersionInfo describes the build of the library.
type VersionInfo struct {
	Version   string
	GitCommit string // "unknown" unless set via -ldflags or VCS stamping
	BuildTime string
	GoVersion string
}

// BuildInfo reports the library version and how it was built.
//
// The commit and build time come from -ldflags when given:
//
//	go build -ldflags="-X github.com/simonhull/xmpmeta.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/xmpmeta.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Otherwise the VCS settings stamped by the go command are used.
func BuildInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.GitCommit == "unknown":
				info.GitCommit = s.Value
			case s.Key == "vcs.time" && info.BuildTime == "unknown":
				info.BuildTime = s.Value
			}
		}
	}
	return info
}

// Set at build time via -ldflags.
var (
	gitCommit = "unknown"
	buildTime = "unknown"
)
