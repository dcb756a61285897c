package xmpmeta

import (
	"strings"
	"testing"
)

func TestToolkit(t *testing.T) {
	tk := Toolkit()
	if !strings.HasPrefix(tk, "xmpmeta "+Version) {
		t.Errorf("Toolkit() = %q, want prefix %q", tk, "xmpmeta "+Version)
	}
}

func TestBuildInfo(t *testing.T) {
	info := BuildInfo()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if !strings.HasPrefix(info.GoVersion, "go") && !strings.HasPrefix(info.GoVersion, "devel") {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
	if info.GitCommit == "" || info.BuildTime == "" {
		t.Errorf("unset fields must read %q, got %+v", "unknown", info)
	}
}
