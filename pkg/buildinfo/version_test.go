package buildinfo

import (
	"runtime/debug"
	"testing"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name                string
		version, commit     string
		wantVer, wantCommit string
	}{
		{"unstamped", "dev", "none", "v1.4.0", "abc123"},
		{"ldflags win", "v2.0.0", "fff", "v2.0.0", "fff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stamp(t, tt.version, tt.commit, "unknown")
			fill(bi)
			if Version != tt.wantVer || Commit != tt.wantCommit {
				t.Errorf("fill() = %s/%s, want %s/%s", Version, Commit, tt.wantVer, tt.wantCommit)
			}
			if Date != "2026-01-02T03:04:05Z" {
				t.Errorf("Date = %s, want vcs.time", Date)
			}
		})
	}
}

func TestFillDevelVersion(t *testing.T) {
	stamp(t, "dev", "none", "unknown")
	fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if Version != "dev" {
		t.Errorf("Version = %s, want dev", Version)
	}
}

func TestTemplate(t *testing.T) {
	stamp(t, "v1.0.0", "abc", "2026-10-01")
	if got, want := Template(), "{{.Name}} v1.0.0 (commit abc, built 2026-10-01)\n"; got != want {
		t.Errorf("Template() = %q, want %q", got, want)
	}
}
