// Package buildinfo reports which treelayout build is running. Release
// builds stamp the values with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/treelayout/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/treelayout/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/treelayout/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds fall back to the module version and VCS settings the Go
// toolchain embeds, so `go install ...@v1.0.0` still reports v1.0.0.
//
// The version also scopes cache keys and is written into JSON exports.
package buildinfo

import "runtime/debug"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		fill(bi)
	}
}

// fill replaces unstamped values from embedded build info.
func fill(bi *debug.BuildInfo) {
	if v := bi.Main.Version; Version == "dev" && v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// Template is the cobra version template.
func Template() string {
	return "{{.Name}} " + Version + " (commit " + Commit + ", built " + Date + ")\n"
}
