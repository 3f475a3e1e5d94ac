package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/treelayout/pkg/hierarchy"
	"github.com/matzehuels/treelayout/pkg/pipeline"
)

// captureStdout redirects status output into a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name   string
		stats  pipeline.Stats
		cached bool
		want   []string
		absent []string
	}{
		{
			name:   "fresh",
			stats:  pipeline.Stats{EdgeCount: 5, TreeCount: 2, RecordCount: 5},
			want:   []string{"5", "edges", "2", "trees", "records", "fresh"},
			absent: []string{"failed", "cached"},
		},
		{
			name:   "cached with failures",
			stats:  pipeline.Stats{EdgeCount: 3, TreeCount: 1, FailureCount: 1, RecordCount: 2},
			cached: true,
			want:   []string{"1 failed", "cached"},
		},
		{
			name:   "no edges",
			stats:  pipeline.Stats{TreeCount: 1, RecordCount: 4},
			want:   []string{"trees", "records"},
			absent: []string{"edges"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			printStats(tt.stats, tt.cached)
			got := out.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("printStats() = %q, want %q", got, w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("printStats() = %q, should not contain %q", got, a)
				}
			}
		})
	}
}

func TestPrintFailures(t *testing.T) {
	out := captureStdout(t)
	printFailures(&hierarchy.Forest{
		Failures:  []*hierarchy.RootError{{Root: "X", Err: errors.New("cycle at X")}},
		Unreached: []string{"P", "Q"},
	})

	got := out.String()
	for _, want := range []string{"X: cycle at X", "2 nodes are not reachable"} {
		if !strings.Contains(got, want) {
			t.Errorf("printFailures() = %q, want %q", got, want)
		}
	}
}

func TestStatusLines(t *testing.T) {
	out := captureStdout(t)
	printSuccess("wrote %d files", 3)
	printInfo("cache %s", "cleared")
	printKeyValue("Listening", ":8080")
	printFile("out/forest.json")

	got := out.String()
	for _, want := range []string{"✓ wrote 3 files", "› cache cleared", "Listening", ":8080", "out/forest.json"} {
		if !strings.Contains(got, want) {
			t.Errorf("output = %q, want %q", got, want)
		}
	}
}
