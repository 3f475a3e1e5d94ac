package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

const edgesCSV = `start_point,end_point
A,
B,A
C,A
D,B
R,
`

// setup writes an edge file and a config whose cache lives in a temp dir.
// It returns the edge file, the config file and the temp dir.
func setup(t *testing.T, edges string) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "edges.csv")
	if err := os.WriteFile(input, []byte(edges), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("[cache]\nenabled = true\ndir = %q\n", filepath.Join(dir, "cache"))
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return input, cfg, dir
}

// runCLI executes the root command with args and returns the CLI.
func runCLI(t *testing.T, args ...string) (*CLI, error) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return c, root.ExecuteContext(context.Background())
}

func TestRootLoadsConfig(t *testing.T) {
	_, cfg, dir := setup(t, edgesCSV)
	c, err := runCLI(t, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache"); c.Config.Cache.Dir != want {
		t.Errorf("Cache.Dir = %q, want %q", c.Config.Cache.Dir, want)
	}
}

func TestRootMissingConfig(t *testing.T) {
	_, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "cache", "path")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input   string
		want    []string
		wantErr bool
	}{
		{"", []string{"xlsx"}, false},
		{"csv", []string{"csv"}, false},
		{"CSV, json,csv", []string{"csv", "json"}, false},
		{"pdf", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseFormats(tt.input, []string{"xlsx"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFormats(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
