package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/treelayout/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[input]
delimiter = ";"
child_column = "id"
parent_column = "parent"
disambiguate = true

[layout]
max_depth = 64
workers = 4

[output]
formats = ["csv", "svg"]
dir = "out"

[cache]
enabled = false

[server]
addr = ":9000"
read_timeout = "5s"
`)
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvMongoURI, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Input.Delimiter != ";" || cfg.Input.ChildColumn != "id" || !cfg.Input.Disambiguate {
		t.Errorf("Input = %+v", cfg.Input)
	}
	if cfg.Layout.MaxDepth != 64 || cfg.Layout.Workers != 4 {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if !slices.Equal(cfg.Output.Formats, []string{"csv", "svg"}) || cfg.Output.Dir != "out" {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled = true, want false")
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	// Unset keys keep their defaults.
	if cfg.Server.ShutdownTimeout != Default().Server.ShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v, want default", cfg.Server.ShutdownTimeout)
	}

	opts := cfg.PipelineOptions()
	if opts.Delimiter != ";" || opts.MaxDepth != 64 || opts.Workers != 4 || !opts.Disambiguate {
		t.Errorf("PipelineOptions() = %+v", opts)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[cache]
redis_url = "redis://file:6379"
`)
	t.Setenv(EnvRedisURL, "redis://env:6379/1")
	t.Setenv(EnvMongoURI, "mongodb://db:27017")
	t.Setenv(EnvAddr, ":7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Cache.RedisURL != "redis://env:6379/1" {
		t.Errorf("RedisURL = %q, want env value", cfg.Cache.RedisURL)
	}
	if cfg.Store.MongoURI != "mongodb://db:27017" {
		t.Errorf("MongoURI = %q", cfg.Store.MongoURI)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvMongoURI, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != DefaultAddr || !cfg.Cache.Enabled {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"Syntax", "[input\n", errors.ErrCodeInvalidConfig},
		{"Delimiter", "[input]\ndelimiter = \"ab\"\n", errors.ErrCodeInvalidConfig},
		{"Format", "[output]\nformats = [\"pdf\"]\n", errors.ErrCodeInvalidConfig},
		{"MaxDepth", "[layout]\nmax_depth = -1\n", errors.ErrCodeInvalidConfig},
		{"RedisScheme", "[cache]\nredis_url = \"http://x\"\n", errors.ErrCodeInvalidConfig},
		{"MongoScheme", "[store]\nmongo_uri = \"localhost:27017\"\n", errors.ErrCodeInvalidConfig},
	}

	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvMongoURI, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() = %v, want %s", err, tt.code)
			}
		})
	}

	t.Run("MissingExplicit", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("Load() = %v, want FILE_NOT_FOUND", err)
		}
	})
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "treelayout", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
