// Package config loads treelayout settings from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, environment
// variables, command-line flags. Flags are applied by the CLI after [Load]
// returns.
//
// Example file:
//
//	[input]
//	delimiter = ";"
//	child_column = "start_point"
//	parent_column = "end_point"
//
//	[layout]
//	max_depth = 64
//
//	[output]
//	formats = ["xlsx", "csv"]
//	dir = "out"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treelayout/pkg/errors"
	"github.com/matzehuels/treelayout/pkg/export/sink"
	"github.com/matzehuels/treelayout/pkg/pipeline"
)

const appName = "treelayout"

// Environment variables that override the file.
const (
	EnvRedisURL = "TREELAYOUT_REDIS_URL"
	EnvMongoURI = "TREELAYOUT_MONGO_URI"
	EnvAddr     = "TREELAYOUT_ADDR"
)

// DefaultAddr is the API server listen address.
const DefaultAddr = ":8080"

// Config is the full treelayout configuration.
type Config struct {
	Input  InputConfig  `toml:"input"`
	Layout LayoutConfig `toml:"layout"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// InputConfig describes the edge files.
type InputConfig struct {
	Delimiter    string `toml:"delimiter"`
	ChildColumn  string `toml:"child_column"`
	ParentColumn string `toml:"parent_column"`
	Disambiguate bool   `toml:"disambiguate"`
}

// LayoutConfig tunes the layout engine.
type LayoutConfig struct {
	MaxDepth int `toml:"max_depth"` // 0 disables the limit
	Workers  int `toml:"workers"`   // 0 uses GOMAXPROCS
}

// OutputConfig selects what gets written and where.
type OutputConfig struct {
	Formats  []string `toml:"formats"`
	Dir      string   `toml:"dir"`
	Combine  bool     `toml:"combine"`
	Scale    float64  `toml:"scale"`
	Detailed bool     `toml:"detailed"`
}

// CacheConfig selects the cache backend. A RedisURL takes precedence over
// the local file cache.
type CacheConfig struct {
	Enabled  bool   `toml:"enabled"`
	Dir      string `toml:"dir"` // default: $XDG_CACHE_HOME/treelayout
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// StoreConfig configures run persistence for the API server. Without a
// MongoURI runs are kept in memory.
type StoreConfig struct {
	MongoURI   string        `toml:"mongo_uri"`
	Database   string        `toml:"database"`
	Collection string        `toml:"collection"`
	Timeout    time.Duration `toml:"timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Input: InputConfig{
			Delimiter: pipeline.DefaultDelimiter,
		},
		Output: OutputConfig{
			Formats: pipeline.DefaultFormats,
			Dir:     ".",
			Scale:   pipeline.DefaultScale,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    32 << 20,
		},
	}
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/treelayout/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path and applies environment overrides.
//
// An empty path means [DefaultPath], which may be absent: the defaults are
// used then. A path given explicitly must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			cfg.applyEnv(os.Getenv)
			return cfg, cfg.Validate()
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case stderrors.Is(err, fs.ErrNotExist) && !explicit:
	case stderrors.Is(err, fs.ErrNotExist):
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file")
	default:
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides service addresses from the environment.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := pipeline.ParseDelimiter(c.Input.Delimiter); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[input] delimiter")
	}
	if c.Layout.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[layout] max_depth must not be negative")
	}
	if c.Layout.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[layout] workers must not be negative")
	}
	for _, f := range c.Output.Formats {
		if err := sink.ValidateFormat(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[output] formats")
		}
	}
	if c.Cache.RedisURL != "" {
		if err := errors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return err
		}
	}
	if c.Store.MongoURI != "" {
		if err := errors.ValidateURL(c.Store.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return err
		}
	}
	return nil
}

// PipelineOptions returns pipeline options for the configured input, layout
// and output settings.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Delimiter:    c.Input.Delimiter,
		ChildColumn:  c.Input.ChildColumn,
		ParentColumn: c.Input.ParentColumn,
		Disambiguate: c.Input.Disambiguate,
		MaxDepth:     c.Layout.MaxDepth,
		Workers:      c.Layout.Workers,
		Formats:      c.Output.Formats,
		Combine:      c.Output.Combine,
		Scale:        c.Output.Scale,
		Detailed:     c.Output.Detailed,
	}
}
