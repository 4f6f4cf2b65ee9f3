// Package config loads circle-planner settings from a TOML file.
//
// A missing file is not an error: every field has a default, and the CLI
// overrides individual values with flags after loading.
//
//	[server]
//	addr = ":8080"
//	cors_origin = "*"
//
//	[search]
//	max_expansions = 0
//	sequential = false
//	timeout = "5s"
//
//	[generator]
//	count = 10
//	coord_range = 250.0
//	radius_range = 15.0
//	min_radius = 10.0
//	seed = 0
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"circle-planner/errors"
	"circle-planner/layout"
)

// Config is the full configuration.
type Config struct {
	Server    Server    `toml:"server"`
	Search    Search    `toml:"search"`
	Generator Generator `toml:"generator"`
}

// Server configures the HTTP server.
type Server struct {
	Addr       string `toml:"addr"`
	CORSOrigin string `toml:"cors_origin"`
}

// Search configures each planning request.
type Search struct {
	MaxExpansions int      `toml:"max_expansions"`
	Sequential    bool     `toml:"sequential"`
	Timeout       Duration `toml:"timeout"`
}

// Generator configures random layouts. Seed 0 means seed from the clock.
type Generator struct {
	layout.Options
	Seed int64 `toml:"seed"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:       ":8080",
			CORSOrigin: "*",
		},
		Search: Search{
			Timeout: Duration{5 * time.Second},
		},
		Generator: Generator{
			Options: layout.DefaultOptions(),
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q in %s", undecoded[0].String(), path)
	}

	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is empty")
	}
	if c.Search.MaxExpansions < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "search.max_expansions must not be negative")
	}
	if c.Search.Timeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "search.timeout must not be negative")
	}
	if err := c.Generator.Options.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "generator")
	}
	return nil
}
