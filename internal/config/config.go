// Package config loads the optional TOML configuration file shared by the
// dsm commands. Flags override file values; the file only carries settings
// too awkward for flags (store backends, credentials).
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/cszdzs/sonarqube/pkg/errors"
)

// Redis configures the Redis edge stream backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Mongo configures the MongoDB measure sink.
type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// API configures the serve command.
type API struct {
	Addr string `toml:"addr"`
}

// Config is the full file layout.
type Config struct {
	// CacheDir overrides the XDG default for the on-disk edge cache.
	CacheDir string `toml:"cache_dir"`

	Redis Redis `toml:"redis"`
	Mongo Mongo `toml:"mongo"`
	API   API   `toml:"api"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		API: API{Addr: ":8080"},
	}
}

// Load reads the TOML file at path. A missing file yields the defaults when
// path is empty, and an error when a path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if cfg.API.Addr == "" {
		cfg.API.Addr = Default().API.Addr
	}
	return cfg, nil
}
