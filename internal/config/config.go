// Package config loads the timegrid configuration file.
//
// The file is TOML, by default at ~/.config/timegrid/config.toml. It carries
// default view and geometry values, server settings, store and cache backend
// selection, and named sources. Every field is optional; command-line flags
// override file values, and a missing default file is not an error.
//
// Example:
//
//	[defaults]
//	view  = "week"
//	hours = "9-18"
//	zone  = "Europe/Berlin"
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	backend = "file"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[sources]
//	team = "https://calendars.example.com/team.ics"
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/schedule"
	"github.com/Bravo-Actual/timegrid/pkg/timeline"
)

// Backend names accepted by the store and cache sections.
const (
	StoreFile  = "file"
	StoreMongo = "mongo"

	CacheFile  = "file"
	CacheRedis = "redis"
	CacheOff   = "off"
)

// Config is the root of the configuration file. The zero value means
// "use built-in defaults" throughout.
type Config struct {
	Defaults Defaults          `toml:"defaults"`
	Server   Server            `toml:"server"`
	Store    Store             `toml:"store"`
	Cache    Cache             `toml:"cache"`
	Sources  map[string]string `toml:"sources"`
}

// Defaults are the view and geometry values applied when the matching
// flag is not given. Field names follow the flag names.
type Defaults struct {
	View        string  `toml:"view"`
	Days        int     `toml:"days"`
	Zone        string  `toml:"zone"`
	Px          float64 `toml:"px"`
	Snap        int     `toml:"snap"`
	Hours       string  `toml:"hours"`
	GroupBy     string  `toml:"group_by"`
	ColumnWidth float64 `toml:"column_width"`
}

// Server configures the HTTP server.
type Server struct {
	Addr string `toml:"addr"`
}

// Store selects and configures the schedule store backend.
type Store struct {
	Backend string `toml:"backend"`

	// file backend
	Path string `toml:"path"`

	// mongo backend
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Cache selects and configures the pipeline cache backend.
type Cache struct {
	Backend string `toml:"backend"`

	// file backend
	Dir string `toml:"dir"`

	// redis backend
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// DefaultPath returns the default configuration file location,
// ~/.config/timegrid/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "timegrid", "config.toml")
}

// Load reads and validates a configuration file.
//
// An empty path means DefaultPath; a missing file there yields an empty
// Config without error. An explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return &Config{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return &cfg, nil
}

// Validate checks every value the file may carry. Empty fields are
// always valid.
func (c *Config) Validate() error {
	d := c.Defaults
	if d.View != "" {
		if _, err := schedule.ParseView(d.View); err != nil {
			return err
		}
	}
	if err := errors.ValidateZone(d.Zone); err != nil {
		return err
	}
	if _, err := timeline.ParseHourWindow(d.Hours); err != nil {
		return err
	}
	if d.Days < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "days must not be negative, got %d", d.Days)
	}
	if d.Px < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "px must not be negative, got %v", d.Px)
	}
	if d.Snap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "snap must not be negative, got %d", d.Snap)
	}
	if d.ColumnWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "column_width must not be negative, got %v", d.ColumnWidth)
	}

	switch c.Store.Backend {
	case "", StoreFile, StoreMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown store backend %q (valid: file, mongo)", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case "", CacheFile, CacheRedis, CacheOff:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (valid: file, redis, off)", c.Cache.Backend)
	}

	return nil
}

// Source resolves a named source to its ref. The second return reports
// whether the name is configured.
func (c *Config) Source(name string) (string, bool) {
	ref, ok := c.Sources[name]
	return ref, ok
}
