// Package config loads bytefind settings from TOML.
//
// Example:
//
//	[search]
//	window = "4MiB"
//	async_threshold = "32MiB"
//	limit = 10000
//
//	[resources]
//	memory_limit = "256MiB"
//	io_limit = "64MiB"
//
//	[cache]
//	enabled = true
//	capacity = "128MiB"
//	block_size = "64KiB"
//
//	[log]
//	level = "info"
//	format = "text"
//
//	[s3]
//	region = "eu-central-1"
//
//	[minio]
//	endpoint = "localhost:9000"
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Size is a byte count written as "64KiB", "32 MB" or a plain number.
type Size uint64

func (s *Size) UnmarshalText(b []byte) error {
	n, err := humanize.ParseBytes(string(b))
	if err != nil {
		return err
	}
	*s = Size(n)
	return nil
}

// MarshalText writes the largest binary unit that divides s exactly.
func (s Size) MarshalText() ([]byte, error) {
	units := []struct {
		n    uint64
		name string
	}{{1 << 30, "GiB"}, {1 << 20, "MiB"}, {1 << 10, "KiB"}}

	for _, u := range units {
		if s != 0 && uint64(s)%u.n == 0 {
			return fmt.Appendf(nil, "%d%s", uint64(s)/u.n, u.name), nil
		}
	}
	return strconv.AppendUint(nil, uint64(s), 10), nil
}

func (s Size) String() string {
	return humanize.IBytes(uint64(s))
}

// Config is the root configuration.
type Config struct {
	Search    Search    `toml:"search"`
	Resources Resources `toml:"resources"`
	Cache     Cache     `toml:"cache"`
	Log       Log       `toml:"log"`
	S3        S3        `toml:"s3"`
	Minio     Minio     `toml:"minio"`
}

// Search holds engine settings.
type Search struct {
	// Window is the read window for virtual sources.
	Window Size `toml:"window"`
	// AsyncThreshold is the range size from which scans run on a worker.
	AsyncThreshold Size `toml:"async_threshold"`
	// Limit is the default find-all cap.
	Limit uint32 `toml:"limit"`
	// ProgressPerSecond caps progress callbacks.
	ProgressPerSecond float64 `toml:"progress_per_second"`
}

// Resources holds process-wide limits.
type Resources struct {
	MemoryLimit       Size  `toml:"memory_limit"`
	BackgroundWorkers int64 `toml:"background_workers"`
	IOLimit           Size  `toml:"io_limit"`
}

// Cache configures the block cache in front of remote sources.
type Cache struct {
	Enabled   bool `toml:"enabled"`
	Capacity  Size `toml:"capacity"`
	BlockSize Size `toml:"block_size"`
	// Sharded selects the sharded LRU for concurrent readers.
	Sharded bool `toml:"sharded"`
}

// Log configures logging.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// S3 configures s3:// sources. Credentials come from the default AWS chain.
type S3 struct {
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`
	Prefix   string `toml:"prefix"`
}

// Minio configures minio:// sources.
type Minio struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Secure    bool   `toml:"secure"`
	Region    string `toml:"region"`
	Prefix    string `toml:"prefix"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Search: Search{
			Window:            4 << 20,
			AsyncThreshold:    32 << 20,
			Limit:             10000,
			ProgressPerSecond: 10,
		},
		Resources: Resources{
			BackgroundWorkers: 1,
		},
		Cache: Cache{
			Enabled:   true,
			Capacity:  64 << 20,
			BlockSize: 64 << 10,
		},
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
		Minio: Minio{
			Endpoint: "localhost:9000",
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, returning the defaults when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// DefaultPath returns ~/.bytefind/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bytefind", "config.toml"), nil
}

// Save writes cfg to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Search.Limit == 0 {
		return fmt.Errorf("%w: search.limit must be positive", ErrInvalidConfig)
	}
	if c.Search.ProgressPerSecond < 0 {
		return fmt.Errorf("%w: search.progress_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Resources.BackgroundWorkers < 0 {
		return fmt.Errorf("%w: resources.background_workers must not be negative", ErrInvalidConfig)
	}
	if c.Cache.Enabled && c.Cache.BlockSize == 0 {
		return fmt.Errorf("%w: cache.block_size must be positive", ErrInvalidConfig)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json", ErrInvalidConfig)
	}
	return nil
}

// SlogLevel parses the configured level.
func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelWarn, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, err
	}
	return lvl, nil
}
