// Package config loads extractgym settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/extractgym/config.toml (falling back to
// ~/.config/extractgym/config.toml) unless a path is given explicitly. A
// missing file is not an error: [Load] returns [Default] in that case.
// Command-line flags override values from the file.
//
//	extractor = "faster-greedy-dag"
//	mode = "assign"
//
//	[cache]
//	backend = "file"
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/extractgym/pkg/cache"
	"github.com/matzehuels/extractgym/pkg/errors"
	"github.com/matzehuels/extractgym/pkg/pipeline"
	"github.com/matzehuels/extractgym/pkg/render"
)

const appName = "extractgym"

// Config is the contents of a config file.
type Config struct {
	Extractor string `toml:"extractor"`
	Mode      string `toml:"mode"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects the selection cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "90m" or "168h".
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
		Extractor: pipeline.DefaultExtractor,
		Mode:      string(render.DefaultMode),
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     Duration{cache.TTLSelection},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns the config file location following the XDG convention.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path on top of [Default]. A missing file
// yields the defaults. Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := errors.ValidatePath(path); err != nil {
		return cfg, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "open config %s", path)
	}
	defer f.Close()

	cfg, err = Decode(f)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	return cfg, nil
}

// Decode parses a config document on top of [Default] and validates it.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return cfg, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidInput, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks that every value names something that exists.
func (c Config) Validate() error {
	if _, err := pipeline.LookupExtractor(c.Extractor); err != nil {
		return err
	}
	if _, err := render.ParseMode(c.Mode); err != nil {
		return err
	}
	backends := []string{cache.BackendFile, cache.BackendRedis, cache.BackendNone}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want one of %v)", c.Cache.Backend, backends)
	}
	if c.Cache.Backend == cache.BackendRedis {
		if err := errors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "cache.redis_url")
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return nil
}

// CacheOptions converts the cache section for [cache.Open]. dir is used when
// no directory is configured.
func (c Config) CacheOptions(dir string) cache.Options {
	opts := cache.Options{
		Backend:  c.Cache.Backend,
		Dir:      c.Cache.Dir,
		RedisURL: c.Cache.RedisURL,
		Prefix:   appName + ":",
	}
	if opts.Dir == "" {
		opts.Dir = dir
	}
	return opts
}
