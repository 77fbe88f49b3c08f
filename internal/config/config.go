// Package config loads and saves the clawctl configuration file.
//
// Values are resolved in order of precedence: command-line flags, then the
// environment, then the file, then built-in defaults. Secrets (the private
// key and the Molten API key) are never read from or written to the file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/integrations/platform"
	"github.com/clawnch/clawctl/pkg/onchain"
)

const appName = "clawctl"

// Environment variables.
const (
	EnvBaseURL      = "CLAWNCH_BASE_URL"
	EnvRPCURL       = "CLAWNCH_RPC_URL"
	EnvPrivateKey   = "PRIVATE_KEY"
	EnvMoltenAPIKey = "MOLTEN_API_KEY"
)

// Cache and history backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Duration is a time.Duration that reads and writes as a string ("30s").
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

// Config is the file format.
type Config struct {
	BaseURL           string   `toml:"base_url" json:"base_url"`
	RPCURL            string   `toml:"rpc_url" json:"rpc_url"`
	ChainID           int64    `toml:"chain_id" json:"chain_id"`
	Timeout           Duration `toml:"timeout" json:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second" json:"requests_per_second"`

	Cache   CacheConfig   `toml:"cache" json:"cache"`
	History HistoryConfig `toml:"history" json:"history"`

	// Secrets come from the environment only.
	PrivateKey   string `toml:"-" json:"-"`
	MoltenAPIKey string `toml:"-" json:"-"`
}

// CacheConfig selects the response cache.
type CacheConfig struct {
	Backend  string   `toml:"backend" json:"backend"`
	TTL      Duration `toml:"ttl" json:"ttl"`
	Dir      string   `toml:"dir,omitempty" json:"dir,omitempty"`
	RedisURL string   `toml:"redis_url,omitempty" json:"redis_url,omitempty"`
}

// HistoryConfig selects the action ledger.
type HistoryConfig struct {
	Backend       string `toml:"backend" json:"backend"`
	Path          string `toml:"path,omitempty" json:"path,omitempty"`
	MongoURI      string `toml:"mongo_uri,omitempty" json:"mongo_uri,omitempty"`
	MongoDatabase string `toml:"mongo_database,omitempty" json:"mongo_database,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL: platform.DefaultBaseURL,
		RPCURL:  onchain.DefaultRPCURL,
		ChainID: onchain.DefaultChainID,
		Timeout: Duration{30 * time.Second},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{time.Minute},
		},
		History: HistoryConfig{
			Backend: BackendFile,
		},
	}
}

// Path returns the default config file location:
// $XDG_CONFIG_HOME/clawctl/config.toml or ~/.config/clawctl/config.toml.
func Path() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error. An empty path means [Path]. The result is
// not validated; callers apply their own overrides first and then call
// [Config.Validate].
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, clawerr.Wrap(clawerr.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvRPCURL); v != "" {
		c.RPCURL = v
	}
	c.PrivateKey = strings.TrimSpace(os.Getenv(EnvPrivateKey))
	c.MoltenAPIKey = strings.TrimSpace(os.Getenv(EnvMoltenAPIKey))
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}

// Validate checks URLs and backend names.
func (c *Config) Validate() error {
	if err := clawerr.ValidateURL(c.BaseURL); err != nil {
		return clawerr.Wrap(clawerr.ErrCodeInvalidConfig, err, "base_url")
	}
	if c.RPCURL == "" {
		return clawerr.New(clawerr.ErrCodeInvalidConfig, "rpc_url cannot be empty")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return clawerr.New(clawerr.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return clawerr.New(clawerr.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	switch c.History.Backend {
	case BackendFile, BackendNone:
	case BackendMongo:
		if c.History.MongoURI == "" {
			return clawerr.New(clawerr.ErrCodeInvalidConfig, "history.mongo_uri is required for the mongo backend")
		}
	default:
		return clawerr.New(clawerr.ErrCodeInvalidConfig, "unknown history backend %q (want file, mongo or none)", c.History.Backend)
	}
	if c.RequestsPerSecond < 0 {
		return clawerr.New(clawerr.ErrCodeInvalidConfig, "requests_per_second cannot be negative")
	}
	return nil
}

// Encode renders cfg as TOML. Secrets are never included.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
