package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project-level configuration file looked up relative
// to the working directory.
const ConfigFileName = ".pluginhub.yaml"

// Config holds configuration loaded from .pluginhub.yaml.
type Config struct {
	Registry RegistrySettings `yaml:"registry"`
	Output   OutputSettings   `yaml:"output"`
}

// RegistrySettings configures the catalog source and cache.
type RegistrySettings struct {
	URL         string `yaml:"url"`          // remote catalog endpoint
	TokenEnv    string `yaml:"token_env"`    // env var name to read the bearer token from
	TTL         string `yaml:"ttl"`          // cache freshness window (e.g., "1h", "10m")
	StatePath   string `yaml:"state_path"`   // diagnostic state file location
	CatalogPath string `yaml:"catalog_path"` // local catalog file, overrides url when set
	RateLimit   int    `yaml:"rate_limit"`   // max fetches per minute, 0 = unlimited
}

// OutputSettings controls listing defaults.
type OutputSettings struct {
	PageSize int `yaml:"page_size"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Registry: RegistrySettings{
			TokenEnv:  "PLUGINHUB_TOKEN",
			TTL:       "1h",
			StatePath: filepath.Join(os.Getenv("HOME"), ".pluginhub", "state.json"),
		},
		Output: OutputSettings{PageSize: 20},
	}
}

// LoadConfig reads .pluginhub.yaml from dir. A missing file returns defaults
// without error; a malformed file is an error.
func LoadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}
	if cfg.Output.PageSize <= 0 {
		cfg.Output.PageSize = 20
	}
	return cfg, nil
}

// TTL parses the configured freshness window, falling back to DefaultTTL
// when unset.
func (c *Config) TTL() (time.Duration, error) {
	if c.Registry.TTL == "" {
		return DefaultTTL, nil
	}
	d, err := time.ParseDuration(c.Registry.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid registry.ttl %q: %w", c.Registry.TTL, err)
	}
	return d, nil
}

// Token resolves the bearer token from the configured environment variable.
func (c *Config) Token() string {
	if c.Registry.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.Registry.TokenEnv)
}

// Source builds the catalog source described by the configuration: the local
// catalog file when one is set, the remote endpoint otherwise.
func (c *Config) Source() (Source, error) {
	if c.Registry.CatalogPath != "" {
		return FileSource{Path: c.Registry.CatalogPath}, nil
	}
	if c.Registry.URL == "" {
		return nil, errors.New("no registry source configured: set registry.url or registry.catalog_path")
	}
	opts := []HTTPSourceOption{WithToken(c.Token())}
	if c.Registry.RateLimit > 0 {
		opts = append(opts, WithRateLimit(c.Registry.RateLimit))
	}
	return NewHTTPSource(c.Registry.URL, opts...), nil
}
