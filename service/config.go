package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/safing/iconloader/base/info"
	"github.com/safing/iconloader/base/log"
	"github.com/safing/iconloader/service/icons"
	"github.com/safing/iconloader/service/icons/fetch"
	"github.com/safing/iconloader/service/icons/loader"
	"github.com/safing/iconloader/service/icons/lookup"
)

// Defaults.
const (
	DefaultListenAddress = "127.0.0.1:8467"
	DefaultCacheSize     = 512
	DefaultCacheTTL      = 7 * 24 * time.Hour
)

// Config configures the icon loader service.
type Config struct {
	DataDir string `yaml:"dataDir"`

	LogToStdout bool   `yaml:"logToStdout"`
	LogDir      string `yaml:"logDir"`
	LogLevel    string `yaml:"logLevel"`

	ListenAddress string `yaml:"listenAddress"`

	CacheSize    int           `yaml:"cacheSize"`
	CacheTTL     time.Duration `yaml:"cacheTTL"`
	PersistCache bool          `yaml:"persistCache"`

	FetchTimeout time.Duration `yaml:"fetchTimeout"`
	MaxFetchSize int64         `yaml:"maxFetchSize"`
	UserAgent    string        `yaml:"userAgent"`
	Parallelism  int           `yaml:"parallelism"`

	// SelectionPolicy is "first" or "largest".
	SelectionPolicy string `yaml:"selectionPolicy"`
	StrictSniff     bool   `yaml:"strictSniff"`
	MaxEdge         int    `yaml:"maxEdge"`

	Lookup LookupConfig `yaml:"lookup"`

	policy icons.Policy
}

// LookupConfig configures the App Store lookup.
type LookupConfig struct {
	BaseURL string `yaml:"baseURL"`
	Entity  string `yaml:"entity"`
	Country string `yaml:"country"`
	Lang    string `yaml:"lang"`
	Limit   int    `yaml:"limit"`
}

// LoadConfig reads the config file at path. Fields that are not set keep
// their zero value until Init is called.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Init applies defaults, expands path variables and checks the config.
func (c *Config) Init() error {
	// Fall back to defaults.
	if c.DataDir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("derive data dir: %w", err)
		}
		c.DataDir = filepath.Join(cacheDir, "iconloader")
	}
	c.DataDir = os.ExpandEnv(c.DataDir)
	if c.LogDir == "" {
		c.LogDir = filepath.Join(c.DataDir, "logs")
	}
	c.LogDir = os.ExpandEnv(c.LogDir)
	if !c.LogToStdout && c.LogDir == "" {
		return errors.New("logging directory must be configured")
	}

	if c.ListenAddress == "" {
		c.ListenAddress = DefaultListenAddress
	}
	if c.CacheSize <= 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = fetch.DefaultTimeout
	}
	if c.MaxFetchSize <= 0 {
		c.MaxFetchSize = fetch.DefaultMaxSize
	}
	if c.UserAgent == "" {
		c.UserAgent = info.UserAgent()
	}
	if c.Parallelism <= 0 {
		c.Parallelism = loader.DefaultParallelism
	}
	if c.Lookup.BaseURL == "" {
		c.Lookup.BaseURL = lookup.DefaultBaseURL
	}

	// Check values.
	if c.MaxEdge < 0 {
		return fmt.Errorf("invalid max edge %d", c.MaxEdge)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("invalid cache ttl %s", c.CacheTTL)
	}
	policy, err := icons.ParsePolicy(c.SelectionPolicy)
	if err != nil {
		return err
	}
	c.policy = policy
	c.SelectionPolicy = policy.String()

	// Check log level.
	if c.LogLevel != "" && log.ParseLevel(c.LogLevel) == 0 {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	return nil
}

// Policy returns the parsed selection policy. Only valid after Init.
func (c *Config) Policy() icons.Policy {
	return c.policy
}

// CachePath returns the location of the cache database.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, "cache", "icons.bbolt")
}
