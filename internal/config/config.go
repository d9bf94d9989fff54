package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Built-in defaults; a missing config file is not an error.
const (
	DefaultPlatformURL        = "https://www.bridgecrew.cloud/api/v1"
	DefaultStorageEndpoint    = "s3.amazonaws.com"
	DefaultSettleDelaySeconds = 10
)

// DefaultSupportedExtensions is the static policy table of file
// extensions eligible for repository upload.
var DefaultSupportedExtensions = []string{".tf", ".yml", ".yaml", ".json", ".template"}

type Config struct {
	Platform struct {
		URL string `yaml:"url"`
		// SettleDelaySeconds is the minimum wait after credential
		// issuance before the first upload, covering propagation of
		// the freshly granted access policy on the platform side.
		SettleDelaySeconds int `yaml:"settleDelaySeconds"`
	} `yaml:"platform"`

	Storage struct {
		Endpoint string `yaml:"endpoint"`
		UseSSL   *bool  `yaml:"useSSL"`
	} `yaml:"storage"`

	Scan struct {
		SupportedExtensions []string `yaml:"supportedExtensions"`
	} `yaml:"scan"`
}

// Load reads a yaml config file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Platform.URL == "" {
		c.Platform.URL = DefaultPlatformURL
	}
	if c.Platform.SettleDelaySeconds == 0 {
		c.Platform.SettleDelaySeconds = DefaultSettleDelaySeconds
	}
	if c.Storage.Endpoint == "" {
		c.Storage.Endpoint = DefaultStorageEndpoint
	}
	if c.Storage.UseSSL == nil {
		ssl := true
		c.Storage.UseSSL = &ssl
	}
	if len(c.Scan.SupportedExtensions) == 0 {
		c.Scan.SupportedExtensions = append([]string(nil), DefaultSupportedExtensions...)
	}
}

// SettleDelay is Platform.SettleDelaySeconds as a duration. A negative
// value disables the wait.
func (c *Config) SettleDelay() time.Duration {
	if c.Platform.SettleDelaySeconds < 0 {
		return 0
	}
	return time.Duration(c.Platform.SettleDelaySeconds) * time.Second
}

// ExtensionSet returns the supported extensions as a lookup set.
func (c *Config) ExtensionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Scan.SupportedExtensions))
	for _, ext := range c.Scan.SupportedExtensions {
		set[ext] = struct{}{}
	}
	return set
}
