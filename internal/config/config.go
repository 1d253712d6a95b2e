package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"

	"github.com/vellumos/webview/internal/types"
)

// Config holds all host configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Webview   WebviewConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig bounds inbound surface messages per connection.
type RateLimitConfig struct {
	MessagesPerSecond int  `envconfig:"RATE_LIMIT_MPS" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// WebviewConfig holds bridge-level settings.
type WebviewConfig struct {
	// TunnelDaemon is the base URL of the local tunnel daemon, empty when
	// port mappings with dynamic targets are unused.
	TunnelDaemon string `envconfig:"TUNNEL_DAEMON"`

	// SupportsMenuAccelerators is the platform capability flag for menu
	// accelerator suppression.
	SupportsMenuAccelerators bool `envconfig:"MENU_ACCELERATORS" default:"false"`

	// HostFile optionally points at a YAML host definition.
	HostFile string `envconfig:"HOST_FILE"`
}

// HostDefinition is the optional YAML file describing the embedded content:
// extension location, resource roots, and port mappings.
type HostDefinition struct {
	ExtensionLocation  string              `yaml:"extension_location"`
	LocalResourceRoots []string            `yaml:"local_resource_roots"`
	PortMappings       []types.PortMapping `yaml:"port_mappings"`
	HTMLFile           string              `yaml:"html_file"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			MessagesPerSecond: 200,
			Enabled:           true,
		},
	}
}

// LoadHostDefinition reads a YAML host definition file.
func LoadHostDefinition(path string) (*HostDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read host definition: %w", err)
	}
	var def HostDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse host definition %s: %w", path, err)
	}
	return &def, nil
}
