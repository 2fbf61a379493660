package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the atscore configuration
type Config struct {
	Root           string       `mapstructure:"root" json:"root"`
	Exclude        []string     `mapstructure:"exclude" json:"exclude,omitempty"`
	FollowSymlinks bool         `mapstructure:"followSymlinks" json:"followSymlinks"`
	Format         string       `mapstructure:"format" json:"format"`
	Output         string       `mapstructure:"output" json:"output,omitempty"`
	FailUnder      int          `mapstructure:"failUnder" json:"failUnder"`
	Quiet          bool         `mapstructure:"quiet" json:"quiet"`
	Verbose        bool         `mapstructure:"verbose" json:"verbose"`
	LogJSON        bool         `mapstructure:"logJSON" json:"logJSON"`
	Baseline       string       `mapstructure:"baseline" json:"baseline,omitempty"`
	Schemas        SchemaConfig `mapstructure:"schemas" json:"schemas"`
	Concurrency    int          `mapstructure:"concurrency" json:"concurrency"`
	Serve          ServeConfig  `mapstructure:"serve" json:"serve"`
	Watch          WatchConfig  `mapstructure:"watch" json:"watch"`
}

// SchemaConfig contains schema configuration
type SchemaConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}

// ServeConfig configures the HTTP scoring service.
type ServeConfig struct {
	Addr           string          `mapstructure:"addr" json:"addr" validate:"required,hostname_port"`
	ReadTimeout    time.Duration   `mapstructure:"readTimeout" json:"readTimeout" validate:"gt=0"`
	WriteTimeout   time.Duration   `mapstructure:"writeTimeout" json:"writeTimeout" validate:"gt=0"`
	MaxRequestSize int64           `mapstructure:"maxRequestSize" json:"maxRequestSize" validate:"gt=0"`
	RateLimit      RateLimitConfig `mapstructure:"rateLimit" json:"rateLimit"`
}

// RateLimitConfig configures per-client request throttling.
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled" json:"enabled"`
	RequestsPerMin int  `mapstructure:"requestsPerMin" json:"requestsPerMin" validate:"required_if=Enabled true,gte=0"`
	Burst          int  `mapstructure:"burst" json:"burst" validate:"required_if=Enabled true,gte=0"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" json:"debounce"`
}

// ConfigFiles lists the config file names searched, in priority order.
var ConfigFiles = []string{".atscorerc.json", ".atscorerc.yaml", ".atscorerc.yml"}

// Default values shared by LoadConfig and the command flags.
const (
	DefaultFormat         = "console"
	DefaultConcurrency    = 8
	DefaultAddr           = "127.0.0.1:8080"
	DefaultMaxRequestSize = 1 << 20
	DefaultDebounce       = 300 * time.Millisecond
)

// LoadConfig loads configuration from various sources
func LoadConfig(rootPath string) (*Config, error) {
	// Set default values
	viper.SetDefault("root", "") // empty: detect the project root
	viper.SetDefault("exclude", []string{})
	viper.SetDefault("format", DefaultFormat)
	viper.SetDefault("output", "")
	viper.SetDefault("failUnder", 0)
	viper.SetDefault("followSymlinks", false)
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("logJSON", false)
	viper.SetDefault("baseline", "")
	viper.SetDefault("concurrency", DefaultConcurrency)
	viper.SetDefault("schemas.enabled", true)
	viper.SetDefault("serve.addr", DefaultAddr)
	viper.SetDefault("serve.readTimeout", 10*time.Second)
	viper.SetDefault("serve.writeTimeout", 10*time.Second)
	viper.SetDefault("serve.maxRequestSize", DefaultMaxRequestSize)
	viper.SetDefault("serve.rateLimit.enabled", true)
	viper.SetDefault("serve.rateLimit.requestsPerMin", 120)
	viper.SetDefault("serve.rateLimit.burst", 20)
	viper.SetDefault("watch.debounce", DefaultDebounce)

	// Config file locations, relative to the working directory
	for _, path := range ConfigFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, err)
		}
		break
	}

	// Environment variables: ATSCORE_FORMAT, ATSCORE_SERVE_ADDR, ...
	viper.SetEnvPrefix("ATSCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Override root if provided
	if rootPath != "" {
		config.Root = rootPath
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	switch config.Format {
	case "console", "json", "markdown":
	default:
		return fmt.Errorf("invalid format: %s. Must be 'console', 'json', or 'markdown'", config.Format)
	}

	if config.FailUnder < 0 || config.FailUnder > 100 {
		return fmt.Errorf("fail-under must be between 0 and 100, got %d", config.FailUnder)
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if config.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative")
	}

	return nil
}

// SaveConfig saves the current configuration to a file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
