package model

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override
// (e.g. MAILCONSOLE_API_URL).
const EnvPrefix = "MAILCONSOLE"

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// APIURL is the GraphQL endpoint of the mail API.
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// APIToken is an optional bearer token sent with every request.
	// When empty the system keyring is consulted.
	APIToken string `mapstructure:"api_token" yaml:"api_token"`

	// StatePath is the SQLite file holding the cached configuration ID.
	StatePath string `mapstructure:"state_path" yaml:"state_path"`

	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	RequestTimeoutSec int `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
	ToastSeconds      int `mapstructure:"toast_seconds" yaml:"toast_seconds"`
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *AppConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// ToastDuration returns how long a notification stays on screen.
func (c *AppConfig) ToastDuration() time.Duration {
	return time.Duration(c.ToastSeconds) * time.Second
}

// Validate checks the settings the application cannot start without.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is required (set %s_API_URL)", EnvPrefix)
	}
	parsed, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api_url must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("api_url must include a host")
	}
	if c.RequestTimeoutSec <= 0 {
		return errors.New("request_timeout_sec must be positive")
	}
	return nil
}

// ConfigDir returns ~/.config/mailconsole, falling back to the working
// directory when the home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "mailconsole")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mailconsole/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LoadConfig reads configuration from the given YAML file path using Viper,
// then applies MAILCONSOLE_* environment overrides. A missing file is not
// an error; defaults and the environment still apply.
func LoadConfig(path string) (*AppConfig, error) {
	dir := ConfigDir()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// Every key needs a default so Unmarshal sees environment values.
	v.SetDefault("api_url", "")
	v.SetDefault("api_token", "")
	v.SetDefault("state_path", filepath.Join(dir, "state.db"))
	v.SetDefault("log_file", filepath.Join(dir, "mailconsole.log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("request_timeout_sec", 30)
	v.SetDefault("toast_seconds", 4)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
