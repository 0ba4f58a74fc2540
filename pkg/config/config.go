// Package config loads the server configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pcs-chat/pcsd/pkg/model"
)

// Duration wraps time.Duration so YAML configs can use "30s" style
// strings (yaml.v3 only decodes integers into time.Duration).
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\"")
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds everything the server consumes at startup.
type Config struct {
	Listen      string   `yaml:"listen"`       // TCP bind address (e.g. ":1235")
	WSListen    string   `yaml:"ws_listen"`    // websocket bind address (empty = disabled)
	CertFile    string   `yaml:"cert_file"`    // TLS certificate path (empty = plain TCP)
	KeyFile     string   `yaml:"key_file"`     // TLS private key path
	DBPath      string   `yaml:"db_path"`      // SQLite account store path
	MetricsAddr string   `yaml:"metrics_addr"` // metrics/health HTTP bind address (empty = disabled)
	AuthTimeout Duration `yaml:"auth_timeout"` // authorization handshake deadline
	KeepAlive   Duration `yaml:"keep_alive"`   // TCP keep-alive probe period

	// Accounts seeds the store on first run (when the store is empty).
	Accounts map[string]*model.Account `yaml:"accounts"`
}

// Default returns a config with sensible defaults: a lone admin
// account and a plain TCP listener.
func Default() Config {
	return Config{
		Listen:      ":1235",
		DBPath:      "pcsd.db",
		AuthTimeout: Duration(30 * time.Second),
		KeepAlive:   Duration(60 * time.Second),
		Accounts: map[string]*model.Account{
			"admin": {Admin: true},
		},
	}
}

// Load reads a YAML config file over the defaults. Malformed config is
// a startup failure.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path from user-provided CLI config
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the invariants startup depends on.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("cert_file and key_file must be set together")
	}
	if c.AuthTimeout <= 0 {
		return fmt.Errorf("auth_timeout must be positive")
	}
	for key := range c.Accounts {
		if err := model.ValidateName(key); err != nil {
			return fmt.Errorf("account %q: %w", key, err)
		}
	}
	return nil
}
