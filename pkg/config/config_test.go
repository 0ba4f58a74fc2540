package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pcs-chat/pcsd/pkg/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pcsd.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":1235" {
		t.Errorf("Listen = %q, want :1235", cfg.Listen)
	}
	if cfg.AuthTimeout.Std() != 30*time.Second {
		t.Errorf("AuthTimeout = %v, want 30s", cfg.AuthTimeout.Std())
	}
	admin, ok := cfg.Accounts["admin"]
	if !ok || !admin.Admin {
		t.Errorf("default config missing admin seed account")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
listen: ":9000"
db_path: "chat.db"
auth_timeout: 10s
accounts:
  root:
    admin: true
  guest:
    password: "topsecret"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.AuthTimeout.Std() != 10*time.Second {
		t.Errorf("AuthTimeout = %v", cfg.AuthTimeout.Std())
	}
	if _, ok := cfg.Accounts["root"]; !ok {
		t.Errorf("accounts not loaded")
	}
	if got := cfg.Accounts["guest"].Password; got != "topsecret" {
		t.Errorf("guest password = %q", got)
	}
}

func TestLoadFailsFast(t *testing.T) {
	tcases := map[string]string{
		"malformed_yaml":   "listen: [unclosed",
		"empty_listen":     `listen: ""`,
		"cert_without_key": "cert_file: server.crt",
		"zero_timeout":     "auth_timeout: 0s",
		"bad_account_key":  "accounts:\n  \"two words\": {}",
	}
	for name, body := range tcases {
		t.Run(name, func(t *testing.T) {
			if _, err := config.Load(writeConfig(t, body)); err == nil {
				t.Errorf("Load accepted invalid config %q", body)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("Load of missing file succeeded")
	}
}
