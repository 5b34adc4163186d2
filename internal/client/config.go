// Package client implements the terminal task client: a thin REST API layer
// and a bubbletea view over it.
package client

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultAPIURL matches the server's default listen address.
const DefaultAPIURL = "http://localhost:8000"

// Config holds the client configuration.
type Config struct {
	// APIURL is the base URL of the taskshare server.
	APIURL string `toml:"api_url"`
	// Email scopes the task list when no token is configured.
	Email string `toml:"email"`
	// Token is a bearer token from /auth/login; optional.
	Token string `toml:"token"`
}

// DefaultConfigPath returns ~/.taskshare.toml, overridable via
// TASKSHARE_CONFIG.
func DefaultConfigPath() string {
	if p := os.Getenv("TASKSHARE_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskshare.toml"
	}
	return filepath.Join(home, ".taskshare.toml")
}

// LoadConfig reads the TOML config at path. A missing file yields defaults;
// the email can still come from TASKSHARE_EMAIL.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{APIURL: DefaultAPIURL}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TASKSHARE_EMAIL"); v != "" {
		cfg.Email = v
	}
	if v := os.Getenv("TASKSHARE_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("TASKSHARE_API_URL"); v != "" {
		cfg.APIURL = v
	}
}
