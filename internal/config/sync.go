package config

import (
	"fmt"
	"os"
)

const (
	EnvSyncBasePath = "DOUANE_SYNC_BASE_PATH"
	EnvSyncSecret   = "DOUANE_SYNC_SECRET"

	// SyncSecretHeader is the shared-secret header checked on every sync request.
	SyncSecretHeader = "x-sync-secret"
)

// SyncConfig holds the sync ingest surface settings.
type SyncConfig struct {
	BasePath string `toml:"base_path"`
	Secret   string `toml:"secret"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *SyncConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *SyncConfig) Merge(overlay *SyncConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
}

func (c *SyncConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/sync"
	}
}

func (c *SyncConfig) loadEnv() {
	if v := os.Getenv(EnvSyncBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvSyncSecret); v != "" {
		c.Secret = v
	}
}

func (c *SyncConfig) validate() error {
	if c.Secret == "" {
		return fmt.Errorf("secret required")
	}
	return nil
}
