package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/leapstack-labs/docsite/internal/cli/output"
)

// minSecretLen is the shortest session secret accepted in production.
const minSecretLen = 32

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.ViewIdleTimeout < 0 || c.Server.SweepInterval < 0 {
		return errors.New("server timeouts must not be negative")
	}
	if c.Analytics.Enabled && c.Analytics.Path == "" {
		return errors.New("analytics.path is required when analytics is enabled")
	}
	if c.IsProduction() && len(c.Server.SessionSecret) < minSecretLen {
		return fmt.Errorf("server.session_secret must be at least %d bytes in production", minSecretLen)
	}
	return nil
}

// ValidateDirectories checks that the content directory exists when one is
// configured.
func (c *Config) ValidateDirectories() error {
	if c.ContentDir == "" {
		return nil
	}
	info, err := os.Stat(c.ContentDir)
	if err != nil {
		return fmt.Errorf("content directory does not exist: %s\nHint: Create the directory or use --content-dir to specify a different path", c.ContentDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("content path is not a directory: %s", c.ContentDir)
	}
	return nil
}
