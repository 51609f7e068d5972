package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.BaseURL) == "" {
		return errors.New("catalog.base_url must be set")
	}
	if strings.TrimSpace(c.Catalog.ScriptName) == "" {
		return errors.New("catalog.script_name must be set")
	}
	if strings.TrimSpace(c.Catalog.ScriptKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/stockwell/config.toml"
		}
		return fmt.Errorf("catalog.script_key is required. Set STOCKWELL_SCRIPT_KEY env var or edit %s (create with 'stockwell config init')", defaultPath)
	}
	if c.Catalog.ProjectID <= 0 {
		return errors.New("catalog.project_id must be a positive entity id")
	}
	if strings.TrimSpace(c.Catalog.LibraryStatus) == "" {
		return errors.New("catalog.library_status must be set")
	}
	if strings.TrimSpace(c.Catalog.PermissionGroup) == "" {
		return errors.New("catalog.permission_group must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
