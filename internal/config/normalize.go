package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeDiscovery(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeInventory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeDiscovery() error {
	var err error
	if strings.TrimSpace(c.Discovery.DevDir) == "" {
		c.Discovery.DevDir = defaultDevDir
	}
	if c.Discovery.DevDir, err = expandPath(strings.TrimSpace(c.Discovery.DevDir)); err != nil {
		return fmt.Errorf("discovery.dev_dir: %w", err)
	}
	if strings.TrimSpace(c.Discovery.SysfsDir) == "" {
		c.Discovery.SysfsDir = defaultSysfsDir
	}
	if c.Discovery.SysfsDir, err = expandPath(strings.TrimSpace(c.Discovery.SysfsDir)); err != nil {
		return fmt.Errorf("discovery.sysfs_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeInventory() {
	if c.Inventory.EventLimit <= 0 {
		c.Inventory.EventLimit = defaultEventLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
