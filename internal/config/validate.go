package config

import (
	"errors"
	"fmt"
	"os"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDiscovery(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDiscovery() error {
	if c.Discovery.DevDir == "" {
		return errors.New("discovery.dev_dir must be set")
	}
	if c.Discovery.SysfsDir == "" {
		return errors.New("discovery.sysfs_dir must be set")
	}
	if info, err := os.Stat(c.Discovery.DevDir); err == nil && !info.IsDir() {
		return fmt.Errorf("discovery.dev_dir %q is not a directory", c.Discovery.DevDir)
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.PollInterval < 0 {
		return errors.New("watch.poll_interval must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q (want debug, info, warn, or error)", c.Logging.Level)
	}
	return nil
}
