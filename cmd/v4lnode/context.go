package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"v4lnode/internal/config"
	"v4lnode/internal/logging"
	"v4lnode/internal/v4l"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	log        *slog.Logger
	logErr     error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := flagValue(c.logLevelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := flagValue(c.logFormatFlag); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.log = logger
	})
	return c.log, c.logErr
}

// roots maps the discovery section onto scanner roots.
func (c *commandContext) roots() (v4l.Roots, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return v4l.Roots{}, err
	}
	return v4l.Roots{
		DevDir:            cfg.Discovery.DevDir,
		VideoSysfsPrefix:  cfg.VideoSysfsPrefix(),
		SubdevSysfsPrefix: cfg.SubdevSysfsPrefix(),
	}, nil
}

func (c *commandContext) scanner() (*v4l.Scanner, error) {
	roots, err := c.roots()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger()
	if err != nil {
		return nil, err
	}
	return v4l.NewScanner(roots, logger), nil
}

// resolveNode accepts a node path or a bare name such as "video0"; bare
// names resolve against the configured device directory.
func (c *commandContext) resolveNode(arg string) (v4l.Node, error) {
	roots, err := c.roots()
	if err != nil {
		return v4l.Node{}, err
	}
	path := strings.TrimSpace(arg)
	if path != "" && !strings.ContainsRune(path, filepath.Separator) {
		path = filepath.Join(roots.DevDir, path)
	}
	return v4l.NewNodeWithRoots(path, roots), nil
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
