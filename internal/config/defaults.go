package config

const (
	defaultDevDir       = "/dev"
	defaultSysfsDir     = "/sys/class/video4linux"
	defaultStateDir     = "~/.local/share/v4lnode"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultPollInterval = 0
	defaultEventLimit   = 20
	defaultConfigPath   = "~/.config/v4lnode/config.toml"
	projectConfigName   = "v4lnode.toml"
	devDirEnv           = "V4LNODE_DEV_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Discovery: Discovery{
			DevDir:   defaultDevDir,
			SysfsDir: defaultSysfsDir,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Watch: Watch{
			PollInterval: defaultPollInterval,
			Record:       true,
		},
		Inventory: Inventory{
			EventLimit: defaultEventLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
