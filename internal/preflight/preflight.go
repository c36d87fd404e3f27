package preflight

import (
	"v4lnode/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Device directory", cfg.Discovery.DevDir, AccessRead),
		CheckDirectoryAccess("sysfs video4linux", cfg.Discovery.SysfsDir, AccessRead),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir, AccessReadWrite),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, AccessReadWrite))
	}
	return results
}
