package testsupport

import (
	"path/filepath"
	"testing"

	"v4lnode/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Discovery points at an empty synthetic tree under the same base directory;
// use WithDeviceTree to share a populated one.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Discovery.DevDir = filepath.Join(base, "dev")
	cfgVal.Discovery.SysfsDir = filepath.Join(base, "sys", "class", "video4linux")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDeviceTree points discovery at tree.
func WithDeviceTree(tree *DeviceTree) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Discovery.DevDir = tree.DevDir
		b.cfg.Discovery.SysfsDir = tree.SysfsDir
	}
}

// WithoutRecording disables inventory recording for watch tests.
func WithoutRecording() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Watch.Record = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
