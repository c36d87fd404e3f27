package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"v4lnode/internal/v4l"
)

// DeviceTree is a synthetic /dev directory paired with a fake
// /sys/class/video4linux tree.
type DeviceTree struct {
	t        testing.TB
	DevDir   string
	SysfsDir string
}

// NewDeviceTree creates empty dev and sysfs directories under a temp dir.
func NewDeviceTree(t testing.TB) *DeviceTree {
	t.Helper()

	base := t.TempDir()
	tree := &DeviceTree{
		t:        t,
		DevDir:   filepath.Join(base, "dev"),
		SysfsDir: filepath.Join(base, "sys", "class", "video4linux"),
	}
	for _, dir := range []string{tree.DevDir, tree.SysfsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return tree
}

// Roots returns discovery roots pointing at the tree.
func (d *DeviceTree) Roots() v4l.Roots {
	return v4l.Roots{
		DevDir:            d.DevDir,
		VideoSysfsPrefix:  filepath.Join(d.SysfsDir, "video"),
		SubdevSysfsPrefix: filepath.Join(d.SysfsDir, "v4l-subdev"),
	}
}

// AddNode creates an empty regular file standing in for a device node and
// returns its path. Any file name is accepted so tests can add unrelated
// entries too.
func (d *DeviceTree) AddNode(name string) string {
	d.t.Helper()

	path := filepath.Join(d.DevDir, name)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		d.t.Fatalf("create node %s: %v", path, err)
	}
	return path
}

// RemoveNode deletes a node created with AddNode.
func (d *DeviceTree) RemoveNode(name string) {
	d.t.Helper()

	if err := os.Remove(filepath.Join(d.DevDir, name)); err != nil {
		d.t.Fatalf("remove node %s: %v", name, err)
	}
}

// SetName writes the sysfs name attribute for the sysfs entry called entry
// (for example "video0" or "v4l-subdev2"). The contents are written verbatim.
func (d *DeviceTree) SetName(entry, contents string) {
	d.t.Helper()

	dir := filepath.Join(d.SysfsDir, entry)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		d.t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "name"), []byte(contents), 0o644); err != nil {
		d.t.Fatalf("write name for %s: %v", entry, err)
	}
}

// AddDevice creates the node and its sysfs name in one step.
func (d *DeviceTree) AddDevice(name, displayName string) string {
	d.t.Helper()

	path := d.AddNode(name)
	d.SetName(name, displayName+"\n")
	return path
}
