package preflight

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// AccessMode selects which permissions CheckDirectoryAccess requires.
type AccessMode int

const (
	AccessRead AccessMode = iota
	AccessReadWrite
)

func (m AccessMode) bits() uint32 {
	if m == AccessReadWrite {
		return unix.R_OK | unix.W_OK | unix.X_OK
	}
	return unix.R_OK | unix.X_OK
}

func (m AccessMode) label() string {
	if m == AccessReadWrite {
		return "read/write ok"
	}
	return "read ok"
}

// CheckDirectoryAccess verifies that the directory exists and grants mode.
func CheckDirectoryAccess(name, path string, mode AccessMode) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode.bits()); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, mode.label())}
}

// NodeAccess describes a device node as seen through stat(2) and access(2).
type NodeAccess struct {
	Path       string `json:"path"`
	CharDevice bool   `json:"char_device"`
	Major      uint32 `json:"major,omitempty"`
	Minor      uint32 `json:"minor,omitempty"`
	Readable   bool   `json:"readable"`
	Writable   bool   `json:"writable"`
}

// Permissions renders the access bits as "rw", "r-", "-w" or "--".
func (a NodeAccess) Permissions() string {
	var b strings.Builder
	if a.Readable {
		b.WriteByte('r')
	} else {
		b.WriteByte('-')
	}
	if a.Writable {
		b.WriteByte('w')
	} else {
		b.WriteByte('-')
	}
	return b.String()
}

// DeviceNumber renders "major:minor" for character devices and "-" otherwise.
func (a NodeAccess) DeviceNumber() string {
	if !a.CharDevice {
		return "-"
	}
	return fmt.Sprintf("%d:%d", a.Major, a.Minor)
}

// ProbeNode stats path and checks read/write permission for the current
// user. It follows symlinks, like opening the node would.
func ProbeNode(path string) (NodeAccess, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		if errors.Is(err, unix.ENOENT) {
			return NodeAccess{Path: path}, fmt.Errorf("stat %s: %w", path, os.ErrNotExist)
		}
		return NodeAccess{Path: path}, fmt.Errorf("stat %s: %w", path, err)
	}

	access := NodeAccess{
		Path:     path,
		Readable: unix.Access(path, unix.R_OK) == nil,
		Writable: unix.Access(path, unix.W_OK) == nil,
	}
	if st.Mode&unix.S_IFMT == unix.S_IFCHR {
		rdev := uint64(st.Rdev) //nolint:unconvert // Rdev is uint32 on some architectures
		access.CharDevice = true
		access.Major = unix.Major(rdev)
		access.Minor = unix.Minor(rdev)
	}
	return access, nil
}

// CheckNode summarizes ProbeNode as a preflight Result. A node passes when it
// is a readable and writable character device.
func CheckNode(path string) Result {
	access, err := ProbeNode(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Name: path, Detail: "does not exist"}
		}
		return Result{Name: path, Detail: err.Error()}
	}
	if !access.CharDevice {
		return Result{Name: path, Detail: "not a character device"}
	}
	if !access.Readable || !access.Writable {
		return Result{
			Name:   path,
			Detail: fmt.Sprintf("char %s, permissions %s (add the user to the video group)", access.DeviceNumber(), access.Permissions()),
		}
	}
	return Result{Name: path, Passed: true, Detail: fmt.Sprintf("char %s, read/write ok", access.DeviceNumber())}
}
