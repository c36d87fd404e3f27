package v4l

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind distinguishes capture devices from sub-devices.
type Kind int

const (
	KindCaptureDevice Kind = iota
	KindSubDevice
)

// String returns the short label used in logs, tables, and JSON.
func (k Kind) String() string {
	switch k {
	case KindCaptureDevice:
		return "capture"
	case KindSubDevice:
		return "subdev"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// MarshalText encodes the kind as its String label.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the labels produced by String.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind converts a String label back into a Kind.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "capture":
		return KindCaptureDevice, nil
	case "subdev":
		return KindSubDevice, nil
	default:
		return 0, fmt.Errorf("unknown node kind %q", value)
	}
}

// MatchName reports whether a bare file name follows the discovery naming
// convention and, if so, which kind it names. Only the prefix is checked.
func MatchName(name string) (Kind, bool) {
	switch {
	case strings.HasPrefix(name, SubdevPrefix):
		return KindSubDevice, true
	case strings.HasPrefix(name, CapturePrefix):
		return KindCaptureDevice, true
	default:
		return 0, false
	}
}

// Node is a video4linux device node identified by its path.
type Node struct {
	path  string
	roots Roots
}

// Info is a point-in-time snapshot of a node's derived attributes.
type Info struct {
	Path    string `json:"path"`
	Kind    Kind   `json:"kind"`
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	HasName bool   `json:"has_name"`
}

// NewNode wraps path using the default sysfs locations. The path is stored
// verbatim and never validated here.
func NewNode(path string) Node {
	return Node{path: path, roots: DefaultRoots()}
}

// NewNodeWithRoots wraps path and resolves names against roots.
func NewNodeWithRoots(path string, roots Roots) Node {
	return Node{path: path, roots: roots.withDefaults()}
}

// Path returns the stored node path.
func (n Node) Path() string {
	return n.path
}

// IsSubDevice reports whether the file name starts with the sub-device
// prefix. A path without a file name component is not a sub-device.
func (n Node) IsSubDevice() bool {
	base, ok := n.fileName()
	if !ok {
		return false
	}
	return strings.HasPrefix(base, SubdevPrefix)
}

// Kind returns KindSubDevice for sub-devices and KindCaptureDevice for
// everything else.
func (n Node) Kind() Kind {
	if n.IsSubDevice() {
		return KindSubDevice
	}
	return KindCaptureDevice
}

// Index extracts the numeric suffix of the node's file name.
//
// The kind prefix is stripped and every ASCII digit left over is
// concatenated in order, so "video1x2" yields 12. A missing file name, a
// missing prefix, or no digits at all is reported as a *NodeError.
func (n Node) Index() (int, error) {
	base, ok := n.fileName()
	if !ok {
		return 0, n.fail("path has no file name")
	}

	prefix := CapturePrefix
	if n.IsSubDevice() {
		prefix = SubdevPrefix
	}
	rest, found := strings.CutPrefix(base, prefix)
	if !found {
		return 0, n.fail(fmt.Sprintf("file name %q lacks the %q prefix", base, prefix))
	}

	var digits strings.Builder
	for i := 0; i < len(rest); i++ {
		if c := rest[i]; c >= '0' && c <= '9' {
			digits.WriteByte(c)
		}
	}
	if digits.Len() == 0 {
		return 0, n.fail(fmt.Sprintf("file name %q has no index digits", base))
	}

	index, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, n.fail(fmt.Sprintf("index %s out of range", digits.String()))
	}
	return index, nil
}

// Name reads the display name from the node's sysfs "name" attribute.
//
// The second return value is false when the attribute cannot be read, which
// is expected on systems without sysfs or while a device is being removed.
// The error is non-nil only when Index fails.
func (n Node) Name() (string, bool, error) {
	index, err := n.Index()
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(n.namePath(index))
	if err != nil || !utf8.Valid(data) {
		return "", false, nil
	}
	return strings.TrimSpace(string(data)), true, nil
}

// Describe collects kind, index, and name into an Info snapshot.
func (n Node) Describe() (Info, error) {
	index, err := n.Index()
	if err != nil {
		return Info{}, err
	}
	name, ok, err := n.Name()
	if err != nil {
		return Info{}, err
	}
	return Info{
		Path:    n.path,
		Kind:    n.Kind(),
		Index:   index,
		Name:    name,
		HasName: ok,
	}, nil
}

func (n Node) namePath(index int) string {
	return filepath.Join(n.roots.sysfsPrefix(n.Kind())+strconv.Itoa(index), "name")
}

// fileName returns the final path component. Trailing separators are
// ignored; "", "/", "." and ".." have no file name.
func (n Node) fileName() (string, bool) {
	trimmed := strings.TrimRight(n.path, string(filepath.Separator))
	if trimmed == "" {
		return "", false
	}
	base := filepath.Base(trimmed)
	if base == "." || base == ".." {
		return "", false
	}
	return base, true
}

func (n Node) fail(reason string) error {
	return &NodeError{Path: n.path, Reason: reason}
}
