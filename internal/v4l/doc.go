// Package v4l discovers video4linux device nodes and resolves their identity.
//
// A Scanner lists the device directory once and wraps every entry named like
// a capture device (video<N>) or a sub-device (v4l-subdev<N>) in a Node. A
// Node is only a path: its kind, index, and display name are recomputed from
// the filesystem on every call, so two calls may observe different results
// while devices are hot-plugged. Display names come from the per-device
// "name" attribute under /sys/class/video4linux.
//
// Nothing here opens a device. Unreadable directories and missing sysfs
// attributes degrade to empty results; calling Index or Name on a path that
// does not follow the naming convention returns an error wrapping
// ErrUnrecognizedNode.
package v4l
