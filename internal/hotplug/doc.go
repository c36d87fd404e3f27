// Package hotplug listens for kernel udev events about video4linux nodes.
//
// A Monitor subscribes to the udev netlink multicast group, keeps only
// add/remove events for the video4linux subsystem whose device name follows
// the discovery naming convention, and hands each one to a handler. Failing
// to open the netlink socket is logged and tolerated so callers can fall back
// to polling.
package hotplug
