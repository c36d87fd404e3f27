// Package watcher keeps the inventory in step with the device directory.
//
// A Watcher holds an exclusive lock in the state directory so only one
// instance records at a time. It takes a snapshot on start, then rescans on
// every video4linux hot-plug event and, when configured, on a polling
// interval for hosts without netlink access.
package watcher
