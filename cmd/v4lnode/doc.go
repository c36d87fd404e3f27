// Package main hosts the v4lnode CLI entrypoint and command graph.
//
// The Cobra command tree lists and describes video4linux nodes, checks
// access to them, runs the hot-plug watcher and prints the recorded
// inventory. Configuration resolution and logger setup live in the shared
// command context so subcommands stay declarative; discovery, persistence
// and monitoring belong in the internal packages.
package main
