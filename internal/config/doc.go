// Package config loads, normalizes, and validates v4lnode configuration.
//
// It supplies defaults for the device directory and the video4linux sysfs
// tree, expands user paths (including tilde shortcuts), reads TOML files, and
// honours the V4LNODE_DEV_DIR environment fallback. Commands obtain every
// path and logging knob through this package so they receive absolute,
// cleaned values and clear validation errors.
package config
