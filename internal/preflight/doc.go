// Package preflight provides readiness checks for the filesystem locations
// v4lnode reads and writes, plus a per-node access probe.
//
// These checks run in two contexts:
//   - The CLI "v4lnode check" command calls RunAll and ProbeNode to explain
//     why a scan comes back empty or a node cannot be used.
//   - "v4lnode list --access" annotates each discovered node with ProbeNode.
//
// Probes use stat(2) and access(2) only; no device is ever opened.
package preflight
