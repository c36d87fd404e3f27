// Package inventory persists observed video4linux nodes and hot-plug events
// in SQLite.
//
// Each RecordSnapshot call stores one discovery pass: nodes in the snapshot
// are upserted by path and marked present, every other known node is marked
// absent. Hot-plug events are appended as they arrive. Schema changes ship as
// numbered files under migrations/ and are applied on Open.
package inventory
