package inventory

import (
	"time"

	"v4lnode/internal/v4l"
)

// Record is a node as last observed by discovery.
type Record struct {
	Path       string    `json:"path"`
	Kind       v4l.Kind  `json:"kind"`
	Index      int       `json:"index"`
	Name       string    `json:"name,omitempty"`
	HasName    bool      `json:"has_name"`
	FirstSeen  time.Time `json:"first_seen"`
	LastSeen   time.Time `json:"last_seen"`
	Present    bool      `json:"present"`
	LastScanID string    `json:"last_scan_id"`
}

// Event is a recorded hot-plug event.
type Event struct {
	Seq        int64     `json:"seq"`
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Device     string    `json:"device"`
	RecordedAt time.Time `json:"recorded_at"`
}
