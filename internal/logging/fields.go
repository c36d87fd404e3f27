package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering (e.g. "hotplug_event").
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDevice is the device node path a line refers to.
	FieldDevice = "device"
	// FieldScanID correlates inventory snapshots with the log lines that produced them.
	FieldScanID = "scan_id"
)
