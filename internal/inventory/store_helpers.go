package inventory

import (
	"database/sql"
	"time"
)

const (
	nodeColumns  = "path, kind, node_index, name, first_seen, last_seen, present, last_scan_id"
	eventColumns = "seq, id, action, device, recorded_at"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (Record, error) {
	var (
		rec       Record
		kindRaw   string
		name      sql.NullString
		firstSeen string
		lastSeen  string
		present   int
	)
	if err := scanner.Scan(&rec.Path, &kindRaw, &rec.Index, &name, &firstSeen, &lastSeen, &present, &rec.LastScanID); err != nil {
		return Record{}, err
	}
	if err := rec.Kind.UnmarshalText([]byte(kindRaw)); err != nil {
		return Record{}, err
	}
	var err error
	if rec.FirstSeen, err = parseTimeString(firstSeen); err != nil {
		return Record{}, err
	}
	if rec.LastSeen, err = parseTimeString(lastSeen); err != nil {
		return Record{}, err
	}
	rec.Name = name.String
	rec.HasName = name.Valid
	rec.Present = present != 0
	return rec, nil
}

func scanEvent(scanner interface{ Scan(dest ...any) error }) (Event, error) {
	var (
		ev       Event
		recorded string
	)
	if err := scanner.Scan(&ev.Seq, &ev.ID, &ev.Action, &ev.Device, &recorded); err != nil {
		return Event{}, err
	}
	at, err := parseTimeString(recorded)
	if err != nil {
		return Event{}, err
	}
	ev.RecordedAt = at
	return ev, nil
}
