package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AppendEvent records a hot-plug event for device.
func (s *Store) AppendEvent(ctx context.Context, action, device string) (Event, error) {
	ctx = ensureContext(ctx)
	action = strings.TrimSpace(action)
	if action == "" {
		return Event{}, errors.New("append event: action is required")
	}
	if strings.TrimSpace(device) == "" {
		return Event{}, errors.New("append event: device is required")
	}

	recorded := time.Now().UTC()
	ev := Event{
		ID:         uuid.NewString(),
		Action:     action,
		Device:     device,
		RecordedAt: recorded,
	}
	err := s.withDB(func(db *sql.DB) error {
		return retryOnBusy(ctx, func() error {
			res, err := db.ExecContext(ctx,
				`INSERT INTO events (id, action, device, recorded_at) VALUES (?, ?, ?, ?)`,
				ev.ID, ev.Action, ev.Device, formatTime(recorded),
			)
			if err != nil {
				return err
			}
			ev.Seq, err = res.LastInsertId()
			return err
		})
	})
	if err != nil {
		return Event{}, fmt.Errorf("append event: %w", err)
	}
	return ev, nil
}

// Events returns the most recent events, newest first. A non-positive limit
// returns every event.
func (s *Store) Events(ctx context.Context, limit int) ([]Event, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var events []Event
	err := s.withDB(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			ev, err := scanEvent(rows)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
