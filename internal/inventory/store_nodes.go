package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"v4lnode/internal/v4l"
)

// RecordSnapshot stores one discovery pass and returns its scan ID. Nodes in
// infos are upserted and marked present; every other known node is marked
// absent.
func (s *Store) RecordSnapshot(ctx context.Context, infos []v4l.Info) (string, error) {
	ctx = ensureContext(ctx)
	scanID := uuid.NewString()
	now := formatTime(time.Now())

	err := s.withDB(func(db *sql.DB) error {
		return retryOnBusy(ctx, func() error {
			return recordSnapshotTx(ctx, db, scanID, now, infos)
		})
	})
	if err != nil {
		return "", fmt.Errorf("record snapshot: %w", err)
	}
	return scanID, nil
}

func recordSnapshotTx(ctx context.Context, db *sql.DB, scanID, now string, infos []v4l.Info) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scans (id, recorded_at, node_count) VALUES (?, ?, ?)`,
		scanID, now, len(infos),
	); err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	for _, info := range infos {
		var name any
		if info.HasName {
			name = info.Name
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (`+nodeColumns+`) VALUES (?, ?, ?, ?, ?, ?, 1, ?)
             ON CONFLICT(path) DO UPDATE SET
                 kind = excluded.kind,
                 node_index = excluded.node_index,
                 name = excluded.name,
                 last_seen = excluded.last_seen,
                 present = 1,
                 last_scan_id = excluded.last_scan_id`,
			info.Path, info.Kind.String(), info.Index, name, now, now, scanID,
		); err != nil {
			return fmt.Errorf("upsert node %s: %w", info.Path, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE nodes SET present = 0 WHERE last_scan_id <> ?`, scanID,
	); err != nil {
		return fmt.Errorf("mark absent nodes: %w", err)
	}

	return tx.Commit()
}

// List returns every known node, present or not, ordered by kind then index.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	ctx = ensureContext(ctx)
	var records []Record
	err := s.withDB(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT `+nodeColumns+` FROM nodes ORDER BY kind, node_index, path`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			rec, err := scanRecord(rows)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	return records, nil
}

// ScanCount returns how many snapshots have been recorded.
func (s *Store) ScanCount(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	err := s.withDB(func(db *sql.DB) error {
		return db.QueryRowContext(ctx, `SELECT COUNT(1) FROM scans`).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count scans: %w", err)
	}
	return count, nil
}
