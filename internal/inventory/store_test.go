package inventory_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"v4lnode/internal/inventory"
	"v4lnode/internal/testsupport"
	"v4lnode/internal/v4l"
)

func TestOpenCreatesDatabaseUnderStateDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenInventory(t, cfg)

	if store.Path() != filepath.Join(cfg.Paths.StateDir, "inventory.db") {
		t.Fatalf("unexpected database path %q", store.Path())
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := inventory.Open(cfg)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := first.AppendEvent(context.Background(), "add", "/dev/video0"); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := testsupport.MustOpenInventory(t, cfg)
	events, err := second.Events(context.Background(), 0)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected event to survive reopen, got %d", len(events))
	}
}

func TestRecordSnapshotUpsertsAndFlipsPresence(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenInventory(t, cfg)
	ctx := context.Background()

	first := []v4l.Info{
		{Path: "/dev/video0", Kind: v4l.KindCaptureDevice, Index: 0, Name: "USB Camera", HasName: true},
		{Path: "/dev/v4l-subdev0", Kind: v4l.KindSubDevice, Index: 0},
	}
	scanID, err := store.RecordSnapshot(ctx, first)
	if err != nil {
		t.Fatalf("RecordSnapshot: %v", err)
	}
	if _, err := uuid.Parse(scanID); err != nil {
		t.Fatalf("expected uuid scan id, got %q: %v", scanID, err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Path != "/dev/video0" || !records[0].HasName || records[0].Name != "USB Camera" {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[1].Kind != v4l.KindSubDevice || records[1].HasName {
		t.Fatalf("unexpected second record %+v", records[1])
	}
	for _, rec := range records {
		if !rec.Present || rec.LastScanID != scanID {
			t.Fatalf("expected present record from scan %s, got %+v", scanID, rec)
		}
	}

	second := []v4l.Info{
		{Path: "/dev/video0", Kind: v4l.KindCaptureDevice, Index: 0, Name: "Renamed", HasName: true},
	}
	secondID, err := store.RecordSnapshot(ctx, second)
	if err != nil {
		t.Fatalf("second RecordSnapshot: %v", err)
	}
	if secondID == scanID {
		t.Fatal("expected distinct scan ids")
	}

	records, err = store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	byPath := map[string]inventory.Record{}
	for _, rec := range records {
		byPath[rec.Path] = rec
	}
	video := byPath["/dev/video0"]
	if !video.Present || video.Name != "Renamed" || video.LastScanID != secondID {
		t.Fatalf("expected updated capture record, got %+v", video)
	}
	if video.FirstSeen.After(video.LastSeen) {
		t.Fatalf("first_seen %v after last_seen %v", video.FirstSeen, video.LastSeen)
	}
	subdev := byPath["/dev/v4l-subdev0"]
	if subdev.Present {
		t.Fatalf("expected sub-device to be marked absent, got %+v", subdev)
	}

	count, err := store.ScanCount(ctx)
	if err != nil {
		t.Fatalf("ScanCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 scans, got %d", count)
	}
}

func TestRecordSnapshotEmptyMarksEverythingAbsent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenInventory(t, cfg)
	ctx := context.Background()

	if _, err := store.RecordSnapshot(ctx, []v4l.Info{{Path: "/dev/video3", Kind: v4l.KindCaptureDevice, Index: 3}}); err != nil {
		t.Fatalf("RecordSnapshot: %v", err)
	}
	if _, err := store.RecordSnapshot(ctx, nil); err != nil {
		t.Fatalf("empty RecordSnapshot: %v", err)
	}
	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Present {
		t.Fatalf("expected one absent record, got %+v", records)
	}
}

func TestRecordSnapshotKeepsEmptyName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenInventory(t, cfg)
	ctx := context.Background()

	if _, err := store.RecordSnapshot(ctx, []v4l.Info{{Path: "/dev/video1", Kind: v4l.KindCaptureDevice, Index: 1, HasName: true}}); err != nil {
		t.Fatalf("RecordSnapshot: %v", err)
	}
	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !records[0].HasName || records[0].Name != "" {
		t.Fatalf("expected present but empty name, got %+v", records[0])
	}
}

func TestEventsNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenInventory(t, cfg)
	ctx := context.Background()

	devices := []string{"/dev/video0", "/dev/video1", "/dev/v4l-subdev0"}
	for _, device := range devices {
		if _, err := store.AppendEvent(ctx, "add", device); err != nil {
			t.Fatalf("AppendEvent(%s): %v", device, err)
		}
	}
	last, err := store.AppendEvent(ctx, "remove", "/dev/video0")
	if err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if last.Seq == 0 || last.ID == "" {
		t.Fatalf("expected sequence and id, got %+v", last)
	}

	events, err := store.Events(ctx, 2)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ID != last.ID || events[0].Action != "remove" {
		t.Fatalf("expected newest event first, got %+v", events[0])
	}
	if events[1].Device != "/dev/v4l-subdev0" {
		t.Fatalf("unexpected second event %+v", events[1])
	}

	all, err := store.Events(ctx, 0)
	if err != nil {
		t.Fatalf("Events(0): %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected all 4 events, got %d", len(all))
	}
}

func TestAppendEventValidatesInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenInventory(t, cfg)

	if _, err := store.AppendEvent(context.Background(), "", "/dev/video0"); err == nil {
		t.Fatal("expected error for empty action")
	}
	if _, err := store.AppendEvent(context.Background(), "add", " "); err == nil {
		t.Fatal("expected error for empty device")
	}
}

func TestClosedStoreReturnsErrStoreClosed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := inventory.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	ctx := context.Background()
	if _, err := store.List(ctx); !errors.Is(err, inventory.ErrStoreClosed) {
		t.Fatalf("List after close: %v", err)
	}
	if _, err := store.RecordSnapshot(ctx, nil); !errors.Is(err, inventory.ErrStoreClosed) {
		t.Fatalf("RecordSnapshot after close: %v", err)
	}
	if _, err := store.AppendEvent(ctx, "add", "/dev/video0"); !errors.Is(err, inventory.ErrStoreClosed) {
		t.Fatalf("AppendEvent after close: %v", err)
	}
}

func TestOpenRejectsNilConfig(t *testing.T) {
	if _, err := inventory.Open(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
