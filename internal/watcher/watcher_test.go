package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"v4lnode/internal/hotplug"
	"v4lnode/internal/testsupport"
	"v4lnode/internal/v4l"
)

func collectSnapshots() (chan Snapshot, Option) {
	ch := make(chan Snapshot, 16)
	return ch, WithOnSnapshot(func(s Snapshot) { ch <- s })
}

func waitSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestStartRecordsInitialSnapshot(t *testing.T) {
	tree := testsupport.NewDeviceTree(t)
	tree.AddDevice("video0", "USB Camera")
	tree.AddNode("v4l-subdev0")
	cfg := testsupport.NewConfig(t, testsupport.WithDeviceTree(tree))
	store := testsupport.MustOpenInventory(t, cfg)

	snapshots, onSnapshot := collectSnapshots()
	w, err := New(cfg, store, nil, onSnapshot, WithoutHotplug())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)

	snap := waitSnapshot(t, snapshots)
	if snap.Trigger != TriggerStartup || snap.ScanID == "" {
		t.Fatalf("unexpected initial snapshot %+v", snap)
	}
	if len(snap.Nodes) != 2 || snap.Nodes[0].Name != "USB Camera" || snap.Nodes[1].Kind != v4l.KindSubDevice {
		t.Fatalf("unexpected nodes %+v", snap.Nodes)
	}

	records, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 recorded nodes, got %d", len(records))
	}

	status := w.Status()
	if !status.Running || status.NodeCount != 2 || status.LockPath != filepath.Join(cfg.Paths.StateDir, "watch.lock") {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestSecondWatcherIsRefused(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first, err := New(cfg, nil, nil, WithoutHotplug())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	t.Cleanup(first.Stop)

	if err := first.Start(context.Background()); err == nil {
		t.Fatal("expected restart of running watcher to fail")
	}

	second, err := New(cfg, nil, nil, WithoutHotplug())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := second.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	first.Stop()
	if err := second.Start(context.Background()); err != nil {
		t.Fatalf("expected lock to be free after Stop, got %v", err)
	}
	second.Stop()
}

func TestHotplugEventRecordsAndRescans(t *testing.T) {
	tree := testsupport.NewDeviceTree(t)
	cfg := testsupport.NewConfig(t, testsupport.WithDeviceTree(tree))
	store := testsupport.MustOpenInventory(t, cfg)

	snapshots, onSnapshot := collectSnapshots()
	w, err := New(cfg, store, nil, onSnapshot, WithoutHotplug())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)
	if snap := waitSnapshot(t, snapshots); len(snap.Nodes) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", snap.Nodes)
	}

	device := tree.AddDevice("video4", "Capture Card")
	w.handleHotplug(ctx, hotplug.Event{Action: hotplug.ActionAdd, Device: device, Kind: v4l.KindCaptureDevice})

	snap := waitSnapshot(t, snapshots)
	if snap.Trigger != TriggerAdd || snap.Device != device {
		t.Fatalf("unexpected snapshot trigger %+v", snap)
	}
	if len(snap.Nodes) != 1 || snap.Nodes[0].Index != 4 {
		t.Fatalf("expected rescan to include new node, got %+v", snap.Nodes)
	}

	events, err := store.Events(ctx, 0)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 1 || events[0].Action != "add" || events[0].Device != device {
		t.Fatalf("unexpected events %+v", events)
	}

	tree.RemoveNode("video4")
	w.handleHotplug(ctx, hotplug.Event{Action: hotplug.ActionRemove, Device: device, Kind: v4l.KindCaptureDevice})
	if snap := waitSnapshot(t, snapshots); snap.Trigger != TriggerRemove || len(snap.Nodes) != 0 {
		t.Fatalf("unexpected snapshot after removal %+v", snap)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Present {
		t.Fatalf("expected removed node recorded as absent, got %+v", records)
	}
}

func TestPollDetectsChanges(t *testing.T) {
	tree := testsupport.NewDeviceTree(t)
	cfg := testsupport.NewConfig(t, testsupport.WithDeviceTree(tree), testsupport.WithoutRecording())

	snapshots, onSnapshot := collectSnapshots()
	w, err := New(cfg, nil, nil, onSnapshot, WithoutHotplug(), WithPollInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)
	waitSnapshot(t, snapshots)

	tree.AddNode("video1")
	snap := waitSnapshot(t, snapshots)
	if snap.Trigger != TriggerPoll || len(snap.Nodes) != 1 {
		t.Fatalf("unexpected poll snapshot %+v", snap)
	}
	if snap.ScanID != "" {
		t.Fatalf("expected no scan id without a store, got %q", snap.ScanID)
	}
}

func TestStopAndCloseAreIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenInventory(t, cfg)

	w, err := New(cfg, store, nil, WithoutHotplug())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Stop()
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if w.Status().Running {
		t.Fatal("expected watcher stopped after Close")
	}
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New(nil, nil, nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
