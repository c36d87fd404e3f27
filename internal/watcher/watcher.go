package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"v4lnode/internal/config"
	"v4lnode/internal/hotplug"
	"v4lnode/internal/inventory"
	"v4lnode/internal/logging"
	"v4lnode/internal/v4l"
)

// ErrAlreadyRunning is returned when another watcher holds the lock.
var ErrAlreadyRunning = errors.New("another v4lnode watcher is already running")

// Trigger labels what caused a snapshot.
type Trigger string

const (
	TriggerStartup Trigger = "startup"
	TriggerAdd     Trigger = Trigger(hotplug.ActionAdd)
	TriggerRemove  Trigger = Trigger(hotplug.ActionRemove)
	TriggerPoll    Trigger = "poll"
)

// Snapshot is the result of one rescan.
type Snapshot struct {
	Trigger Trigger
	Device  string
	ScanID  string
	Nodes   []v4l.Info
	At      time.Time
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithOnSnapshot registers a callback invoked after every recorded rescan.
// Callbacks run serialized with rescans and must not call back into the
// Watcher.
func WithOnSnapshot(fn func(Snapshot)) Option {
	return func(w *Watcher) { w.onSnapshot = fn }
}

// WithPollInterval overrides the configured polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithoutHotplug disables the netlink monitor.
func WithoutHotplug() Option {
	return func(w *Watcher) { w.hotplugEnabled = false }
}

// Watcher coordinates the hot-plug monitor, the scanner and the inventory.
type Watcher struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *inventory.Store
	scanner *v4l.Scanner
	monitor *hotplug.Monitor

	lockPath string
	lock     *flock.Flock

	pollInterval   time.Duration
	hotplugEnabled bool
	onSnapshot     func(Snapshot)

	lifecycle sync.Mutex
	running   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	scanMu sync.Mutex
	last   []v4l.Info
}

// Status reports watcher runtime information.
type Status struct {
	Running        bool
	HotplugRunning bool
	LockPath       string
	InventoryPath  string
	NodeCount      int
}

// New constructs a watcher. store may be nil, in which case rescans are
// reported but not recorded.
func New(cfg *config.Config, store *inventory.Store, logger *slog.Logger, opts ...Option) (*Watcher, error) {
	if cfg == nil {
		return nil, errors.New("watcher requires config")
	}

	roots := v4l.Roots{
		DevDir:            cfg.Discovery.DevDir,
		VideoSysfsPrefix:  cfg.VideoSysfsPrefix(),
		SubdevSysfsPrefix: cfg.SubdevSysfsPrefix(),
	}
	lockPath := cfg.WatchLockPath()
	w := &Watcher{
		cfg:            cfg,
		logger:         logging.NewComponentLogger(logger, "watcher"),
		store:          store,
		scanner:        v4l.NewScanner(roots, logger),
		lockPath:       lockPath,
		lock:           flock.New(lockPath),
		pollInterval:   time.Duration(cfg.Watch.PollInterval) * time.Second,
		hotplugEnabled: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.hotplugEnabled {
		w.monitor = hotplug.NewMonitor(roots.DevDir, logger, w.handleHotplug)
	}
	return w, nil
}

// Start acquires the watch lock, records an initial snapshot and begins
// listening for changes.
func (w *Watcher) Start(ctx context.Context) error {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	if w.running {
		return errors.New("watcher already running")
	}
	if err := w.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	if _, err := w.rescan(runCtx, TriggerStartup, "", true); err != nil {
		cancel()
		_ = w.lock.Unlock()
		return fmt.Errorf("initial snapshot: %w", err)
	}

	if err := w.monitor.Start(runCtx); err != nil {
		cancel()
		_ = w.lock.Unlock()
		return fmt.Errorf("start hotplug monitor: %w", err)
	}
	if w.pollInterval > 0 {
		w.wg.Add(1)
		go w.pollLoop(runCtx)
	}

	w.cancel = cancel
	w.running = true
	w.logger.Info("watcher started",
		logging.String(logging.FieldEventType, "watcher_started"),
		logging.String("lock", w.lockPath),
		logging.Duration("poll_interval", w.pollInterval),
		logging.Bool("hotplug", w.monitor.Running()),
		logging.Bool("recording", w.store != nil),
	)
	return nil
}

// Stop halts monitoring and releases the watch lock. It is safe to call more
// than once.
func (w *Watcher) Stop() {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	if !w.running {
		return
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.monitor.Stop()
	w.wg.Wait()
	if err := w.lock.Unlock(); err != nil {
		logging.WarnWithContext(w.logger, "failed to release watch lock", "watch_lock_release_failed",
			logging.Error(err),
			logging.String("lock", w.lockPath),
			logging.String(logging.FieldErrorHint, "remove the lock file if no watcher is running"),
		)
	}
	w.running = false
	w.logger.Info("watcher stopped", logging.String(logging.FieldEventType, "watcher_stopped"))
}

// Close stops the watcher and closes the inventory store.
func (w *Watcher) Close() error {
	w.Stop()
	if w.store != nil {
		return w.store.Close()
	}
	return nil
}

// Status returns current runtime information.
func (w *Watcher) Status() Status {
	w.lifecycle.Lock()
	running := w.running
	w.lifecycle.Unlock()

	w.scanMu.Lock()
	count := len(w.last)
	w.scanMu.Unlock()

	status := Status{
		Running:        running,
		HotplugRunning: w.monitor.Running(),
		LockPath:       w.lockPath,
		NodeCount:      count,
	}
	if w.store != nil {
		status.InventoryPath = w.store.Path()
	}
	return status
}

func (w *Watcher) handleHotplug(ctx context.Context, event hotplug.Event) {
	if w.store != nil {
		if _, err := w.store.AppendEvent(ctx, string(event.Action), event.Device); err != nil {
			logging.WarnWithContext(w.logger, "failed to record hotplug event", "inventory_event_failed",
				logging.Error(err),
				logging.String(logging.FieldDevice, event.Device),
				logging.String(logging.FieldImpact, "event missing from history"),
			)
		}
	}
	if _, err := w.rescan(ctx, Trigger(event.Action), event.Device, true); err != nil {
		logging.WarnWithContext(w.logger, "rescan after hotplug event failed", "watcher_rescan_failed",
			logging.Error(err),
			logging.String(logging.FieldDevice, event.Device),
		)
	}
}

func (w *Watcher) pollLoop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.rescan(ctx, TriggerPoll, "", false); err != nil {
				logging.WarnWithContext(w.logger, "poll rescan failed", "watcher_rescan_failed",
					logging.Error(err),
				)
			}
		}
	}
}

// rescan enumerates the device directory and records the result. When force
// is false an unchanged result is neither recorded nor reported.
func (w *Watcher) rescan(ctx context.Context, trigger Trigger, device string, force bool) (bool, error) {
	w.scanMu.Lock()
	defer w.scanMu.Unlock()

	infos := w.describeAll()
	if !force && slices.Equal(infos, w.last) {
		return false, nil
	}

	snapshot := Snapshot{
		Trigger: trigger,
		Device:  device,
		Nodes:   infos,
		At:      time.Now(),
	}
	if w.store != nil {
		scanID, err := w.store.RecordSnapshot(ctx, infos)
		if err != nil {
			return false, err
		}
		snapshot.ScanID = scanID
	}
	w.last = infos

	w.logger.Debug("device snapshot taken",
		logging.String(logging.FieldEventType, "watcher_snapshot"),
		logging.String("trigger", string(trigger)),
		logging.String(logging.FieldScanID, snapshot.ScanID),
		logging.Int("nodes", len(infos)),
	)
	if w.onSnapshot != nil {
		w.onSnapshot(snapshot)
	}
	return true, nil
}

func (w *Watcher) describeAll() []v4l.Info {
	nodes := w.scanner.Scan()
	v4l.SortNodes(nodes)
	infos := make([]v4l.Info, 0, len(nodes))
	for _, node := range nodes {
		info, err := node.Describe()
		if err != nil {
			w.logger.Debug("skipping node without index",
				logging.String(logging.FieldDevice, node.Path()),
				logging.Error(err),
			)
			continue
		}
		infos = append(infos, info)
	}
	return infos
}
