package hotplug

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"v4lnode/internal/logging"
	"v4lnode/internal/v4l"
)

// Action is the udev action carried by an Event.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Event is a matched video4linux hot-plug event.
type Event struct {
	Action Action
	Device string
	Kind   v4l.Kind
}

// Handler receives matched events on the monitor goroutine.
type Handler func(ctx context.Context, event Event)

// Monitor listens for udev netlink events for video4linux nodes.
type Monitor struct {
	logger  *slog.Logger
	devDir  string
	handler Handler

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewMonitor creates a monitor that reports nodes under devDir to handler.
func NewMonitor(devDir string, logger *slog.Logger, handler Handler) *Monitor {
	devDir = strings.TrimSpace(devDir)
	if devDir == "" {
		devDir = "/dev"
	}
	return &Monitor{
		logger:  logging.NewComponentLogger(logger, "hotplug-monitor"),
		devDir:  devDir,
		handler: handler,
	}
}

// Start connects to the udev netlink socket and begins delivering events.
// A connection failure is logged and reported as not running, not as an error.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		logging.WarnWithContext(m.logger, "failed to connect to netlink socket; hot-plug events unavailable", "netlink_connect_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run on Linux with access to NETLINK_KOBJECT_UEVENT"),
			logging.String(logging.FieldImpact, "device changes are only seen by polling"),
		)
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, conn, quit)

	m.logger.Info("hotplug monitor started",
		logging.String(logging.FieldEventType, "hotplug_monitor_started"),
		logging.String("dev_dir", m.devDir),
	)
	return nil
}

// Stop shuts down the monitor. It is safe to call more than once.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("hotplug monitor stopped",
		logging.String(logging.FieldEventType, "hotplug_monitor_stopped"),
	)
}

// Running reports whether the monitor is connected.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(ctx, uevent)
		case err := <-errs:
			logging.WarnWithContext(m.logger, "netlink monitor error", "hotplug_monitor_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "device changes may be missed until the next poll"),
			)
		}
	}
}

// buildMatcher matches SUBSYSTEM=video4linux with ACTION=add|remove.
func buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "video4linux",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	device := m.devicePath(uevent)
	if device == "" {
		m.logger.Debug("ignoring event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}

	kind, ok := v4l.MatchName(filepath.Base(device))
	if !ok {
		m.logger.Debug("ignoring event for non video4linux node",
			logging.String(logging.FieldDevice, device),
		)
		return
	}

	event := Event{Action: Action(uevent.Action), Device: device, Kind: kind}
	m.logger.Info("video4linux node changed",
		logging.String(logging.FieldEventType, "hotplug_event"),
		logging.String(logging.FieldDevice, device),
		logging.String("action", string(event.Action)),
		logging.String("kind", kind.String()),
	)

	if m.handler != nil {
		m.handler(ctx, event)
	}
}

// devicePath resolves the node path from DEVNAME, which udev reports relative
// to /dev, falling back to the last DEVPATH component.
func (m *Monitor) devicePath(uevent netlink.UEvent) string {
	name := strings.TrimSpace(uevent.Env["DEVNAME"])
	if name == "" {
		devpath := strings.TrimRight(uevent.Env["DEVPATH"], "/")
		if devpath == "" {
			return ""
		}
		name = devpath[strings.LastIndex(devpath, "/")+1:]
	}
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		name = strings.TrimPrefix(name, "/dev/")
	}
	return filepath.Join(m.devDir, name)
}
