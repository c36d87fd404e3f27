package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"v4lnode/internal/inventory"
	"v4lnode/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var noRecord bool
	var pollInterval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow hot-plug events and record each rescan",
		Long: `Watch for video4linux hot-plug events and rescan the device directory on
each one. Snapshots are recorded in the inventory unless --no-record is set
or watch.record is false. Only one watcher may run per state directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			var store *inventory.Store
			if cfg.Watch.Record && !noRecord {
				store, err = inventory.Open(cfg)
				if err != nil {
					return fmt.Errorf("open inventory: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			opts := []watcher.Option{
				watcher.WithOnSnapshot(func(s watcher.Snapshot) {
					printSnapshot(out, s)
				}),
			}
			if cmd.Flags().Changed("poll-interval") {
				opts = append(opts, watcher.WithPollInterval(pollInterval))
			}

			w, err := watcher.New(cfg, store, logger, opts...)
			if err != nil {
				if store != nil {
					_ = store.Close()
				}
				return err
			}
			defer w.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := w.Start(runCtx); err != nil {
				return err
			}
			status := w.Status()
			if !status.HotplugRunning && cfg.Watch.PollInterval == 0 && pollInterval <= 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "hot-plug events unavailable and polling disabled; set watch.poll_interval or --poll-interval")
			}

			<-runCtx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not write snapshots and events to the inventory")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 0, "Rescan on this interval in addition to hot-plug events")
	return cmd
}

func printSnapshot(out io.Writer, s watcher.Snapshot) {
	header := fmt.Sprintf("%s  %s", s.At.Format(time.TimeOnly), s.Trigger)
	if s.Device != "" {
		header += " " + s.Device
	}
	header += fmt.Sprintf(": %d node(s)", len(s.Nodes))
	if s.ScanID != "" {
		header += fmt.Sprintf(" [scan %s]", s.ScanID)
	}
	fmt.Fprintln(out, header)
	for _, info := range s.Nodes {
		name := info.Name
		if !info.HasName {
			name = "-"
		}
		fmt.Fprintf(out, "  %-24s %-10s %s\n", info.Path, kindLabel(info.Kind), name)
	}
}
