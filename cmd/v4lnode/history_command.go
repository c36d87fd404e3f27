package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"v4lnode/internal/inventory"
)

type historyView struct {
	Scans  int                `json:"scans"`
	Nodes  []inventory.Record `json:"nodes"`
	Events []inventory.Event  `json:"events"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var eventLimit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded nodes and hot-plug events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			limit := cfg.Inventory.EventLimit
			if cmd.Flags().Changed("events") {
				limit = eventLimit
			}

			store, err := inventory.Open(cfg)
			if err != nil {
				return fmt.Errorf("open inventory: %w", err)
			}
			defer store.Close()

			reqCtx := cmd.Context()
			view := historyView{Nodes: []inventory.Record{}, Events: []inventory.Event{}}
			if view.Scans, err = store.ScanCount(reqCtx); err != nil {
				return err
			}
			nodes, err := store.List(reqCtx)
			if err != nil {
				return err
			}
			events, err := store.Events(reqCtx, limit)
			if err != nil {
				return err
			}
			view.Nodes = append(view.Nodes, nodes...)
			view.Events = append(view.Events, events...)

			if asJSON {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			if view.Scans == 0 {
				fmt.Fprintln(out, "No snapshots recorded yet; run `v4lnode watch` to start recording")
				return nil
			}
			fmt.Fprintf(out, "%d snapshot(s) recorded in %s\n\n", view.Scans, store.Path())
			fmt.Fprintln(out, renderRecordTable(view.Nodes))
			if len(view.Events) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderEventTable(view.Events))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&eventLimit, "events", 0, "Number of recent events to show (0 for all; default inventory.event_limit)")
	return cmd
}

func renderRecordTable(records []inventory.Record) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		name := ""
		if rec.HasName {
			name = rec.Name
		}
		rows = append(rows, []string{
			rec.Path,
			kindLabel(rec.Kind),
			strconv.Itoa(rec.Index),
			name,
			yesNo(rec.Present),
			rec.LastSeen.Local().Format(time.DateTime),
		})
	}
	return renderTable(
		[]string{"Path", "Kind", "Index", "Name", "Present", "Last Seen"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	)
}

func renderEventTable(events []inventory.Event) string {
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			strconv.FormatInt(ev.Seq, 10),
			ev.RecordedAt.Local().Format(time.DateTime),
			ev.Action,
			ev.Device,
		})
	}
	return renderTable(
		[]string{"#", "Time", "Action", "Device"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)
}
