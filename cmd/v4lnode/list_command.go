package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"v4lnode/internal/v4l"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var sorted bool
	var withAccess bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List capture devices and sub-devices",
		Long: `List every device node whose name starts with "video" or "v4l-subdev".

Nodes are printed in directory order unless --sort is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner, err := ctx.scanner()
			if err != nil {
				return err
			}
			nodes := scanner.Scan()
			if sorted {
				v4l.SortNodes(nodes)
			}

			views := make([]nodeView, 0, len(nodes))
			for _, node := range nodes {
				views = append(views, describeNode(node, withAccess))
			}

			if asJSON {
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintf(out, "No video4linux nodes found in %s\n", scanner.Roots().DevDir)
				return nil
			}
			fmt.Fprintln(out, renderNodeTable(views, withAccess))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&sorted, "sort", false, "Sort by kind, then index")
	cmd.Flags().BoolVar(&withAccess, "access", false, "Include device numbers and read/write access")
	return cmd
}

func renderNodeTable(views []nodeView, withAccess bool) string {
	headers := []string{"Path", "Kind", "Index", "Name"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}
	if withAccess {
		headers = append(headers, "Device", "Access")
		aligns = append(aligns, alignLeft, alignLeft)
	}

	rows := make([][]string, 0, len(views))
	for _, view := range views {
		row := []string{view.Path, kindLabel(view.Kind), view.indexText(), view.nameText()}
		if withAccess {
			row = append(row, view.accessCells()...)
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns)
}
