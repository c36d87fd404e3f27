package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"v4lnode/internal/preflight"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <path|name>",
		Short: "Describe a single device node",
		Long: `Describe a single device node.

A bare name such as "video0" is looked up in the configured device directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := ctx.resolveNode(args[0])
			if err != nil {
				return err
			}
			info, err := node.Describe()
			if err != nil {
				return err
			}

			view := nodeView{
				Path:    info.Path,
				Kind:    info.Kind,
				Index:   &info.Index,
				Name:    info.Name,
				HasName: info.HasName,
			}
			access, probeErr := preflight.ProbeNode(node.Path())
			if probeErr == nil {
				view.Access = &access
			}

			if asJSON {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintf(out, "Path:   %s\n", view.Path)
			fmt.Fprintf(out, "Kind:   %s\n", kindLabel(view.Kind))
			fmt.Fprintf(out, "Index:  %d\n", info.Index)
			if view.HasName {
				fmt.Fprintf(out, "Name:   %s\n", view.Name)
			} else {
				fmt.Fprintln(out, "Name:   (unavailable)")
			}
			if view.Access != nil {
				fmt.Fprintf(out, "Device: %s\n", view.Access.DeviceNumber())
			}
			result := preflight.CheckNode(node.Path())
			kind := statusOK
			if !result.Passed {
				kind = statusWarn
			}
			fmt.Fprintln(out, renderStatusLine("Access", kind, result.Detail, colorize))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
